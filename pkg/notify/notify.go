// Package notify 定义核心向展示层发出的结构化通知。
package notify

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/moyu-x/file-organizer/pkg/logger"
)

type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Event 一次通知，Path 为受影响的文件（可为空）
type Event struct {
	Severity Severity
	Title    string
	Message  string
	Path     string
}

type Notifier interface {
	Notify(Event)
}

// Func 允许普通函数作为 Notifier 使用
type Func func(Event)

func (f Func) Notify(e Event) { f(e) }

// Discard 丢弃所有通知
var Discard Notifier = Func(func(Event) {})

// LogNotifier 将通知写入 zerolog 日志
type LogNotifier struct{}

func (LogNotifier) Notify(e Event) {
	var ev *zerolog.Event
	switch e.Severity {
	case Error:
		ev = logger.Get().Error()
	case Warning:
		ev = logger.Get().Warn()
	default:
		ev = logger.Get().Info()
	}
	if e.Path != "" {
		ev = ev.Str("path", e.Path)
	}
	ev.Str("title", e.Title).Msg(e.Message)
}

// Recorder 在内存中保存通知，供测试和 TUI 使用
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count 返回指定级别的通知数量
func (r *Recorder) Count(s Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Severity == s {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// Multi 将通知分发给多个 Notifier
func Multi(ns ...Notifier) Notifier {
	return Func(func(e Event) {
		for _, n := range ns {
			if n != nil {
				n.Notify(e)
			}
		}
	})
}

// OrDiscard 在 n 为 nil 时返回 Discard
func OrDiscard(n Notifier) Notifier {
	if n == nil {
		return Discard
	}
	return n
}
