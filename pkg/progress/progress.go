package progress

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/moyu-x/file-organizer/pkg/logger"
)

// Func 每处理完一项后同步调用一次
type Func func(completed, total int)

// Event 一次进度更新
type Event struct {
	Completed int
	Total     int
}

func (e Event) Percent() float64 {
	if e.Total == 0 {
		return 1
	}
	return float64(e.Completed) / float64(e.Total)
}

func (e Event) Done() bool {
	return e.Completed >= e.Total
}

// LogReporter 每处理 Every 项、每隔 Interval 或全部完成时输出一条日志
type LogReporter struct {
	Every    int
	Interval time.Duration
	Message  string
}

func NewLogReporter(every int, message string) *LogReporter {
	if every <= 0 {
		every = 10
	}
	return &LogReporter{Every: every, Interval: 2 * time.Second, Message: message}
}

func (r *LogReporter) Func() Func {
	sometimes := &rate.Sometimes{Every: r.Every, Interval: r.Interval}
	return func(completed, total int) {
		if completed == total {
			logger.Progress(completed, total, r.Message)
			return
		}
		sometimes.Do(func() {
			logger.Progress(completed, total, r.Message)
		})
	}
}

// Stream 将同步回调转换为事件通道，供并发的前端消费
// 通道满时丢弃中间事件，但总会尽量送达最终事件
type Stream struct {
	events chan Event
}

func NewStream(buffer int) *Stream {
	if buffer <= 0 {
		buffer = 1
	}
	return &Stream{events: make(chan Event, buffer)}
}

func (s *Stream) Func() Func {
	return func(completed, total int) {
		ev := Event{Completed: completed, Total: total}
		if ev.Done() {
			s.events <- ev
			return
		}
		select {
		case s.events <- ev:
		default:
		}
	}
}

func (s *Stream) Events() <-chan Event {
	return s.events
}

// Close 在执行结束后调用
func (s *Stream) Close() {
	close(s.events)
}

// Chain 依次调用多个回调
func Chain(fns ...Func) Func {
	return func(completed, total int) {
		for _, fn := range fns {
			if fn != nil {
				fn(completed, total)
			}
		}
	}
}
