package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/moyu-x/file-organizer/pkg/logger"
)

func TestEvent(t *testing.T) {
	e := Event{Completed: 1, Total: 4}
	if e.Percent() != 0.25 {
		t.Errorf("Expected 0.25, got %v", e.Percent())
	}
	if e.Done() {
		t.Error("Event should not be done")
	}
	if !(Event{Completed: 0, Total: 0}).Done() {
		t.Error("Empty batch should be done")
	}
}

func TestStream_DeliversFinalEvent(t *testing.T) {
	s := NewStream(1)
	fn := s.Func()

	done := make(chan []Event)
	go func() {
		var got []Event
		for ev := range s.Events() {
			got = append(got, ev)
		}
		done <- got
	}()

	for i := 1; i <= 100; i++ {
		fn(i, 100)
	}
	s.Close()

	got := <-done
	if len(got) == 0 {
		t.Fatal("Expected at least one event")
	}
	last := got[len(got)-1]
	if last.Completed != 100 || last.Total != 100 {
		t.Errorf("Expected final event 100/100, got %+v", last)
	}
}

func TestChain(t *testing.T) {
	var a, b int
	fn := Chain(func(c, _ int) { a = c }, nil, func(c, _ int) { b = c })
	fn(3, 5)
	if a != 3 || b != 3 {
		t.Errorf("Expected both callbacks to run, got a=%d b=%d", a, b)
	}
}

func TestLogReporter(t *testing.T) {
	r := NewLogReporter(0, "移动进度")
	if r.Every != 10 {
		t.Errorf("Expected default interval 10, got %d", r.Every)
	}

	var buf bytes.Buffer
	if err := logger.InitWithWriter("info", "", &buf); err != nil {
		t.Fatalf("InitWithWriter failed: %v", err)
	}
	defer func() { logger.Logger = nil }()

	r.Interval = 0
	fn := r.Func()
	for i := 1; i <= 25; i++ {
		fn(i, 25)
	}

	// 第 1、11、21 项以及最后一项
	lines := strings.Count(buf.String(), "移动进度")
	if lines != 4 {
		t.Errorf("Expected 4 progress lines, got %d:\n%s", lines, buf.String())
	}
}
