package pty

import (
	"errors"
	"testing"
	"time"

	"github.com/pleimann/camel-touch/internal/action"
	"github.com/pleimann/camel-touch/internal/logging"
)

func TestNewManagerValidation(t *testing.T) {
	if _, err := NewManager("", nil, "", nil); err == nil {
		t.Error("NewManager() with empty command should return error")
	}

	m, err := NewManager("echo", []string{"test"}, "", logging.Discard())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if m.IsRunning() {
		t.Error("IsRunning() = true before Start(), want false")
	}
	if m.Exited() != nil {
		t.Error("Exited() should be nil before Start()")
	}
	if out := m.RecentOutput(); out != "" {
		t.Errorf("RecentOutput() = %q, want empty", out)
	}
}

func TestManagerWriteBeforeStart(t *testing.T) {
	m, _ := NewManager("echo", nil, "", logging.Discard())

	if err := m.WriteKey(action.KeyPress{Key: "a"}); !errors.Is(err, ErrNotStarted) {
		t.Errorf("WriteKey() error = %v, want ErrNotStarted", err)
	}
	if err := m.WriteKey(action.KeyPress{Key: "nope"}); err == nil {
		t.Error("WriteKey() with unencodable key should fail")
	}
	if err := m.Resize(24, 80); !errors.Is(err, ErrNotStarted) {
		t.Errorf("Resize() error = %v, want ErrNotStarted", err)
	}
}

func TestStatusLine(t *testing.T) {
	m, _ := NewManager("echo", nil, "", logging.Discard())

	m.output.Write([]byte("building...\r\n\x1b[1;32mready\x1b[0m: 3 tasks  \r\n\r\n"))

	if got := m.StatusLine(); got != "ready: 3 tasks" {
		t.Errorf("StatusLine() = %q, want %q", got, "ready: 3 tasks")
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"one", "one"},
		{"one\ntwo\n", "two"},
		{"one\r\n  \r\n", "one"},
		{"\n\n", ""},
	}
	for _, tt := range tests {
		if got := lastLine(tt.in); got != tt.want {
			t.Errorf("lastLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type recordingSink struct {
	keys []action.KeyPress
	err  error
}

func (s *recordingSink) WriteKey(key action.KeyPress) error {
	if s.err != nil {
		return s.err
	}
	s.keys = append(s.keys, key)
	return nil
}

func TestWriterDelay(t *testing.T) {
	sink := &recordingSink{}
	w := NewWriter(sink, 15*time.Millisecond)

	var slept []time.Duration
	w.sleep = func(d time.Duration) { slept = append(slept, d) }

	for _, k := range []string{"a", "b"} {
		if err := w.WriteKey(action.KeyPress{Key: k}); err != nil {
			t.Fatalf("WriteKey(%s) error = %v", k, err)
		}
	}

	if len(sink.keys) != 2 {
		t.Errorf("sink got %d keys, want 2", len(sink.keys))
	}
	if len(slept) != 2 || slept[0] != 15*time.Millisecond {
		t.Errorf("slept %v, want two 15ms pauses", slept)
	}
}

func TestWriterNoDelayOnError(t *testing.T) {
	sink := &recordingSink{err: ErrNotStarted}
	w := NewWriter(sink, time.Second)
	w.sleep = func(time.Duration) { t.Error("writer slept after a failed write") }

	if err := w.WriteKey(action.KeyPress{Key: "a"}); !errors.Is(err, ErrNotStarted) {
		t.Errorf("WriteKey() error = %v, want ErrNotStarted", err)
	}
}
