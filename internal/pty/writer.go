package pty

import (
	"time"

	"github.com/pleimann/camel-touch/internal/action"
)

// KeySink receives encoded key presses
type KeySink interface {
	WriteKey(key action.KeyPress) error
}

// Writer paces key presses to a KeySink, sleeping keyDelay after each
type Writer struct {
	sink     KeySink
	keyDelay time.Duration
	sleep    func(time.Duration)
}

// NewWriter creates a new PTY writer
func NewWriter(sink KeySink, keyDelay time.Duration) *Writer {
	return &Writer{
		sink:     sink,
		keyDelay: keyDelay,
		sleep:    time.Sleep,
	}
}

// WriteKey writes a single key press
func (w *Writer) WriteKey(key action.KeyPress) error {
	if err := w.sink.WriteKey(key); err != nil {
		return err
	}
	if w.keyDelay > 0 {
		w.sleep(w.keyDelay)
	}
	return nil
}
