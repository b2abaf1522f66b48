package action

import (
	"fmt"
	"log/slog"
)

// KeyWriter is the interface for writing key sequences
type KeyWriter interface {
	WriteKey(key KeyPress) error
}

// Executor executes key sequences
type Executor struct {
	writer KeyWriter
	logger *slog.Logger
}

// NewExecutor creates a new action executor
func NewExecutor(writer KeyWriter, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{writer: writer, logger: logger.With("component", "action")}
}

// Execute parses and writes each key in order. It stops at the first key
// that fails.
func (e *Executor) Execute(keys []string) error {
	for _, keyStr := range keys {
		key, err := ParseKey(keyStr)
		if err != nil {
			return fmt.Errorf("invalid key %q: %w", keyStr, err)
		}
		if err := e.writer.WriteKey(key); err != nil {
			return fmt.Errorf("failed to write key %q: %w", keyStr, err)
		}
	}
	e.logger.Debug("keys written", "keys", keys)
	return nil
}
