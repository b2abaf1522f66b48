package pty

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/creack/pty"

	"github.com/pleimann/camel-touch/internal/action"
)

// ErrNotStarted is returned when writing before Start or after Stop
var ErrNotStarted = errors.New("PTY not started")

const (
	outputBufferSize = 4096
	stopTimeout      = 3 * time.Second
)

// Manager manages a PTY and the TUI process running in it
type Manager struct {
	command    string
	args       []string
	workingDir string
	logger     *slog.Logger

	mu     sync.Mutex
	ptmx   *os.File
	cmd    *exec.Cmd
	exited chan struct{}

	outputMu sync.RWMutex
	output   *RingBuffer
}

// NewManager creates a new PTY manager
func NewManager(command string, args []string, workingDir string, logger *slog.Logger) (*Manager, error) {
	if command == "" {
		return nil, fmt.Errorf("command is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		command:    command,
		args:       args,
		workingDir: workingDir,
		logger:     logger.With("component", "pty", "command", command),
		output:     NewRingBuffer(outputBufferSize),
	}, nil
}

// Start starts the TUI process in a PTY
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx != nil {
		return fmt.Errorf("PTY already started")
	}

	cmd := exec.CommandContext(ctx, m.command, m.args...)
	if m.workingDir != "" {
		cmd.Dir = m.workingDir
	}
	cmd.Env = os.Environ()

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("failed to start PTY: %w", err)
	}

	m.ptmx = ptmx
	m.cmd = cmd
	m.exited = make(chan struct{})
	m.logger.Info("TUI started", "pid", cmd.Process.Pid)

	go m.readOutput(ptmx)
	go m.wait(cmd, m.exited)

	return nil
}

func (m *Manager) wait(cmd *exec.Cmd, exited chan struct{}) {
	err := cmd.Wait()
	if err != nil {
		m.logger.Warn("TUI exited", "error", err)
	} else {
		m.logger.Info("TUI exited")
	}
	close(exited)
}

// Exited returns a channel closed when the TUI process exits. It is nil
// before Start.
func (m *Manager) Exited() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exited
}

// Stop interrupts the TUI process and closes the PTY
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cmd != nil && m.cmd.Process != nil {
		_ = m.cmd.Process.Signal(os.Interrupt)
		select {
		case <-m.exited:
		case <-time.After(stopTimeout):
			m.logger.Warn("TUI ignored interrupt, killing")
			_ = m.cmd.Process.Kill()
			<-m.exited
		}
	}

	if m.ptmx != nil {
		m.ptmx.Close()
		m.ptmx = nil
	}
}

func (m *Manager) readOutput(r io.Reader) {
	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			m.outputMu.Lock()
			m.output.Write(buf[:n])
			m.outputMu.Unlock()
		}
		if err != nil {
			// EIO is the normal result once the child closes its side
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				m.logger.Debug("PTY read ended", "error", err)
			}
			return
		}
	}
}

// WriteKey writes a key press to the PTY
func (m *Manager) WriteKey(key action.KeyPress) error {
	data := key.ToBytes()
	if data == nil {
		return fmt.Errorf("could not convert key %q to bytes", key.Key)
	}
	return m.write(data)
}

// WriteString writes a string to the PTY
func (m *Manager) WriteString(s string) error {
	return m.write([]byte(s))
}

func (m *Manager) write(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return ErrNotStarted
	}
	_, err := m.ptmx.Write(data)
	return err
}

// RecentOutput returns the raw tail of the TUI output
func (m *Manager) RecentOutput() string {
	m.outputMu.RLock()
	defer m.outputMu.RUnlock()
	return m.output.String()
}

// StatusLine returns the last non-blank line of TUI output with terminal
// escape sequences removed
func (m *Manager) StatusLine() string {
	return lastLine(ansi.Strip(m.RecentOutput()))
}

func lastLine(s string) string {
	lines := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// Resize resizes the PTY window
func (m *Manager) Resize(rows, cols uint16) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ptmx == nil {
		return ErrNotStarted
	}
	return pty.Setsize(m.ptmx, &pty.Winsize{Rows: rows, Cols: cols})
}

// IsRunning returns whether the TUI process is running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	exited := m.exited
	m.mu.Unlock()

	if exited == nil {
		return false
	}
	select {
	case <-exited:
		return false
	default:
		return true
	}
}
