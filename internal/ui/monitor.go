package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/camel-touch/internal/gesture"
)

const monitorHistory = 12

// GestureMsg delivers a recognized gesture to the monitor
type GestureMsg struct {
	Gesture gesture.Gesture
	At      time.Time
}

// PointerMsg delivers a raw pointer event to the monitor
type PointerMsg struct {
	Event gesture.PointerEvent
}

// DeviceMsg reports a device connection change
type DeviceMsg struct {
	Connected bool
	Err       error
}

// MonitorModel is a live view of pointer events and recognized gestures
type MonitorModel struct {
	device    string
	connected bool
	lastErr   error
	pointer   *gesture.PointerEvent
	touching  bool
	history   []GestureMsg
	counts    map[gesture.GestureType]int
	width     int
}

// NewMonitor creates a monitor for the named device
func NewMonitor(device string) MonitorModel {
	return MonitorModel{
		device:    device,
		connected: true,
		counts:    make(map[gesture.GestureType]int),
	}
}

func (m MonitorModel) Init() tea.Cmd {
	return nil
}

func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "c":
			m.history = nil
			m.counts = make(map[gesture.GestureType]int)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case PointerMsg:
		e := msg.Event
		m.pointer = &e
		switch e.Kind {
		case gesture.KindDown, gesture.KindMove:
			m.touching = true
		default:
			m.touching = false
		}

	case GestureMsg:
		m.counts[msg.Gesture.Type]++
		m.history = append(m.history, msg)
		if len(m.history) > monitorHistory {
			m.history = m.history[len(m.history)-monitorHistory:]
		}

	case DeviceMsg:
		m.connected = msg.Connected
		m.lastErr = msg.Err
		if !msg.Connected {
			m.touching = false
		}
	}

	return m, nil
}

func (m MonitorModel) View() string {
	var b strings.Builder

	b.WriteString(Title("Gesture monitor") + "  " + Muted(m.device) + "\n\n")
	status, history := HighlightBoxStyle, BoxStyle
	if m.width > 4 {
		// leave room for the border
		status = status.Width(m.width - 2)
		history = history.Width(m.width - 2)
	}
	b.WriteString(status.Render(m.statusView()) + "\n")
	b.WriteString(history.Render(m.historyView()) + "\n")
	b.WriteString(Muted("q quit  c clear") + "\n")

	return b.String()
}

func (m MonitorModel) statusView() string {
	var lines []string

	switch {
	case !m.connected && m.lastErr != nil:
		lines = append(lines, Error("disconnected: "+m.lastErr.Error()))
	case !m.connected:
		lines = append(lines, Warning("waiting for device"))
	case m.touching:
		lines = append(lines, Success("touching"))
	default:
		lines = append(lines, Muted("idle"))
	}

	if m.pointer != nil {
		lines = append(lines, fmt.Sprintf("last %s", m.pointer))
	}

	var counts []string
	for _, t := range []gesture.GestureType{
		gesture.GestureTap,
		gesture.GestureDoubleTap,
		gesture.GestureLongPress,
		gesture.GestureScroll,
		gesture.GestureFling,
	} {
		counts = append(counts, GestureStyle(t).Render(t.String())+" "+fmt.Sprint(m.counts[t]))
	}
	lines = append(lines, strings.Join(counts, "  "))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m MonitorModel) historyView() string {
	if len(m.history) == 0 {
		return Muted("no gestures yet")
	}

	lines := make([]string, 0, len(m.history))
	for i := len(m.history) - 1; i >= 0; i-- {
		h := m.history[i]
		line := Muted(h.At.Format("15:04:05.000")) + "  " + GestureStyle(h.Gesture.Type).Render(h.Gesture.String())
		if h.Gesture.Type == gesture.GestureFling {
			line += Muted(fmt.Sprintf("  v=(%.0f, %.0f)", h.Gesture.VX, h.Gesture.VY))
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
