package ui

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pleimann/camel-touch/internal/gesture"
)

func TestSortDevices(t *testing.T) {
	devices := []DeviceInfo{
		{VendorID: 0x2000, ProductID: 1, Product: "keyboard"},
		{VendorID: 0x1000, ProductID: 2, Product: "mouse"},
		{VendorID: 0x3000, ProductID: 5, Product: "pad kbd"},
		{VendorID: 0x3000, ProductID: 5, Product: "pad touch", Digitizer: true},
		{VendorID: 0x2000, ProductID: 1, Product: "keyboard consumer"},
	}

	got := SortDevices(devices)
	var names []string
	for _, d := range got {
		names = append(names, d.Product)
	}

	want := []string{"pad touch", "mouse", "keyboard"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("SortDevices() = %v, want %v", names, want)
	}
}

func TestFormatDeviceName(t *testing.T) {
	tests := []struct {
		d    DeviceInfo
		want string
	}{
		{DeviceInfo{Product: "Pad", Manufacturer: "Acme"}, "Acme Pad"},
		{DeviceInfo{Product: "Pad"}, "Pad"},
		{DeviceInfo{}, "Unknown Device"},
	}
	for _, tt := range tests {
		if got := formatDeviceName(tt.d); got != tt.want {
			t.Errorf("formatDeviceName(%+v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func update(m MonitorModel, msg tea.Msg) MonitorModel {
	next, _ := m.Update(msg)
	return next.(MonitorModel)
}

func TestMonitorHistory(t *testing.T) {
	m := NewMonitor("pad")
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < monitorHistory+3; i++ {
		m = update(m, GestureMsg{Gesture: gesture.NewTapGesture(float64(i), 0), At: at})
	}
	m = update(m, GestureMsg{Gesture: gesture.NewFlingGesture(0, 0, 1200, 0), At: at})

	if len(m.history) != monitorHistory {
		t.Errorf("history length = %d, want %d", len(m.history), monitorHistory)
	}
	if m.counts[gesture.GestureTap] != monitorHistory+3 || m.counts[gesture.GestureFling] != 1 {
		t.Errorf("counts = %v", m.counts)
	}

	view := m.View()
	for _, want := range []string{"Gesture monitor", "fling:right", "v=(1200, 0)"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if len(m.history) != 0 || m.counts[gesture.GestureTap] != 0 {
		t.Error("c did not clear the history")
	}
	if !strings.Contains(m.View(), "no gestures yet") {
		t.Error("cleared view should show the empty placeholder")
	}
}

func TestMonitorPointerAndDevice(t *testing.T) {
	m := NewMonitor("pad")

	m = update(m, PointerMsg{Event: gesture.PointerEvent{Kind: gesture.KindDown, X: 3, Y: 4}})
	if !m.touching {
		t.Error("touching = false after down")
	}
	m = update(m, PointerMsg{Event: gesture.PointerEvent{Kind: gesture.KindUp, X: 3, Y: 4}})
	if m.touching {
		t.Error("touching = true after up")
	}

	m = update(m, PointerMsg{Event: gesture.PointerEvent{Kind: gesture.KindMove}})
	m = update(m, DeviceMsg{Connected: false, Err: errors.New("unplugged")})
	if m.touching || m.connected {
		t.Error("disconnect should clear touching and connected")
	}
	if !strings.Contains(m.View(), "unplugged") {
		t.Errorf("View() should show the disconnect error:\n%s", m.View())
	}
}

func TestMonitorQuit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := NewMonitor("pad").Update(key)
		if cmd == nil {
			t.Errorf("%s: expected quit command", key)
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: command did not quit", key)
		}
	}
}
