package gesture

import (
	"testing"
)

func TestGestureTypeString(t *testing.T) {
	tests := []struct {
		gt   GestureType
		want string
	}{
		{GestureTap, "tap"},
		{GestureDoubleTap, "double_tap"},
		{GestureLongPress, "long_press"},
		{GestureScroll, "scroll"},
		{GestureFling, "fling"},
		{GestureType(99), "unknown(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.gt.String(); got != tt.want {
				t.Errorf("GestureType.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		want   Direction
	}{
		{"still", 0, 0, DirectionNone},
		{"up", 0, -1, DirectionUp},
		{"down", 0.5, 2, DirectionDown},
		{"left", -3, 1, DirectionLeft},
		{"right", 3, -1, DirectionRight},
		{"diagonal favors vertical", 1, 1, DirectionDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DirectionOf(tt.dx, tt.dy); got != tt.want {
				t.Errorf("DirectionOf(%v, %v) = %v, want %v", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestGestureKey(t *testing.T) {
	tests := []struct {
		name    string
		gesture Gesture
		want    string
	}{
		{"tap", NewTapGesture(1, 2), "tap"},
		{"double tap", NewDoubleTapGesture(1, 2), "double_tap"},
		{"long press", NewLongPressGesture(1, 2), "long_press"},
		{"scroll up", NewScrollGesture(0, 0, 0, -0.1), "scroll:up"},
		{"fling left", NewFlingGesture(0, 0, -900, 100), "fling:left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.gesture.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGestureString(t *testing.T) {
	g := NewTapGesture(12, 34)
	g.Zone = "left"
	if got := g.String(); got != "tap(12,34)@left" {
		t.Errorf("String() = %q, want %q", got, "tap(12,34)@left")
	}

	s := NewScrollGesture(5, 6, 0.1, 0)
	s.Kinetic = true
	if got := s.String(); got != "scroll:right(5,6)~" {
		t.Errorf("String() = %q, want %q", got, "scroll:right(5,6)~")
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{KindDown, "down"},
		{KindMove, "move"},
		{KindUp, "up"},
		{KindCancel, "cancel"},
		{Kind(0), "unknown(0)"},
	}

	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(tt.k), got, tt.want)
		}
	}
}
