package gesture

import (
	"fmt"
	"time"
)

// Kind is the action carried by a pointer sample
type Kind int

const (
	KindDown Kind = iota + 1
	KindMove
	KindUp
	KindCancel
)

func (k Kind) String() string {
	switch k {
	case KindDown:
		return "down"
	case KindMove:
		return "move"
	case KindUp:
		return "up"
	case KindCancel:
		return "cancel"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// PointerEvent is a single sample from the pointer stream.
// Time is monotonic and only meaningful relative to other samples of the
// same stream.
type PointerEvent struct {
	Kind Kind
	X    float64
	Y    float64
	Time time.Duration
}

func (e PointerEvent) String() string {
	return fmt.Sprintf("%s(%.1f,%.1f @%s)", e.Kind, e.X, e.Y, e.Time)
}

// State is the recognizer's current interpretation of the contact
type State int

const (
	StateIdle State = iota
	StateLongPress
	StateScroll
	StateTapPending
	StateDoubleTap
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLongPress:
		return "long_press"
	case StateScroll:
		return "scroll"
	case StateTapPending:
		return "tap_pending"
	case StateDoubleTap:
		return "double_tap"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}
