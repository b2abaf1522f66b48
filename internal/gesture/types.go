package gesture

import (
	"fmt"
	"math"
	"strings"
)

// GestureType represents the type of gesture detected
type GestureType int

const (
	GestureTap GestureType = iota
	GestureDoubleTap
	GestureLongPress
	GestureScroll
	GestureFling
)

func (g GestureType) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureDoubleTap:
		return "double_tap"
	case GestureLongPress:
		return "long_press"
	case GestureScroll:
		return "scroll"
	case GestureFling:
		return "fling"
	default:
		return fmt.Sprintf("unknown(%d)", g)
	}
}

// Direction is the dominant axis and sign of a movement
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "none"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

// DirectionOf returns the dominant direction of (dx, dy) in screen
// coordinates, where y grows downward. Ties favor the vertical axis.
func DirectionOf(dx, dy float64) Direction {
	switch {
	case dx == 0 && dy == 0:
		return DirectionNone
	case math.Abs(dy) >= math.Abs(dx):
		if dy < 0 {
			return DirectionUp
		}
		return DirectionDown
	case dx < 0:
		return DirectionLeft
	default:
		return DirectionRight
	}
}

// Gesture represents a detected gesture
type Gesture struct {
	Type      GestureType
	X, Y      float64 // position of the down that started the gesture
	Zone      string  // name of the zone containing X, Y, if any
	Direction Direction
	DX, DY    float64 // scroll delta as a fraction of the surface
	VX, VY    float64 // fling velocity in px/s
	Kinetic   bool    // scroll step produced by fling inertia
}

func (g Gesture) String() string {
	var sb strings.Builder
	sb.WriteString(g.Key())
	fmt.Fprintf(&sb, "(%.0f,%.0f)", g.X, g.Y)
	if g.Zone != "" {
		sb.WriteString("@")
		sb.WriteString(g.Zone)
	}
	if g.Kinetic {
		sb.WriteString("~")
	}
	return sb.String()
}

// Key returns the binding lookup key for this gesture, e.g. "tap" or
// "scroll:up"
func (g Gesture) Key() string {
	switch g.Type {
	case GestureScroll, GestureFling:
		return g.Type.String() + ":" + g.Direction.String()
	default:
		return g.Type.String()
	}
}

// NewTapGesture creates a single tap gesture at x, y
func NewTapGesture(x, y float64) Gesture {
	return Gesture{Type: GestureTap, X: x, Y: y}
}

// NewDoubleTapGesture creates a double tap gesture at x, y
func NewDoubleTapGesture(x, y float64) Gesture {
	return Gesture{Type: GestureDoubleTap, X: x, Y: y}
}

// NewLongPressGesture creates a long press gesture at x, y
func NewLongPressGesture(x, y float64) Gesture {
	return Gesture{Type: GestureLongPress, X: x, Y: y}
}

// NewScrollGesture creates a scroll step that started at x, y
func NewScrollGesture(x, y, dx, dy float64) Gesture {
	return Gesture{
		Type:      GestureScroll,
		X:         x,
		Y:         y,
		Direction: DirectionOf(dx, dy),
		DX:        dx,
		DY:        dy,
	}
}

// NewFlingGesture creates a fling released with velocity vx, vy
func NewFlingGesture(x, y, vx, vy float64) Gesture {
	return Gesture{
		Type:      GestureFling,
		X:         x,
		Y:         y,
		Direction: DirectionOf(vx, vy),
		VX:        vx,
		VY:        vy,
	}
}
