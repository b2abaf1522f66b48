package gesture

import (
	"math"
	"time"
)

// Listener receives the outcome of gesture classification. Methods that
// return bool report whether the listener consumed the gesture; a consumed
// contact produces no further scroll or fling callbacks.
type Listener interface {
	OnDown(e PointerEvent) bool
	OnUp(e PointerEvent)
	OnLongPress(x, y float64) bool
	// dx and dy are the movement since the previous sample divided by the
	// surface width and height.
	OnScroll(x, y float64, e PointerEvent, dx, dy float64) bool
	// vx and vy are in pixels per second.
	OnFling(x, y float64, e PointerEvent, vx, vy float64) bool
	OnSingleTap(x, y float64)
	OnDoubleTap(x, y float64)
}

// Config holds the host-supplied thresholds
type Config struct {
	LongPressTimeout time.Duration
	DoubleTapTimeout time.Duration
	// TapTimeout is informational for hosts and never consulted here. A
	// contact is a tap until the long press timer fires or it moves past
	// TouchSlop, however long it is held.
	TapTimeout time.Duration

	// TouchSlop is the distance in pixels a contact must travel before it
	// becomes a scroll.
	TouchSlop float64
	// DoubleTapSlop is the largest distance between the two downs of a
	// double tap. Zero disables the check.
	DoubleTapSlop float64
	// MaxFlingVelocity caps each velocity component, in pixels per second.
	MaxFlingVelocity float64

	// Width and Height are the surface extent used to normalize scroll
	// deltas.
	Width  float64
	Height float64
}

// DefaultConfig returns thresholds suitable for a small touch surface
func DefaultConfig() Config {
	return Config{
		LongPressTimeout: 500 * time.Millisecond,
		DoubleTapTimeout: 300 * time.Millisecond,
		TapTimeout:       100 * time.Millisecond,
		TouchSlop:        8,
		DoubleTapSlop:    100,
		MaxFlingVelocity: 8000,
		Width:            1,
		Height:           1,
	}
}

type session struct {
	downX, downY float64
	lastX, lastY float64
	consumed     bool
	active       bool
	velocity     *VelocityTracker
}

// Recognizer classifies a single pointer stream into gestures.
//
// A Recognizer is not safe for concurrent use: Handle and the scheduler's
// callbacks must all run on the same goroutine (see Loop).
type Recognizer struct {
	cfg      Config
	listener Listener
	sched    Scheduler

	state     State
	s         session
	pool      velocityPool
	longPress Timer
	tap       Timer
}

// NewRecognizer creates a recognizer that reports to listener and arms its
// timers on sched
func NewRecognizer(cfg Config, listener Listener, sched Scheduler) *Recognizer {
	return &Recognizer{
		cfg:      cfg,
		listener: listener,
		sched:    sched,
	}
}

// State returns the current state
func (r *Recognizer) State() State {
	return r.state
}

// SetConfig replaces the thresholds. Timers already armed keep their
// original duration.
func (r *Recognizer) SetConfig(cfg Config) {
	r.cfg = cfg
}

// Handle feeds one pointer event through the state machine and reports
// whether it was consumed.
func (r *Recognizer) Handle(e PointerEvent) bool {
	switch e.Kind {
	case KindDown:
		return r.handleDown(e)
	case KindMove:
		return r.handleMove(e)
	case KindUp:
		return r.handleUp(e)
	case KindCancel:
		r.reset()
		return true
	default:
		r.reset()
		return false
	}
}

// Reset aborts any contact in flight without firing callbacks
func (r *Recognizer) Reset() {
	r.reset()
}

func (r *Recognizer) handleDown(e PointerEvent) bool {
	if r.listener.OnDown(e) {
		r.reset()
		return true
	}

	if r.state == StateTapPending {
		if r.cfg.DoubleTapSlop <= 0 || distance(r.s.downX, r.s.downY, e.X, e.Y) <= r.cfg.DoubleTapSlop {
			r.stopTap()
			r.s.consumed = false
			r.s.active = true
			r.s.lastX, r.s.lastY = e.X, e.Y
			r.track(e)
			r.state = StateDoubleTap
			return true
		}

		// Too far from the first tap: commit it and start over.
		x, y := r.s.downX, r.s.downY
		r.reset()
		r.listener.OnSingleTap(x, y)
	}

	r.reset()
	r.s = session{
		downX:  e.X,
		downY:  e.Y,
		lastX:  e.X,
		lastY:  e.Y,
		active: true,
	}
	r.track(e)
	r.longPress = r.sched.AfterFunc(r.cfg.LongPressTimeout, r.longPressExpired)
	return true
}

func (r *Recognizer) handleMove(e PointerEvent) bool {
	if !r.s.active {
		return false
	}
	r.track(e)

	switch r.state {
	case StateScroll, StateLongPress:
		if !r.s.consumed {
			dx := (e.X - r.s.lastX) / extent(r.cfg.Width)
			dy := (e.Y - r.s.lastY) / extent(r.cfg.Height)
			r.s.consumed = r.listener.OnScroll(r.s.downX, r.s.downY, e, dx, dy)
		}
	case StateIdle:
		if distance(r.s.downX, r.s.downY, e.X, e.Y) >= r.cfg.TouchSlop {
			r.stopLongPress()
			r.state = StateScroll
		}
	}

	r.s.lastX, r.s.lastY = e.X, e.Y
	return true
}

func (r *Recognizer) handleUp(e PointerEvent) bool {
	r.listener.OnUp(e)

	if !r.s.active {
		// A stray up must not discard the tap of the previous contact.
		if r.state != StateTapPending {
			r.reset()
		}
		return false
	}
	r.track(e)

	switch r.state {
	case StateScroll:
		if !r.s.consumed {
			vx, vy := r.s.velocity.Compute(r.cfg.MaxFlingVelocity)
			r.listener.OnFling(r.s.downX, r.s.downY, e, vx, vy)
		}
		r.reset()
	case StateDoubleTap:
		r.listener.OnDoubleTap(r.s.downX, r.s.downY)
		r.reset()
	case StateLongPress:
		r.s.consumed = false
		r.reset()
	default:
		r.stopLongPress()
		r.releaseTracker()
		r.s.active = false
		r.s.consumed = false
		r.state = StateTapPending
		r.tap = r.sched.AfterFunc(r.cfg.DoubleTapTimeout, r.tapExpired)
	}
	return true
}

func (r *Recognizer) longPressExpired() {
	r.longPress = nil
	if !r.s.active || r.state != StateIdle {
		return
	}
	r.state = StateLongPress
	r.s.consumed = r.listener.OnLongPress(r.s.downX, r.s.downY)
}

func (r *Recognizer) tapExpired() {
	r.tap = nil
	if r.state != StateTapPending {
		return
	}
	x, y := r.s.downX, r.s.downY
	r.reset()
	r.listener.OnSingleTap(x, y)
}

func (r *Recognizer) track(e PointerEvent) {
	if r.s.velocity == nil {
		r.s.velocity = r.pool.acquire()
	}
	r.s.velocity.Add(e)
}

func (r *Recognizer) releaseTracker() {
	r.pool.release(r.s.velocity)
	r.s.velocity = nil
}

func (r *Recognizer) stopLongPress() {
	if r.longPress != nil {
		r.longPress.Stop()
		r.longPress = nil
	}
}

func (r *Recognizer) stopTap() {
	if r.tap != nil {
		r.tap.Stop()
		r.tap = nil
	}
}

func (r *Recognizer) reset() {
	r.stopLongPress()
	r.stopTap()
	r.releaseTracker()
	r.s = session{}
	r.state = StateIdle
}

func distance(x0, y0, x1, y1 float64) float64 {
	return math.Hypot(x1-x0, y1-y0)
}

func extent(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}
