package gesture

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/pleimann/camel-touch/internal/config"
	"github.com/pleimann/camel-touch/internal/hid"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Engine hosts the recognizer on its own event loop and turns recognizer
// callbacks into Gesture values. The handler reports whether a gesture was
// bound to an action; a handled long press suppresses the drag that may
// follow it, and a handled fling suppresses kinetic scrolling.
type Engine struct {
	logger    *slog.Logger
	onGesture func(Gesture) bool
	loop      *Loop
	sched     Scheduler
	rec       *Recognizer

	// Everything below is owned by the loop goroutine.
	timing  config.TimingConfig
	surface config.SurfaceConfig
	kinetic config.KineticConfig
	easeFn  ease.TweenFunc
	zones   []config.Zone
	scroll  scrollAccumulator
	inertia *inertia

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type scrollAccumulator struct {
	x, y   float64 // origin of the drag
	dx, dy float64
}

type inertia struct {
	x, y   float64
	tx, ty *gween.Tween
	px, py float32
	tick   time.Duration
	timer  Timer
}

// Option configures an Engine
type Option func(*Engine)

// WithScheduler arms recognizer and inertia timers on s instead of the
// engine's loop. Callbacks from s must run on the loop goroutine.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		e.sched = s
	}
}

// NewEngine creates a gesture engine
func NewEngine(cfg *config.Config, logger *slog.Logger, onGesture func(Gesture) bool, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		logger:    logger.With("component", "gesture"),
		onGesture: onGesture,
		loop:      NewLoop(256),
	}
	e.sched = e.loop
	for _, opt := range opts {
		opt(e)
	}
	e.apply(cfg)
	e.rec = NewRecognizer(RecognizerConfig(cfg), (*engineListener)(e), e.sched)
	return e
}

// RecognizerConfig derives recognizer thresholds from the configuration
func RecognizerConfig(cfg *config.Config) Config {
	t := cfg.Timing
	return Config{
		LongPressTimeout: time.Duration(t.LongPressTimeoutMs) * time.Millisecond,
		DoubleTapTimeout: time.Duration(t.DoubleTapTimeoutMs) * time.Millisecond,
		TapTimeout:       time.Duration(t.TapTimeoutMs) * time.Millisecond,
		TouchSlop:        t.TouchSlopPx,
		DoubleTapSlop:    t.DoubleTapSlopPx,
		MaxFlingVelocity: t.MaxFlingVelocity,
		Width:            float64(cfg.Surface.Width),
		Height:           float64(cfg.Surface.Height),
	}
}

func (e *Engine) apply(cfg *config.Config) {
	e.timing = cfg.Timing
	e.surface = cfg.Surface
	e.kinetic = cfg.Kinetic
	e.zones = append([]config.Zone(nil), cfg.Zones...)

	fn, err := EaseFunc(cfg.Kinetic.Ease)
	if err != nil {
		e.logger.Warn("falling back to out_cubic easing", "error", err)
	}
	e.easeFn = fn
}

// Start runs the event loop until ctx is cancelled or Stop is called
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.loop.Run(ctx)
	}()
}

// Stop aborts any contact in flight and stops the event loop
func (e *Engine) Stop() {
	if e.cancel == nil {
		return
	}

	flushed := make(chan struct{})
	if e.loop.Post(func() {
		e.stopInertia()
		e.rec.Reset()
		close(flushed)
	}) {
		select {
		case <-flushed:
		case <-e.loop.Done():
		}
	}

	e.cancel()
	e.wg.Wait()
}

// ProcessEvent queues a pointer report for classification
func (e *Engine) ProcessEvent(event hid.Event) {
	pe := PointerEventFromHID(event)
	e.loop.Post(func() {
		consumed := e.rec.Handle(pe)
		e.logger.Debug("pointer event", "event", pe.String(), "state", e.rec.State().String(), "consumed", consumed)
	})
}

// Reset aborts the current contact, e.g. after the device disconnected
func (e *Engine) Reset() {
	e.loop.Post(func() {
		e.stopInertia()
		e.rec.Reset()
	})
}

// Reconfigure applies new thresholds and zones. A contact in flight keeps
// its timers.
func (e *Engine) Reconfigure(cfg *config.Config) {
	rc := RecognizerConfig(cfg)
	e.loop.Post(func() {
		e.apply(cfg)
		e.rec.SetConfig(rc)
	})
}

// PointerEventFromHID converts a device report into a recognizer event
func PointerEventFromHID(event hid.Event) PointerEvent {
	var kind Kind
	switch event.Action {
	case hid.Down:
		kind = KindDown
	case hid.Move:
		kind = KindMove
	case hid.Up:
		kind = KindUp
	case hid.Cancel:
		kind = KindCancel
	}
	return PointerEvent{
		Kind: kind,
		X:    float64(event.X),
		Y:    float64(event.Y),
		Time: time.Duration(event.Timestamp) * time.Millisecond,
	}
}

// EaseFunc resolves an easing name from the kinetic config
func EaseFunc(name string) (ease.TweenFunc, error) {
	switch name {
	case "", "out_cubic":
		return ease.OutCubic, nil
	case "linear":
		return ease.Linear, nil
	case "out_quad":
		return ease.OutQuad, nil
	case "out_sine":
		return ease.OutSine, nil
	case "out_expo":
		return ease.OutExpo, nil
	default:
		return ease.OutCubic, fmt.Errorf("unknown easing %q", name)
	}
}

func (e *Engine) emit(g Gesture) bool {
	g.Zone = e.zoneAt(g.X, g.Y)
	handled := e.onGesture(g)
	e.logger.Debug("gesture", "gesture", g.String(), "handled", handled)
	return handled
}

func (e *Engine) zoneAt(x, y float64) string {
	for _, z := range e.zones {
		if z.Contains(x, y) {
			return z.Name
		}
	}
	return ""
}

// accumulate adds a normalized delta and emits one scroll gesture per
// whole step covered on each axis.
func (e *Engine) accumulate(dx, dy float64, kinetic bool) {
	step := e.timing.ScrollStep
	if step <= 0 {
		return
	}

	e.scroll.dx += dx
	e.scroll.dy += dy

	for math.Abs(e.scroll.dy) >= step {
		d := math.Copysign(step, e.scroll.dy)
		e.scroll.dy -= d
		g := NewScrollGesture(e.scroll.x, e.scroll.y, 0, d)
		g.Kinetic = kinetic
		e.emit(g)
	}
	for math.Abs(e.scroll.dx) >= step {
		d := math.Copysign(step, e.scroll.dx)
		e.scroll.dx -= d
		g := NewScrollGesture(e.scroll.x, e.scroll.y, d, 0)
		g.Kinetic = kinetic
		e.emit(g)
	}
}

// startInertia continues a released drag with an eased scroll whose initial
// speed matches the release velocity.
func (e *Engine) startInertia(x, y, vx, vy float64) {
	e.stopInertia()
	tick := time.Duration(e.kinetic.TickMs) * time.Millisecond
	if !e.kinetic.Enabled || e.kinetic.DurationMs <= 0 || tick <= 0 {
		return
	}

	duration := float32(e.kinetic.DurationMs) / 1000
	// An ease-out cubic starting at speed v covers v*d/3.
	distX := float32(vx/extent(float64(e.surface.Width))) * duration / 3
	distY := float32(vy/extent(float64(e.surface.Height))) * duration / 3

	e.scroll = scrollAccumulator{x: x, y: y}
	e.inertia = &inertia{
		x:    x,
		y:    y,
		tx:   gween.New(0, distX, duration, e.easeFn),
		ty:   gween.New(0, distY, duration, e.easeFn),
		tick: tick,
	}
	e.scheduleInertia()
}

func (e *Engine) scheduleInertia() {
	in := e.inertia
	in.timer = e.sched.AfterFunc(in.tick, func() {
		if e.inertia != in {
			return
		}
		dt := float32(in.tick.Seconds())
		cx, doneX := in.tx.Update(dt)
		cy, doneY := in.ty.Update(dt)
		e.accumulate(float64(cx-in.px), float64(cy-in.py), true)
		in.px, in.py = cx, cy

		if doneX && doneY {
			e.inertia = nil
			return
		}
		e.scheduleInertia()
	})
}

func (e *Engine) stopInertia() {
	if e.inertia == nil {
		return
	}
	if e.inertia.timer != nil {
		e.inertia.timer.Stop()
	}
	e.inertia = nil
}

// engineListener adapts Engine to the Listener interface without exporting
// the callbacks on Engine itself.
type engineListener Engine

func (l *engineListener) engine() *Engine { return (*Engine)(l) }

func (l *engineListener) OnDown(ev PointerEvent) bool {
	e := l.engine()
	e.stopInertia()
	e.scroll = scrollAccumulator{x: ev.X, y: ev.Y}
	return false
}

func (l *engineListener) OnUp(ev PointerEvent) {}

func (l *engineListener) OnLongPress(x, y float64) bool {
	return l.engine().emit(NewLongPressGesture(x, y))
}

func (l *engineListener) OnScroll(x, y float64, ev PointerEvent, dx, dy float64) bool {
	e := l.engine()
	e.scroll.x, e.scroll.y = x, y
	e.accumulate(dx, dy, false)
	return false
}

func (l *engineListener) OnFling(x, y float64, ev PointerEvent, vx, vy float64) bool {
	e := l.engine()
	if math.Hypot(vx, vy) < e.timing.MinFlingVelocity {
		return false
	}
	if e.emit(NewFlingGesture(x, y, vx, vy)) {
		return true
	}
	e.startInertia(x, y, vx, vy)
	return false
}

func (l *engineListener) OnSingleTap(x, y float64) {
	l.engine().emit(NewTapGesture(x, y))
}

func (l *engineListener) OnDoubleTap(x, y float64) {
	l.engine().emit(NewDoubleTapGesture(x, y))
}
