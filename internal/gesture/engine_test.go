package gesture

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pleimann/camel-touch/internal/config"
	"github.com/pleimann/camel-touch/internal/hid"
	"github.com/pleimann/camel-touch/internal/logging"
)

func testEngineConfig() *config.Config {
	return &config.Config{
		Surface: config.SurfaceConfig{Width: 100, Height: 100},
		Timing: config.TimingConfig{
			LongPressTimeoutMs: 200,
			DoubleTapTimeoutMs: 60,
			TapTimeoutMs:       30,
			TouchSlopPx:        8,
			DoubleTapSlopPx:    30,
			MaxFlingVelocity:   20000,
			MinFlingVelocity:   10000,
			ScrollStep:         0.1,
		},
		Kinetic: config.KineticConfig{DurationMs: 300, TickMs: 10, Ease: "out_cubic"},
		Zones: []config.Zone{
			{Name: "corner", X: 0, Y: 0, Width: 20, Height: 20},
		},
	}
}

type gestureSink struct {
	mu       sync.Mutex
	gestures []Gesture
	handle   func(Gesture) bool
}

func (s *gestureSink) onGesture(g Gesture) bool {
	s.mu.Lock()
	s.gestures = append(s.gestures, g)
	s.mu.Unlock()
	if s.handle != nil {
		return s.handle(g)
	}
	return true
}

func (s *gestureSink) snapshot() []Gesture {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Gesture(nil), s.gestures...)
}

func startEngine(t *testing.T, cfg *config.Config, sink *gestureSink) (*Engine, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	e := NewEngine(cfg, logging.Discard(), sink.onGesture, WithScheduler(sched))
	e.Start(context.Background())
	t.Cleanup(e.Stop)
	return e, sched
}

// onLoop runs f on the engine loop and waits for it, which also drains
// every event queued before it.
func onLoop(t *testing.T, e *Engine, f func()) {
	t.Helper()
	done := make(chan struct{})
	if !e.loop.Post(func() {
		f()
		close(done)
	}) {
		t.Fatal("engine loop stopped")
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("engine loop did not drain")
	}
}

func flush(t *testing.T, e *Engine) {
	t.Helper()
	onLoop(t, e, func() {})
}

func advance(t *testing.T, e *Engine, sched *fakeScheduler, d time.Duration) {
	t.Helper()
	onLoop(t, e, func() { sched.Advance(d) })
}

func inertiaRunning(t *testing.T, e *Engine) bool {
	t.Helper()
	var running bool
	onLoop(t, e, func() { running = e.inertia != nil })
	return running
}

func report(action hid.Action, x, y uint16, ms uint32) hid.Event {
	return hid.Event{Action: action, X: x, Y: y, Timestamp: ms}
}

func fling(e *Engine) {
	e.ProcessEvent(report(hid.Down, 10, 50, 0))
	e.ProcessEvent(report(hid.Move, 40, 50, 1))
	e.ProcessEvent(report(hid.Move, 70, 50, 2))
	e.ProcessEvent(report(hid.Up, 100, 50, 3))
}

func TestEngineTap(t *testing.T) {
	sink := &gestureSink{}
	e, sched := startEngine(t, testEngineConfig(), sink)

	e.ProcessEvent(report(hid.Down, 50, 50, 0))
	e.ProcessEvent(report(hid.Up, 50, 50, 20))
	flush(t, e)
	if got := sink.snapshot(); len(got) != 0 {
		t.Fatalf("gestures before the double tap window closed = %v", got)
	}
	advance(t, e, sched, 60*time.Millisecond)

	got := sink.snapshot()
	if len(got) != 1 {
		t.Fatalf("received %d gestures, want 1: %v", len(got), got)
	}
	if got[0].Type != GestureTap || got[0].X != 50 || got[0].Y != 50 {
		t.Errorf("gesture = %v, want tap(50,50)", got[0])
	}
	if got[0].Zone != "" {
		t.Errorf("zone = %q, want none", got[0].Zone)
	}
}

func TestEngineZone(t *testing.T) {
	sink := &gestureSink{}
	e, sched := startEngine(t, testEngineConfig(), sink)

	e.ProcessEvent(report(hid.Down, 5, 5, 0))
	e.ProcessEvent(report(hid.Up, 5, 5, 10))
	advance(t, e, sched, 20*time.Millisecond)
	e.ProcessEvent(report(hid.Down, 6, 6, 30))
	e.ProcessEvent(report(hid.Up, 6, 6, 40))
	advance(t, e, sched, 200*time.Millisecond)

	got := sink.snapshot()
	if len(got) != 1 {
		t.Fatalf("received %d gestures, want 1: %v", len(got), got)
	}
	if got[0].Type != GestureDoubleTap || got[0].Zone != "corner" {
		t.Errorf("gesture = %v, want double_tap@corner", got[0])
	}
}

func TestEngineLongPress(t *testing.T) {
	sink := &gestureSink{}
	e, sched := startEngine(t, testEngineConfig(), sink)

	e.ProcessEvent(report(hid.Down, 40, 40, 0))
	advance(t, e, sched, 200*time.Millisecond)
	// A handled long press swallows the drag that follows.
	e.ProcessEvent(report(hid.Move, 40, 90, 300))
	e.ProcessEvent(report(hid.Up, 40, 90, 310))
	advance(t, e, sched, 100*time.Millisecond)

	got := sink.snapshot()
	if len(got) != 1 || got[0].Type != GestureLongPress {
		t.Fatalf("gestures = %v, want [long_press]", got)
	}
}

func TestEngineScrollSteps(t *testing.T) {
	sink := &gestureSink{}
	e, _ := startEngine(t, testEngineConfig(), sink)

	e.ProcessEvent(report(hid.Down, 50, 50, 0))
	e.ProcessEvent(report(hid.Move, 50, 40, 100))
	e.ProcessEvent(report(hid.Move, 50, 30, 200))
	e.ProcessEvent(report(hid.Move, 50, 20, 300))
	e.ProcessEvent(report(hid.Move, 50, 15, 400))
	e.ProcessEvent(report(hid.Up, 50, 15, 500))
	flush(t, e)

	got := sink.snapshot()
	if len(got) != 2 {
		t.Fatalf("received %d gestures, want 2 scroll steps: %v", len(got), got)
	}
	for _, g := range got {
		if g.Key() != "scroll:up" || g.Kinetic {
			t.Errorf("gesture = %v, want scroll:up", g)
		}
		if g.X != 50 || g.Y != 50 {
			t.Errorf("scroll origin = (%v, %v), want (50, 50)", g.X, g.Y)
		}
	}
}

func TestEngineFling(t *testing.T) {
	cfg := testEngineConfig()
	cfg.Kinetic.Enabled = true

	sink := &gestureSink{}
	e, sched := startEngine(t, cfg, sink)

	fling(e)
	flush(t, e)

	got := sink.snapshot()
	if len(got) == 0 {
		t.Fatal("no gestures received")
	}
	last := got[len(got)-1]
	if last.Key() != "fling:right" {
		t.Errorf("last gesture = %v, want fling:right", last)
	}
	if last.VX != 20000 {
		t.Errorf("fling vx = %v, want clamp at 20000", last.VX)
	}

	// a handled fling suppresses inertia
	advance(t, e, sched, time.Second)
	for _, g := range sink.snapshot() {
		if g.Kinetic {
			t.Errorf("kinetic scroll after a handled fling: %v", g)
		}
	}
}

func TestEngineKineticScroll(t *testing.T) {
	cfg := testEngineConfig()
	cfg.Kinetic.Enabled = true

	sink := &gestureSink{
		// Leave flings unbound so inertia takes over.
		handle: func(g Gesture) bool { return g.Type != GestureFling },
	}
	e, sched := startEngine(t, cfg, sink)

	fling(e)
	flush(t, e)
	if !inertiaRunning(t, e) {
		t.Fatal("no inertia after an unbound fling")
	}

	// the tween ends within its duration plus one tick
	advance(t, e, sched, time.Duration(cfg.Kinetic.DurationMs+cfg.Kinetic.TickMs)*time.Millisecond)
	if inertiaRunning(t, e) {
		t.Error("inertia still running after its duration")
	}
	if n := sched.pending(); n != 0 {
		t.Errorf("pending timers = %d, want 0", n)
	}

	kinetic := 0
	for _, g := range sink.snapshot() {
		if g.Kinetic {
			kinetic++
			if g.Key() != "scroll:right" {
				t.Errorf("kinetic gesture = %v, want scroll:right", g)
			}
		}
	}
	if kinetic == 0 {
		t.Error("no kinetic scroll steps after an unbound fling")
	}
}

func TestEngineKineticInvalidTick(t *testing.T) {
	for _, tick := range []int{0, -5} {
		t.Run(fmt.Sprint(tick), func(t *testing.T) {
			cfg := testEngineConfig()
			cfg.Kinetic.Enabled = true
			cfg.Kinetic.TickMs = tick

			sink := &gestureSink{handle: func(g Gesture) bool { return g.Type != GestureFling }}
			e, sched := startEngine(t, cfg, sink)

			fling(e)
			flush(t, e)
			if inertiaRunning(t, e) {
				t.Fatal("inertia started with a non-positive tick")
			}
			if n := sched.pending(); n != 0 {
				t.Errorf("pending timers = %d, want 0", n)
			}
		})
	}
}

func TestEngineKineticStopsOnTouch(t *testing.T) {
	cfg := testEngineConfig()
	cfg.Kinetic.Enabled = true
	cfg.Kinetic.DurationMs = 2000

	sink := &gestureSink{handle: func(g Gesture) bool { return g.Type != GestureFling }}
	e, sched := startEngine(t, cfg, sink)

	e.ProcessEvent(report(hid.Down, 10, 50, 0))
	e.ProcessEvent(report(hid.Move, 30, 50, 1))
	e.ProcessEvent(report(hid.Up, 50, 50, 2))
	advance(t, e, sched, 50*time.Millisecond)
	if !inertiaRunning(t, e) {
		t.Fatal("no inertia after an unbound fling")
	}

	e.ProcessEvent(report(hid.Down, 50, 50, 100))
	flush(t, e)
	before := len(sink.snapshot())
	// stay short of the long press timeout
	advance(t, e, sched, 150*time.Millisecond)

	if after := len(sink.snapshot()); after != before {
		t.Errorf("kinetic scroll continued after touch: %d -> %d gestures", before, after)
	}
	if inertiaRunning(t, e) {
		t.Error("inertia still running after touch")
	}
}

func TestEngineCancel(t *testing.T) {
	sink := &gestureSink{}
	e, sched := startEngine(t, testEngineConfig(), sink)

	e.ProcessEvent(report(hid.Down, 50, 50, 0))
	e.ProcessEvent(report(hid.Cancel, 50, 50, 10))
	advance(t, e, sched, 300*time.Millisecond)

	if got := sink.snapshot(); len(got) != 0 {
		t.Errorf("gestures after cancel = %v, want none", got)
	}
}

func TestEngineReconfigure(t *testing.T) {
	sink := &gestureSink{}
	e, sched := startEngine(t, testEngineConfig(), sink)

	cfg := testEngineConfig()
	cfg.Zones = []config.Zone{{Name: "middle", X: 40, Y: 40, Width: 20, Height: 20}}
	e.Reconfigure(cfg)

	e.ProcessEvent(report(hid.Down, 50, 50, 0))
	e.ProcessEvent(report(hid.Up, 50, 50, 10))
	advance(t, e, sched, 100*time.Millisecond)

	got := sink.snapshot()
	if len(got) != 1 || got[0].Zone != "middle" {
		t.Errorf("gestures = %v, want tap@middle", got)
	}
}

func TestPointerEventFromHID(t *testing.T) {
	tests := []struct {
		action hid.Action
		want   Kind
	}{
		{hid.Down, KindDown},
		{hid.Move, KindMove},
		{hid.Up, KindUp},
		{hid.Cancel, KindCancel},
		{hid.Action(9), Kind(0)},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			pe := PointerEventFromHID(report(tt.action, 3, 4, 250))
			if pe.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", pe.Kind, tt.want)
			}
			if pe.X != 3 || pe.Y != 4 || pe.Time != 250*time.Millisecond {
				t.Errorf("event = %v, want (3,4 @250ms)", pe)
			}
		})
	}
}

func TestEaseFunc(t *testing.T) {
	for _, name := range []string{"", "linear", "out_quad", "out_cubic", "out_sine", "out_expo"} {
		if _, err := EaseFunc(name); err != nil {
			t.Errorf("EaseFunc(%q) error = %v", name, err)
		}
	}
	if fn, err := EaseFunc("bounce"); err == nil || fn == nil {
		t.Error("EaseFunc(bounce) should fail with a fallback function")
	}
}
