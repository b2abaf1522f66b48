package gesture

import (
	"context"
	"sync"
	"time"
)

// Timer is a pending deferred callback
type Timer interface {
	// Stop cancels the callback. It reports whether the callback was still
	// pending.
	Stop() bool
}

// Scheduler runs deferred callbacks on the same goroutine that feeds the
// recognizer its events.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Loop is a single-goroutine task queue. Everything posted to it, including
// timer callbacks, runs sequentially inside Run.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop creates a loop with the given queue capacity
func NewLoop(capacity int) *Loop {
	if capacity <= 0 {
		capacity = 64
	}
	return &Loop{
		tasks: make(chan func(), capacity),
		done:  make(chan struct{}),
	}
}

// Post queues f to run on the loop goroutine. It reports false once the loop
// has stopped. Post blocks while the queue is full.
func (l *Loop) Post(f func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.tasks <- f:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued tasks until ctx is done. A loop cannot be restarted.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-l.tasks:
			f()
		}
	}
}

// Done is closed when Run returns
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// AfterFunc schedules f on the loop after d. Stop must be called from the
// loop goroutine.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.cancelled {
				return
			}
			t.fired = true
			f()
		})
	})
	return t
}

// loopTimer flags are only touched on the loop goroutine.
type loopTimer struct {
	timer     *time.Timer
	cancelled bool
	fired     bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}
