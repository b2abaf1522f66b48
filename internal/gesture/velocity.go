package gesture

import (
	"math"
	"time"
)

type sample struct {
	x, y float64
	t    time.Duration
}

// VelocityTracker estimates release velocity for a single contact.
// The zero value is ready to use.
type VelocityTracker struct {
	samples []sample
}

// Add records a pointer sample
func (v *VelocityTracker) Add(e PointerEvent) {
	v.samples = append(v.samples, sample{x: e.X, y: e.Y, t: e.Time})
}

// Reset drops all samples but keeps the buffer
func (v *VelocityTracker) Reset() {
	v.samples = v.samples[:0]
}

// Len returns the number of recorded samples
func (v *VelocityTracker) Len() int {
	return len(v.samples)
}

// Compute returns the velocity in pixels per second as the least-squares
// slope of position over time across every sample of the contact. Each
// component is clamped to [-max, max] when max > 0. A contact that never
// moved, or whose samples share one timestamp, yields zero.
func (v *VelocityTracker) Compute(max float64) (vx, vy float64) {
	n := float64(len(v.samples))
	if n < 2 {
		return 0, 0
	}

	// Center on the first sample to keep the sums small.
	t0 := v.samples[0].t
	var st, sx, sy float64
	for _, s := range v.samples {
		st += (s.t - t0).Seconds()
		sx += s.x
		sy += s.y
	}
	mt, mx, my := st/n, sx/n, sy/n

	var stt, stx, sty float64
	for _, s := range v.samples {
		dt := (s.t - t0).Seconds() - mt
		stt += dt * dt
		stx += dt * (s.x - mx)
		sty += dt * (s.y - my)
	}
	if stt == 0 {
		return 0, 0
	}

	return clamp(stx/stt, max), clamp(sty/stt, max)
}

func clamp(v, max float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if max <= 0 {
		return v
	}
	return math.Max(-max, math.Min(max, v))
}

// velocityPool hands out at most one tracker per contact. Released trackers
// are kept for the next contact.
type velocityPool struct {
	free *VelocityTracker
}

func (p *velocityPool) acquire() *VelocityTracker {
	if p.free != nil {
		v := p.free
		p.free = nil
		return v
	}
	return &VelocityTracker{}
}

func (p *velocityPool) release(v *VelocityTracker) {
	if v == nil {
		return
	}
	v.Reset()
	p.free = v
}
