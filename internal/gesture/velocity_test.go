package gesture

import (
	"math"
	"testing"
	"time"
)

func TestVelocityTrackerCompute(t *testing.T) {
	ms := time.Millisecond

	tests := []struct {
		name    string
		samples []PointerEvent
		max     float64
		wantVX  float64
		wantVY  float64
	}{
		{
			name:    "no samples",
			samples: nil,
		},
		{
			name:    "single sample",
			samples: []PointerEvent{{X: 5, Y: 5}},
		},
		{
			name: "never moved",
			samples: []PointerEvent{
				{X: 5, Y: 5, Time: 0},
				{X: 5, Y: 5, Time: 50 * ms},
				{X: 5, Y: 5, Time: 100 * ms},
			},
		},
		{
			name: "same timestamp",
			samples: []PointerEvent{
				{X: 0, Y: 0, Time: 10 * ms},
				{X: 50, Y: 0, Time: 10 * ms},
			},
		},
		{
			name: "linear diagonal",
			samples: []PointerEvent{
				{X: 0, Y: 100, Time: 0},
				{X: 10, Y: 90, Time: 10 * ms},
				{X: 20, Y: 80, Time: 20 * ms},
			},
			wantVX: 1000,
			wantVY: -1000,
		},
		{
			name: "clamped",
			samples: []PointerEvent{
				{X: 0, Y: 0, Time: 0},
				{X: 100, Y: -100, Time: 10 * ms},
			},
			max:    500,
			wantVX: 500,
			wantVY: -500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v VelocityTracker
			for _, s := range tt.samples {
				v.Add(s)
			}
			vx, vy := v.Compute(tt.max)
			if math.Abs(vx-tt.wantVX) > 1e-6 || math.Abs(vy-tt.wantVY) > 1e-6 {
				t.Errorf("Compute() = (%v, %v), want (%v, %v)", vx, vy, tt.wantVX, tt.wantVY)
			}
		})
	}
}

func TestVelocityPoolReuse(t *testing.T) {
	var p velocityPool

	a := p.acquire()
	a.Add(PointerEvent{X: 1})
	p.release(a)

	b := p.acquire()
	if b != a {
		t.Error("released tracker was not reused")
	}
	if b.Len() != 0 {
		t.Errorf("reused tracker has %d samples, want 0", b.Len())
	}

	c := p.acquire()
	if c == b {
		t.Error("tracker handed out twice")
	}
}
