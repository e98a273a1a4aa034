package core

import (
	"math"
	"testing"
)

func TestEaseInOutCubic_BranchesMeetAtMidpoint(t *testing.T) {
	if got := easeInOutCubic(0.5); got != 0.5 {
		t.Fatalf("easeInOutCubic(0.5) = %v, want exactly 0.5", got)
	}
	if got := easeInOutCubic(0); got != 0 {
		t.Fatalf("easeInOutCubic(0) = %v, want 0", got)
	}
	if got := easeInOutCubic(1); got != 1 {
		t.Fatalf("easeInOutCubic(1) = %v, want 1", got)
	}
	// Spot-check the lower branch: 4·0.25³ = 0.0625.
	if got := easeInOutCubic(0.25); math.Abs(got-0.0625) > 1e-15 {
		t.Fatalf("easeInOutCubic(0.25) = %v, want 0.0625", got)
	}
	// And the upper: 1 - (0.5)³/2 = 0.9375 at t = 0.75.
	if got := easeInOutCubic(0.75); math.Abs(got-0.9375) > 1e-15 {
		t.Fatalf("easeInOutCubic(0.75) = %v, want 0.9375", got)
	}
}

func TestBeginFocus_RejectsWhileActive(t *testing.T) {
	a := NewViewpointAnimator()

	first := Viewpoint{Position: Vec3{X: 10}, Target: Vec3{}}
	if !a.BeginFocus(Viewpoint{}, first, 1000, 0) {
		t.Fatalf("first BeginFocus rejected")
	}
	if a.BeginFocus(Viewpoint{}, Viewpoint{Position: Vec3{X: -99}}, 1000, 100) {
		t.Fatalf("second BeginFocus accepted while first is active")
	}

	// The first animation's endpoints must be untouched by the rejected
	// request: ticking past the duration lands on the first end state.
	vp, active := a.Tick(2000)
	if active {
		t.Fatalf("animation still active past its duration")
	}
	if vp != first {
		t.Fatalf("end framing = %+v, want %+v", vp, first)
	}
}

func TestTick_CompletesExactlyAtDuration(t *testing.T) {
	a := NewViewpointAnimator()
	end := Viewpoint{Position: Vec3{X: 1, Y: 2, Z: 3}, Target: Vec3{X: -1}}
	a.BeginFocus(Viewpoint{Position: Vec3{X: 50}}, end, 500, 1000)

	vp, active := a.Tick(1500)
	if active {
		t.Fatalf("active at nowMs == start+duration, want finished")
	}
	if vp != end {
		t.Fatalf("framing at completion = %+v, want end state exactly %+v", vp, end)
	}
	if a.IsAnimating() {
		t.Fatalf("IsAnimating true after completion")
	}
}

func TestTick_AfterCompletionIsNoop(t *testing.T) {
	a := NewViewpointAnimator()
	end := Viewpoint{Position: Vec3{X: 7}}
	a.BeginFocus(Viewpoint{}, end, 100, 0)

	if _, active := a.Tick(100); active {
		t.Fatalf("expected completion at duration")
	}
	for _, now := range []float64{150, 1e6, 0} {
		vp, active := a.Tick(now)
		if active || vp != end {
			t.Fatalf("Tick(%v) after completion = (%+v, %v), want (end, false)", now, vp, active)
		}
	}
}

func TestTick_NonPositiveDurationIsInstant(t *testing.T) {
	for _, dur := range []float64{0, -250} {
		a := NewViewpointAnimator()
		end := Viewpoint{Position: Vec3{Z: 4}}
		a.BeginFocus(Viewpoint{Position: Vec3{Z: -4}}, end, dur, 1000)

		vp, active := a.Tick(1000)
		if active || vp != end {
			t.Fatalf("duration %v: first tick = (%+v, %v), want instant completion", dur, vp, active)
		}
	}
}

func TestTick_InterpolatesOnEasedCurve(t *testing.T) {
	a := NewViewpointAnimator()
	from := Viewpoint{Position: Vec3{X: 0}, Target: Vec3{Y: 10}}
	to := Viewpoint{Position: Vec3{X: 100}, Target: Vec3{Y: 30}}
	a.BeginFocus(from, to, 1000, 0)

	// t = 0.25 → eased = 0.0625.
	vp, active := a.Tick(250)
	if !active {
		t.Fatalf("finished at quarter progress")
	}
	if math.Abs(vp.Position.X-6.25) > 1e-12 {
		t.Fatalf("position X at t=0.25 = %v, want 6.25", vp.Position.X)
	}
	if math.Abs(vp.Target.Y-11.25) > 1e-12 {
		t.Fatalf("target Y at t=0.25 = %v, want 11.25", vp.Target.Y)
	}

	// t = 0.5 → eased = 0.5, the curve midpoint.
	vp, _ = a.Tick(500)
	if math.Abs(vp.Position.X-50) > 1e-12 {
		t.Fatalf("position X at t=0.5 = %v, want 50", vp.Position.X)
	}
}

func TestTick_ClampsTimestampsBeforeStart(t *testing.T) {
	a := NewViewpointAnimator()
	from := Viewpoint{Position: Vec3{X: 5}}
	a.BeginFocus(from, Viewpoint{Position: Vec3{X: 25}}, 1000, 5000)

	vp, active := a.Tick(4000)
	if !active {
		t.Fatalf("animation finished on a timestamp before its start")
	}
	if vp != from {
		t.Fatalf("framing before start = %+v, want start framing %+v", vp, from)
	}
}

func TestTick_IrregularFrameIntervalsCannotOvershoot(t *testing.T) {
	a := NewViewpointAnimator()
	to := Viewpoint{Position: Vec3{X: 1}}
	a.BeginFocus(Viewpoint{}, to, 300, 0)

	// A hitchy frame sequence: tiny steps, then a huge stall well past
	// the duration. Progress is recomputed from absolute time, so the
	// stall lands exactly on the end state.
	for _, now := range []float64{1, 2, 150} {
		if _, active := a.Tick(now); !active {
			t.Fatalf("finished early at %v ms", now)
		}
	}
	vp, active := a.Tick(90000)
	if active || vp != to {
		t.Fatalf("after stall = (%+v, %v), want (end, false)", vp, active)
	}
}
