package core

// Viewpoint is a camera framing: where the camera sits and the point it
// looks at.
type Viewpoint struct {
	Position Vec3
	Target   Vec3
}

// ViewpointAnimator interpolates a viewpoint between two framings over a
// bounded wall-clock duration. At most one animation is active at a time;
// a request while one is running is dropped, which debounces rapid
// repeated focus requests.
//
// Progress is always recomputed from the absolute timestamp handed to
// Tick, never accumulated per frame, so irregular frame intervals cannot
// drift or overshoot the end state.
type ViewpointAnimator struct {
	active      bool
	start       Viewpoint
	end         Viewpoint
	startTimeMs float64
	durationMs  float64
}

// NewViewpointAnimator returns an idle animator.
func NewViewpointAnimator() *ViewpointAnimator {
	return &ViewpointAnimator{}
}

// BeginFocus starts an animation from one framing to another, anchored at
// nowMs. It reports false, and changes nothing, while an animation is
// already active. Both "focus on body" and "reset to overview" run
// through here; only the endpoints differ.
func (a *ViewpointAnimator) BeginFocus(from, to Viewpoint, durationMs, nowMs float64) bool {
	if a.active {
		return false
	}
	a.start = from
	a.end = to
	a.startTimeMs = nowMs
	a.durationMs = durationMs
	a.active = true
	return true
}

// IsAnimating reports whether an animation is in flight.
func (a *ViewpointAnimator) IsAnimating() bool { return a.active }

// Tick evaluates the animation at the given absolute timestamp and returns
// the framing plus whether the animation is still running. Reaching full
// progress clears the active flag and returns the end framing exactly;
// ticking a finished animator keeps returning the end framing.
//
// A non-positive duration completes on the first tick.
func (a *ViewpointAnimator) Tick(nowMs float64) (Viewpoint, bool) {
	if !a.active {
		return a.end, false
	}

	t := 1.0
	if a.durationMs > 0 {
		t = (nowMs - a.startTimeMs) / a.durationMs
		if t < 0 {
			t = 0
		}
	}
	if t >= 1 {
		a.active = false
		return a.end, false
	}

	eased := easeInOutCubic(t)
	return Viewpoint{
		Position: a.start.Position.Lerp(a.end.Position, eased),
		Target:   a.start.Target.Lerp(a.end.Target, eased),
	}, true
}

// easeInOutCubic is the transition curve used for every camera move:
// 4t³ below the midpoint, 1-(-2t+2)³/2 above it. The branches meet at
// exactly 0.5.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := -2*t + 2
	return 1 - u*u*u/2
}
