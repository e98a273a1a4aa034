package core

import (
	"fmt"
	"sync"
)

// FocusDistanceFactor scales a body's visual radius into the camera's
// standoff distance when focusing on it.
const FocusDistanceFactor = 6.0

// minFocusStandoff keeps the camera off the surface of very small bodies.
const minFocusStandoff = 4.0

// SimulationEngine drives one logical frame of the whole simulation:
// advance the orbital clock, then tick the viewpoint animator if one is in
// flight, then notify frame listeners. The host calls Step exactly once
// per rendered frame, from a single goroutine, with no reentrancy.
//
// Pause and speed are engine state threaded explicitly into every Advance
// call rather than globals; they are mutex-guarded because UI
// collaborators (e.g. WebSocket command handlers) mutate them from other
// goroutines.
type SimulationEngine struct {
	Clock    *OrbitalClock
	Animator *ViewpointAnimator

	mu          sync.Mutex
	timeSpeed   float64
	paused      bool
	viewpoint   Viewpoint
	defaultView Viewpoint
	// positions is the body-position snapshot published by the latest
	// Step. Command goroutines read framings from here, never from the
	// live clock states the frame goroutine is mutating.
	positions map[string]Vec3

	pauseListeners []func(bool)
	frameListeners []func()
}

// NewSimulationEngine wires an engine around a validated clock. The
// default view is both the starting framing and the destination of
// ResetView.
func NewSimulationEngine(clock *OrbitalClock, defaultView Viewpoint) *SimulationEngine {
	se := &SimulationEngine{
		Clock:       clock,
		Animator:    NewViewpointAnimator(),
		timeSpeed:   1,
		viewpoint:   defaultView,
		defaultView: defaultView,
		positions:   make(map[string]Vec3, clock.Len()),
	}
	// Seed the snapshot so FocusOn works before the first Step. The
	// frame goroutine has not started yet, so reading the clock here is
	// safe.
	for _, st := range clock.States() {
		se.positions[st.ID] = st.Position
	}
	return se
}

// Step advances the simulation by deltaSeconds of real time at the current
// speed and pause settings, then evaluates any running camera animation at
// nowMs, then notifies frame listeners.
func (se *SimulationEngine) Step(deltaSeconds, nowMs float64) error {
	se.mu.Lock()
	speed, paused := se.timeSpeed, se.paused
	se.mu.Unlock()

	if err := se.Clock.Advance(deltaSeconds, speed, paused); err != nil {
		return err
	}

	se.mu.Lock()
	for _, st := range se.Clock.States() {
		se.positions[st.ID] = st.Position
	}
	if se.Animator.IsAnimating() {
		vp, _ := se.Animator.Tick(nowMs)
		se.viewpoint = vp
	}
	listeners := append([]func(){}, se.frameListeners...)
	se.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

// FocusOn starts a camera transition toward the named body. The end target
// is the body's current position; the end position stands off by a
// distance scaled to the body's visual radius. An unknown body is an
// error. A request while a transition is running is the documented no-op
// and reports (false, nil).
func (se *SimulationEngine) FocusOn(bodyID string, durationMs, nowMs float64) (bool, error) {
	// Definitions are immutable after construction; only the position
	// snapshot needs the lock.
	def, ok := se.Clock.Definition(bodyID)
	if !ok {
		return false, fmt.Errorf("focus: unknown body %q", bodyID)
	}

	standoff := def.RadiusUnits * FocusDistanceFactor
	if standoff < minFocusStandoff {
		standoff = minFocusStandoff
	}

	se.mu.Lock()
	defer se.mu.Unlock()
	pos := se.positions[bodyID]
	end := Viewpoint{
		Position: pos.Add(Vec3{X: standoff, Y: standoff * 0.5, Z: standoff}),
		Target:   pos,
	}
	return se.Animator.BeginFocus(se.viewpoint, end, durationMs, nowMs), nil
}

// ResetView starts a transition back to the default overview framing.
// Like FocusOn it is dropped while another transition runs.
func (se *SimulationEngine) ResetView(durationMs, nowMs float64) bool {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.Animator.BeginFocus(se.viewpoint, se.defaultView, durationMs, nowMs)
}

// Viewpoint returns the camera framing computed by the latest Step.
func (se *SimulationEngine) Viewpoint() Viewpoint {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.viewpoint
}

// IsAnimating reports whether a camera transition is in flight.
func (se *SimulationEngine) IsAnimating() bool {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.Animator.IsAnimating()
}

// SetPaused updates the pause flag and notifies pause observers on actual
// transitions only.
func (se *SimulationEngine) SetPaused(paused bool) {
	se.mu.Lock()
	changed := se.paused != paused
	se.paused = paused
	listeners := append([]func(bool){}, se.pauseListeners...)
	se.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(paused)
	}
}

// TogglePause flips the pause flag and returns the new value. A toggle is
// always a transition, so observers always fire.
func (se *SimulationEngine) TogglePause() bool {
	se.mu.Lock()
	se.paused = !se.paused
	paused := se.paused
	listeners := append([]func(bool){}, se.pauseListeners...)
	se.mu.Unlock()

	for _, fn := range listeners {
		fn(paused)
	}
	return paused
}

// Paused reports the pause flag.
func (se *SimulationEngine) Paused() bool {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.paused
}

// SetTimeSpeed sets the simulated-days-per-real-second factor. Negative
// values clamp to zero: the clock only runs forward.
func (se *SimulationEngine) SetTimeSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	se.mu.Lock()
	se.timeSpeed = speed
	se.mu.Unlock()
}

// TimeSpeed returns the current speed factor.
func (se *SimulationEngine) TimeSpeed() float64 {
	se.mu.Lock()
	defer se.mu.Unlock()
	return se.timeSpeed
}

// OnPauseChanged registers an observer invoked with the new pause state on
// every pause/resume transition.
func (se *SimulationEngine) OnPauseChanged(fn func(bool)) {
	se.mu.Lock()
	defer se.mu.Unlock()
	se.pauseListeners = append(se.pauseListeners, fn)
}

// RegisterFrameListener registers a callback invoked after every Step.
func (se *SimulationEngine) RegisterFrameListener(fn func()) {
	se.mu.Lock()
	defer se.mu.Unlock()
	se.frameListeners = append(se.frameListeners, fn)
}
