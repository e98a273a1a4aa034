package state

import (
	"sync"

	"github.com/heliodyne/orrery-simulator/core"
)

// BodySnapshot is a read-only copy of one body's transform, shaped for the
// wire: orbit angle is display-wrapped into [0, 2π), the authoritative
// accumulators stay inside the clock.
type BodySnapshot struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	Position      core.Vec3 `json:"position"`
	OrbitAngle    float64   `json:"orbit_angle"`
	RotationAngle float64   `json:"rotation_angle"`
	RadiusUnits   float64   `json:"radius_units"`
	Color         string    `json:"color,omitempty"`
}

// CameraSnapshot mirrors the current viewpoint and whether a focus or
// reset transition is running.
type CameraSnapshot struct {
	Position  core.Vec3 `json:"position"`
	Target    core.Vec3 `json:"target"`
	Animating bool      `json:"animating"`
}

// FrameSnapshot is everything a rendering client needs to draw one frame.
type FrameSnapshot struct {
	NowMs     float64        `json:"now_ms"`
	Paused    bool           `json:"paused"`
	TimeSpeed float64        `json:"time_speed"`
	Bodies    []BodySnapshot `json:"bodies"`
	Camera    CameraSnapshot `json:"camera"`
}

// Store is a thread-safe holder of the latest frame snapshot with
// subscriptions. The frame goroutine publishes, rendering collaborators
// (the WebSocket hub, tests) subscribe or poll Latest.
type Store struct {
	mu      sync.RWMutex
	latest  FrameSnapshot
	subs    map[int]func(FrameSnapshot)
	nextSub int
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{subs: make(map[int]func(FrameSnapshot))}
}

// Publish replaces the latest snapshot and notifies subscribers. The
// callback list is copied and invoked outside the lock so a subscriber
// can safely call back into the store.
func (s *Store) Publish(frame FrameSnapshot) {
	s.mu.Lock()
	s.latest = frame
	subs := make([]func(FrameSnapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(frame)
	}
}

// Latest returns the most recently published snapshot.
func (s *Store) Latest() FrameSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Subscribe registers a callback for every published frame. It returns an
// unsubscribe function. Subscriptions are keyed by a token, not a slice
// position, so unsubscribing in any order removes exactly the right
// callback; unsubscribing twice is a no-op.
func (s *Store) Subscribe(fn func(FrameSnapshot)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// SnapshotEngine assembles a FrameSnapshot from the engine's current
// state. Called from the frame goroutine after each Step.
func SnapshotEngine(se *core.SimulationEngine, nowMs float64) FrameSnapshot {
	states := se.Clock.States()
	bodies := make([]BodySnapshot, 0, len(states))
	for _, st := range states {
		def, _ := se.Clock.Definition(st.ID)
		bodies = append(bodies, BodySnapshot{
			ID:            st.ID,
			Name:          def.Name,
			Kind:          st.Kind.String(),
			Position:      st.Position,
			OrbitAngle:    core.DisplayAngle(st.CurrentAngle),
			RotationAngle: core.DisplayAngle(st.RotationAngle),
			RadiusUnits:   def.RadiusUnits,
			Color:         def.Color,
		})
	}

	vp := se.Viewpoint()
	return FrameSnapshot{
		NowMs:     nowMs,
		Paused:    se.Paused(),
		TimeSpeed: se.TimeSpeed(),
		Bodies:    bodies,
		Camera: CameraSnapshot{
			Position:  vp.Position,
			Target:    vp.Target,
			Animating: se.IsAnimating(),
		},
	}
}
