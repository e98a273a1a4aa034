package core

import (
	"fmt"
	"math"

	"github.com/heliodyne/orrery-simulator/model"
)

const (
	secondsPerHour = 3600.0
	secondsPerDay  = 86400.0
)

// BodyState is the mutable simulation state of one body. CurrentAngle and
// RotationAngle accumulate without wrapping; wrapping would introduce a
// discontinuity into anything differentiating the angle. Use DisplayAngle
// when a value in [0, 2π) is wanted for output.
type BodyState struct {
	ID   string
	Kind model.BodyKind

	// CurrentAngle is the orbital angle in radians, measured on the
	// Y=0 plane from the +X axis toward +Z.
	CurrentAngle float64
	// RotationAngle is the accumulated axial spin in radians.
	RotationAngle float64
	// Position is recomputed on every advance from CurrentAngle and,
	// for satellites, the parent's position updated in the same pass.
	Position Vec3
}

// OrbitalClock advances every body's orbital angle, axial rotation, and
// position deterministically from elapsed real time and a time-scale
// factor. It owns the body states; callers read them between advances.
//
// timeSpeed is "simulated days per real second": one real second at
// timeSpeed 1 moves every orbit forward by one day. Axial rotation runs at
// plain rate × Δ × timeSpeed. This asymmetric compression matches the
// reference orbital speeds and is deliberate.
type OrbitalClock struct {
	defs   map[string]model.BodyDefinition
	states map[string]*BodyState

	// order lists body IDs so that every satellite comes strictly after
	// its parent. Satellite positions are derived from parent positions
	// already updated in the same pass.
	order []string
}

// NewOrbitalClock validates the catalog and builds the initial body
// states. All configuration errors (zero or negative periods, unknown or
// cyclic parent references, duplicate IDs) are rejected here, before any
// tick runs.
func NewOrbitalClock(defs []model.BodyDefinition) (*OrbitalClock, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("orbital clock: no bodies defined")
	}

	byID := make(map[string]model.BodyDefinition, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("orbital clock: body with empty id")
		}
		if _, dup := byID[def.ID]; dup {
			return nil, fmt.Errorf("orbital clock: duplicate body id %q", def.ID)
		}
		if def.RotationPeriodHours <= 0 {
			return nil, fmt.Errorf("orbital clock: body %q: rotation period must be positive, got %v h", def.ID, def.RotationPeriodHours)
		}
		switch def.Kind {
		case model.KindStar:
			if def.ParentID != "" {
				return nil, fmt.Errorf("orbital clock: star %q must not have a parent", def.ID)
			}
		case model.KindPlanet:
			if def.ParentID != "" {
				return nil, fmt.Errorf("orbital clock: planet %q must not have a parent", def.ID)
			}
			if def.OrbitalPeriodDays <= 0 {
				return nil, fmt.Errorf("orbital clock: body %q: orbital period must be positive, got %v d", def.ID, def.OrbitalPeriodDays)
			}
			if def.OrbitalRadiusUnits < 0 {
				return nil, fmt.Errorf("orbital clock: body %q: negative orbital radius %v", def.ID, def.OrbitalRadiusUnits)
			}
		case model.KindSatellite:
			if def.ParentID == "" {
				return nil, fmt.Errorf("orbital clock: satellite %q has no parent", def.ID)
			}
			if def.OrbitalPeriodDays <= 0 {
				return nil, fmt.Errorf("orbital clock: body %q: orbital period must be positive, got %v d", def.ID, def.OrbitalPeriodDays)
			}
			if def.OrbitalRadiusUnits < 0 {
				return nil, fmt.Errorf("orbital clock: body %q: negative orbital radius %v", def.ID, def.OrbitalRadiusUnits)
			}
		default:
			return nil, fmt.Errorf("orbital clock: body %q: unknown kind %v", def.ID, def.Kind)
		}
		byID[def.ID] = def
	}

	for _, def := range defs {
		if def.Kind != model.KindSatellite {
			continue
		}
		if _, ok := byID[def.ParentID]; !ok {
			return nil, fmt.Errorf("orbital clock: satellite %q references unknown parent %q", def.ID, def.ParentID)
		}
	}

	order, err := updateOrder(defs)
	if err != nil {
		return nil, err
	}

	c := &OrbitalClock{
		defs:   byID,
		states: make(map[string]*BodyState, len(defs)),
		order:  order,
	}
	for _, def := range defs {
		c.states[def.ID] = &BodyState{
			ID:           def.ID,
			Kind:         def.Kind,
			CurrentAngle: def.InitialAngleRad,
		}
	}
	// Settle initial positions from the seed angles.
	if err := c.Advance(0, 0, false); err != nil {
		return nil, err
	}
	return c, nil
}

// updateOrder orders bodies so parents always precede their satellites.
// Stars and planets keep catalog order; satellites are appended in passes
// by parent depth, which also supports satellite-of-satellite chains. A
// pass that places nothing means the remaining parent references form a
// cycle.
func updateOrder(defs []model.BodyDefinition) ([]string, error) {
	order := make([]string, 0, len(defs))
	placed := make(map[string]bool, len(defs))

	for _, def := range defs {
		if def.Kind != model.KindSatellite {
			order = append(order, def.ID)
			placed[def.ID] = true
		}
	}

	remaining := len(defs) - len(order)
	for remaining > 0 {
		progressed := false
		for _, def := range defs {
			if def.Kind != model.KindSatellite || placed[def.ID] {
				continue
			}
			if placed[def.ParentID] {
				order = append(order, def.ID)
				placed[def.ID] = true
				remaining--
				progressed = true
			}
		}
		if !progressed {
			var stuck []string
			for _, def := range defs {
				if !placed[def.ID] {
					stuck = append(stuck, def.ID)
				}
			}
			return nil, fmt.Errorf("orbital clock: cyclic parent references among %v", stuck)
		}
	}
	return order, nil
}

// Advance moves every body forward by deltaSeconds of real time scaled by
// timeSpeed. With paused set it is an exact no-op. Advance mutates the
// clock's states in place and performs no I/O.
func (c *OrbitalClock) Advance(deltaSeconds, timeSpeed float64, paused bool) error {
	if paused {
		return nil
	}
	for _, id := range c.order {
		def := c.defs[id]
		st := c.states[id]

		rotRate := 2 * math.Pi / (def.RotationPeriodHours * secondsPerHour)
		st.RotationAngle += rotRate * deltaSeconds * timeSpeed

		if def.Kind == model.KindStar {
			// Pinned at the origin; only spin advances.
			st.Position = Vec3{}
			continue
		}

		// One real second at timeSpeed 1 is one simulated day of
		// orbital progress, hence the extra day factor.
		orbRate := 2 * math.Pi / (def.OrbitalPeriodDays * secondsPerDay)
		st.CurrentAngle += orbRate * deltaSeconds * timeSpeed * secondsPerDay

		var center Vec3
		if def.Kind == model.KindSatellite {
			parent, ok := c.states[def.ParentID]
			if !ok {
				return fmt.Errorf("orbital clock: satellite %q: parent %q missing at tick time", id, def.ParentID)
			}
			center = parent.Position
		}
		st.Position = Vec3{
			X: center.X + def.OrbitalRadiusUnits*math.Cos(st.CurrentAngle),
			Y: center.Y,
			Z: center.Z + def.OrbitalRadiusUnits*math.Sin(st.CurrentAngle),
		}
	}
	return nil
}

// State returns the live state for a body, or false when the id is
// unknown. The pointer is owned by the clock; treat it as read-only
// outside the frame goroutine.
func (c *OrbitalClock) State(id string) (*BodyState, bool) {
	st, ok := c.states[id]
	return st, ok
}

// States returns the body states in update order (parents before
// satellites).
func (c *OrbitalClock) States() []*BodyState {
	res := make([]*BodyState, 0, len(c.order))
	for _, id := range c.order {
		res = append(res, c.states[id])
	}
	return res
}

// Definition returns the catalog entry for a body.
func (c *OrbitalClock) Definition(id string) (model.BodyDefinition, bool) {
	def, ok := c.defs[id]
	return def, ok
}

// Len returns the number of simulated bodies.
func (c *OrbitalClock) Len() int { return len(c.order) }

// DisplayAngle reduces an accumulated angle into [0, 2π) for output. The
// authoritative accumulators are never wrapped.
func DisplayAngle(rad float64) float64 {
	a := math.Mod(rad, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}
