package core

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/heliodyne/orrery-simulator/model"
)

// SystemScenario is a small summary of what was loaded from JSON. It's
// mainly useful for logging from main().
type SystemScenario struct {
	BodyIDs []string
}

// internal JSON shapes – kept unexported so we're free to evolve them.
type systemScenarioJSON struct {
	Bodies []bodyJSON `json:"bodies"`
}

type bodyJSON struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Kind                string  `json:"kind"` // "star" | "planet" | "satellite"
	OrbitalRadiusUnits  float64 `json:"orbital_radius_units"`
	OrbitalPeriodDays   float64 `json:"orbital_period_days"`
	RotationPeriodHours float64 `json:"rotation_period_hours"`
	ParentID            string  `json:"parent_id"`
	InitialAngleRad     float64 `json:"initial_angle_rad"`
	RadiusUnits         float64 `json:"radius_units"`
	Color               string  `json:"color"`
	Description         string  `json:"description"`
}

// LoadSystemScenario reads a body catalog from r and returns the parsed
// definitions plus a summary.
//
// The loader fails only on JSON and structural errors (bad document,
// empty id, unknown kind, empty catalog). Semantic validation (period
// signs, parent resolution, cycle detection) is done once by
// NewOrbitalClock so there is a single authority for those rules.
func LoadSystemScenario(r io.Reader) ([]model.BodyDefinition, *SystemScenario, error) {
	var payload systemScenarioJSON
	dec := json.NewDecoder(r)
	if err := dec.Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("LoadSystemScenario: decode failed: %w", err)
	}
	if len(payload.Bodies) == 0 {
		return nil, nil, fmt.Errorf("LoadSystemScenario: catalog has no bodies")
	}

	defs := make([]model.BodyDefinition, 0, len(payload.Bodies))
	result := &SystemScenario{
		BodyIDs: make([]string, 0, len(payload.Bodies)),
	}
	for _, jb := range payload.Bodies {
		if jb.ID == "" {
			return nil, nil, fmt.Errorf("LoadSystemScenario: body with empty id")
		}
		kind, err := model.BodyKindFromString(jb.Kind)
		if err != nil {
			return nil, nil, fmt.Errorf("LoadSystemScenario: body %q: %w", jb.ID, err)
		}

		name := jb.Name
		if name == "" {
			name = jb.ID
		}

		defs = append(defs, model.BodyDefinition{
			ID:                  jb.ID,
			Name:                name,
			Kind:                kind,
			OrbitalRadiusUnits:  jb.OrbitalRadiusUnits,
			OrbitalPeriodDays:   jb.OrbitalPeriodDays,
			RotationPeriodHours: jb.RotationPeriodHours,
			ParentID:            jb.ParentID,
			InitialAngleRad:     jb.InitialAngleRad,
			RadiusUnits:         jb.RadiusUnits,
			Color:               jb.Color,
			Description:         jb.Description,
		})
		result.BodyIDs = append(result.BodyIDs, jb.ID)
	}

	return defs, result, nil
}
