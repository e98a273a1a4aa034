package core

import (
	"strings"
	"testing"

	"github.com/heliodyne/orrery-simulator/model"
)

const sampleCatalog = `{
  "bodies": [
    {
      "id": "sol",
      "name": "Sun",
      "kind": "star",
      "rotation_period_hours": 609.12,
      "radius_units": 16,
      "color": "#FDB813"
    },
    {
      "id": "earth",
      "kind": "planet",
      "orbital_radius_units": 150,
      "orbital_period_days": 365.25,
      "rotation_period_hours": 24,
      "initial_angle_rad": 1.5707963,
      "radius_units": 2,
      "color": "#2E86AB",
      "description": "The only known inhabited body."
    },
    {
      "id": "luna",
      "name": "Moon",
      "kind": "satellite",
      "parent_id": "earth",
      "orbital_radius_units": 8,
      "orbital_period_days": 27.32,
      "rotation_period_hours": 655.7,
      "radius_units": 0.5
    }
  ]
}`

func TestLoadSystemScenario_ParsesCatalog(t *testing.T) {
	defs, summary, err := LoadSystemScenario(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("LoadSystemScenario: %v", err)
	}
	if len(defs) != 3 || len(summary.BodyIDs) != 3 {
		t.Fatalf("loaded %d defs / %d ids, want 3", len(defs), len(summary.BodyIDs))
	}

	earth := defs[1]
	if earth.ID != "earth" || earth.Kind != model.KindPlanet {
		t.Fatalf("unexpected second body: %+v", earth)
	}
	if earth.OrbitalPeriodDays != 365.25 || earth.OrbitalRadiusUnits != 150 {
		t.Fatalf("earth orbital params not carried through: %+v", earth)
	}
	if earth.Name != "earth" {
		t.Fatalf("missing name should default to the id, got %q", earth.Name)
	}
	if earth.InitialAngleRad == 0 {
		t.Fatalf("initial angle seed dropped")
	}

	luna := defs[2]
	if luna.Kind != model.KindSatellite || luna.ParentID != "earth" {
		t.Fatalf("satellite parent not carried through: %+v", luna)
	}
	if luna.Name != "Moon" {
		t.Fatalf("explicit name overridden: %q", luna.Name)
	}

	// The parsed catalog must satisfy the clock's own validation.
	if _, err := NewOrbitalClock(defs); err != nil {
		t.Fatalf("sample catalog rejected by clock: %v", err)
	}
}

func TestLoadSystemScenario_Failures(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"malformed json", `{"bodies": [`},
		{"empty catalog", `{"bodies": []}`},
		{"missing bodies key", `{}`},
		{"empty id", `{"bodies": [{"id": "", "kind": "star", "rotation_period_hours": 1}]}`},
		{"unknown kind", `{"bodies": [{"id": "x", "kind": "comet", "rotation_period_hours": 1}]}`},
	}

	for _, tc := range cases {
		if _, _, err := LoadSystemScenario(strings.NewReader(tc.doc)); err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}
