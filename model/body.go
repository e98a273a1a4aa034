package model

import "fmt"

// BodyKind classifies a celestial body within the simulated system.
type BodyKind int

const (
	KindStar BodyKind = iota
	KindPlanet
	KindSatellite
)

// String returns the lowercase catalog name for the kind.
func (k BodyKind) String() string {
	switch k {
	case KindStar:
		return "star"
	case KindPlanet:
		return "planet"
	case KindSatellite:
		return "satellite"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

// BodyKindFromString parses a catalog kind string. Unknown values are a
// configuration error, not a default.
func BodyKindFromString(s string) (BodyKind, error) {
	switch s {
	case "star":
		return KindStar, nil
	case "planet":
		return KindPlanet, nil
	case "satellite":
		return KindSatellite, nil
	default:
		return 0, fmt.Errorf("unknown body kind %q", s)
	}
}

// BodyDefinition is the immutable per-body catalog entry. It carries the
// orbital and rotation parameters the simulation needs plus a few visual
// hints (radius, color, description) that rendering clients consume as-is.
type BodyDefinition struct {
	ID   string
	Name string
	Kind BodyKind

	// OrbitalRadiusUnits is the scene-space distance from the primary.
	// Zero for a star.
	OrbitalRadiusUnits float64
	// OrbitalPeriodDays is real-world days per full revolution. Ignored
	// for a star.
	OrbitalPeriodDays float64
	// RotationPeriodHours is real-world hours per full axial spin.
	RotationPeriodHours float64

	// ParentID references the body a satellite orbits. Empty for stars
	// and planets.
	ParentID string

	// InitialAngleRad seeds the orbital angle at load time. Explicit so
	// that runs are reproducible; the clock never draws randomness.
	InitialAngleRad float64

	// Visual hints passed through to rendering clients.
	RadiusUnits float64
	Color       string
	Description string
}
