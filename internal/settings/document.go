package settings

import (
	"fmt"
	"math"
)

// DefaultSustainRelease is used when a document has no SustainReleaseTime.
const DefaultSustainRelease = 0.5

// Document is the flat settings file in memory.
type Document struct {
	Global  Global
	Planets []PlanetRecord
}

type Global struct {
	NumberOfPlanets    int
	SpeedMultiplier    float64
	EllipticalOrbits   bool
	SustainReleaseTime *float64
	MaxEccentricity    *float64
	SelectedScale      string
}

// SustainRelease returns the sustain/release time or the default.
func (g Global) SustainRelease() float64 {
	if g.SustainReleaseTime == nil {
		return DefaultSustainRelease
	}
	return *g.SustainReleaseTime
}

type PlanetRecord struct {
	Size         int
	Frequency    float64
	Distance     int
	SoundFile    string
	Eccentricity float64
	OrbitAngle   float64
	Moons        []MoonRecord
}

type MoonRecord struct {
	Size         int
	Frequency    float64
	Distance     int
	SoundFile    string
	Eccentricity float64
	OrbitAngle   float64
}

func Float(v float64) *float64 { return &v }

func PlanetSection(i int) string { return fmt.Sprintf("Planet%d", i+1) }

func MoonSection(i, j int) string { return fmt.Sprintf("Planet%dMoon%d", i+1, j+1) }

// Validate checks ranges and counts before any body is built.
func (d *Document) Validate() error {
	g := d.Global
	if g.NumberOfPlanets < 0 {
		return &ValidationError{Section: sectionGlobal, Field: keyNumberOfPlanets, Reason: "must not be negative"}
	}
	if g.NumberOfPlanets != len(d.Planets) {
		return &ValidationError{Section: sectionGlobal, Field: keyNumberOfPlanets,
			Reason: fmt.Sprintf("is %d but %d planets are defined", g.NumberOfPlanets, len(d.Planets))}
	}
	if math.IsNaN(g.SpeedMultiplier) || math.IsInf(g.SpeedMultiplier, 0) {
		return &ValidationError{Section: sectionGlobal, Field: keySpeedMultiplier, Reason: "must be finite"}
	}
	if g.SustainReleaseTime != nil && !(*g.SustainReleaseTime > 0) {
		return &ValidationError{Section: sectionGlobal, Field: keySustainRelease, Reason: "must be positive"}
	}
	if g.MaxEccentricity != nil && !(*g.MaxEccentricity >= 0 && *g.MaxEccentricity < 1) {
		return &ValidationError{Section: sectionGlobal, Field: keyMaxEccentricity, Reason: "must be in [0, 1)"}
	}

	for i, p := range d.Planets {
		sec := PlanetSection(i)
		if err := validateBody(sec, p.Size, p.Frequency, p.Distance, p.Eccentricity, p.OrbitAngle); err != nil {
			return err
		}
		for j, m := range p.Moons {
			if err := validateBody(MoonSection(i, j), m.Size, m.Frequency, m.Distance, m.Eccentricity, m.OrbitAngle); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateBody(sec string, size int, freq float64, dist int, ecc, orbitAngle float64) error {
	switch {
	case dist <= 0:
		return &ValidationError{Section: sec, Field: keyDistance, Reason: "must be positive"}
	case size <= 0:
		return &ValidationError{Section: sec, Field: keySize, Reason: "must be positive"}
	case !(freq > 0) || math.IsInf(freq, 0):
		return &ValidationError{Section: sec, Field: keyFrequency, Reason: "must be positive"}
	case !(ecc >= 0 && ecc < 1):
		return &ValidationError{Section: sec, Field: keyEccentricity, Reason: "must be in [0, 1)"}
	case math.IsNaN(orbitAngle) || math.IsInf(orbitAngle, 0):
		return &ValidationError{Section: sec, Field: keyOrbitAngle, Reason: "must be finite"}
	}
	return nil
}

// BodyCount is the number of planets plus moons.
func (d *Document) BodyCount() int {
	n := len(d.Planets)
	for _, p := range d.Planets {
		n += len(p.Moons)
	}
	return n
}
