package settings

import (
	"fmt"
	"math"

	"github.com/san-kum/polyorbit/internal/orbit"
)

// Build constructs a System from a validated document. Every body starts at
// angle 0 with no glow.
func Build(doc *Document) (*orbit.System, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	elliptical := doc.Global.EllipticalOrbits

	sys := orbit.NewSystem()
	for i, p := range doc.Planets {
		pb := orbit.Body{
			Radius:    float64(p.Distance),
			Size:      float64(p.Size),
			Frequency: p.Frequency,
			SoundFile: p.SoundFile,
		}
		if elliptical {
			pb.Eccentricity, pb.OrbitAngle = p.Eccentricity, p.OrbitAngle
		}
		pi, err := sys.AddPlanet(pb)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", PlanetSection(i), err)
		}

		for j, m := range p.Moons {
			mb := orbit.Body{
				Radius:    float64(m.Distance),
				Size:      float64(m.Size),
				Frequency: m.Frequency,
				SoundFile: m.SoundFile,
			}
			if elliptical {
				mb.Eccentricity, mb.OrbitAngle = m.Eccentricity, m.OrbitAngle
			}
			if _, err := sys.AddMoon(pi, mb); err != nil {
				return nil, fmt.Errorf("%s: %w", MoonSection(i, j), err)
			}
		}
	}
	return sys, nil
}

// FromSystem flattens a live system back into a document. Radius and size
// are rounded to whole pixels; global carries the non-body settings.
func FromSystem(sys *orbit.System, global Global) *Document {
	doc := &Document{Global: global}
	for _, pi := range sys.Planets() {
		p := sys.Body(pi)
		rec := PlanetRecord{
			Size:      roundPositive(p.Size),
			Frequency: p.Frequency,
			Distance:  roundPositive(p.Radius),
			SoundFile: p.SoundFile,
		}
		if global.EllipticalOrbits {
			rec.Eccentricity, rec.OrbitAngle = p.Eccentricity, p.OrbitAngle
		}
		for _, mi := range sys.Moons(pi) {
			m := sys.Body(mi)
			mr := MoonRecord{
				Size:      roundPositive(m.Size),
				Frequency: m.Frequency,
				Distance:  roundPositive(m.Radius),
				SoundFile: m.SoundFile,
			}
			if global.EllipticalOrbits {
				mr.Eccentricity, mr.OrbitAngle = m.Eccentricity, m.OrbitAngle
			}
			rec.Moons = append(rec.Moons, mr)
		}
		doc.Planets = append(doc.Planets, rec)
	}
	doc.Global.NumberOfPlanets = len(doc.Planets)
	return doc
}

// roundPositive rounds to the nearest integer but never below 1, so a
// sub-pixel body still survives a save.
func roundPositive(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}
