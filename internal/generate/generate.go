// Package generate produces random orbital systems.
package generate

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/polyorbit/internal/scale"
	"github.com/san-kum/polyorbit/internal/settings"
)

var ErrParams = errors.New("generate: invalid parameters")

const (
	minPlanetSize = 20
	maxPlanetSize = 50
	minMoonSize   = 1
	maxMoonSize   = 15

	// maxMoonGap bounds the random step between consecutive moons.
	maxMoonGap = 20
	// randomSpread is added to Separation when distances are random.
	randomSpread = 50
)

type Params struct {
	MinPlanets        int     `yaml:"min_planets"`
	MaxPlanets        int     `yaml:"max_planets"`
	MinMoons          int     `yaml:"min_moons"`
	MaxMoons          int     `yaml:"max_moons"`
	MinCenterDistance int     `yaml:"min_center_distance"`
	MinPlanetDistance int     `yaml:"min_planet_distance"`
	RandomDistance    bool    `yaml:"random_distance"`
	Separation        int     `yaml:"separation"`
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`
	Elliptical        bool    `yaml:"elliptical"`
	MaxEccentricity   float64 `yaml:"max_eccentricity"`
	Scale             string  `yaml:"scale"`
}

func DefaultParams() Params {
	return Params{
		MinPlanets:        3,
		MaxPlanets:        6,
		MinMoons:          0,
		MaxMoons:          2,
		MinCenterDistance: 40,
		MinPlanetDistance: 35,
		RandomDistance:    true,
		Separation:        30,
		SpeedMultiplier:   2.0,
		Scale:             scale.Default,
	}
}

// Validate rejects parameter sets the generator cannot satisfy.
func (p Params) Validate() error {
	switch {
	case p.MinPlanets <= 0 || p.MaxPlanets <= 0 || p.MinPlanets > p.MaxPlanets:
		return fmt.Errorf("%w: planets %d..%d", ErrParams, p.MinPlanets, p.MaxPlanets)
	case p.MinMoons < 0 || p.MaxMoons < 0 || p.MinMoons > p.MaxMoons:
		return fmt.Errorf("%w: moons %d..%d", ErrParams, p.MinMoons, p.MaxMoons)
	case p.MinCenterDistance < 0 || p.MinPlanetDistance < 0:
		return fmt.Errorf("%w: distances must not be negative", ErrParams)
	case p.Separation <= 0:
		return fmt.Errorf("%w: separation %d", ErrParams, p.Separation)
	case !(p.SpeedMultiplier > 0) || math.IsInf(p.SpeedMultiplier, 0):
		return fmt.Errorf("%w: speed multiplier %v", ErrParams, p.SpeedMultiplier)
	case p.Elliptical && !(p.MaxEccentricity >= 0 && p.MaxEccentricity < 1):
		return fmt.Errorf("%w: max eccentricity %v", ErrParams, p.MaxEccentricity)
	}
	if _, err := scale.Get(p.Scale); err != nil {
		return fmt.Errorf("%w: %v", ErrParams, err)
	}
	return nil
}

// Document draws a random settings document. Planets are placed outward from
// MinCenterDistance, each one Separation (plus up to 50 when RandomDistance)
// beyond the previous; moons likewise step outward from MinPlanetDistance.
func Document(p Params, rng *rand.Rand) (*settings.Document, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	numPlanets := between(rng, p.MinPlanets, p.MaxPlanets)
	maxEcc := 0.0
	if p.Elliptical {
		maxEcc = p.MaxEccentricity
	}
	doc := &settings.Document{
		Global: settings.Global{
			NumberOfPlanets:  numPlanets,
			SpeedMultiplier:  p.SpeedMultiplier,
			EllipticalOrbits: p.Elliptical,
			MaxEccentricity:  settings.Float(maxEcc),
			SelectedScale:    p.Scale,
		},
	}

	prev := p.MinCenterDistance
	for i := 0; i < numPlanets; i++ {
		size := between(rng, minPlanetSize, maxPlanetSize)
		numMoons := between(rng, p.MinMoons, p.MaxMoons)
		freq, err := scale.GeneratorFrequency(size, true, numMoons > 0, p.Scale)
		if err != nil {
			return nil, err
		}

		dist := prev + p.Separation
		if p.RandomDistance {
			dist = prev + between(rng, p.Separation, p.Separation+randomSpread)
		}
		prev = dist

		planet := settings.PlanetRecord{Size: size, Frequency: freq, Distance: dist}
		planet.Eccentricity, planet.OrbitAngle = shape(rng, p.Elliptical, maxEcc)

		prevMoon := p.MinPlanetDistance
		for j := 0; j < numMoons; j++ {
			msize := between(rng, minMoonSize, maxMoonSize)
			mfreq, err := scale.GeneratorFrequency(msize, false, true, p.Scale)
			if err != nil {
				return nil, err
			}
			mdist := prevMoon + between(rng, msize, maxMoonGap)
			prevMoon = mdist

			moon := settings.MoonRecord{Size: msize, Frequency: mfreq, Distance: mdist}
			moon.Eccentricity, moon.OrbitAngle = shape(rng, p.Elliptical, maxEcc)
			planet.Moons = append(planet.Moons, moon)
		}
		doc.Planets = append(doc.Planets, planet)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

func shape(rng *rand.Rand, elliptical bool, maxEcc float64) (ecc, orbitAngle float64) {
	if !elliptical {
		return 0, 0
	}
	return rng.Float64() * maxEcc, rng.Float64() * 2 * math.Pi
}

// between returns a uniform integer in [lo, hi].
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
