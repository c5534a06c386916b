package config

import (
	"sort"

	"github.com/san-kum/polyorbit/internal/generate"
)

var Presets = map[string]generate.Params{
	"sparse": {
		MinPlanets: 2, MaxPlanets: 3, MinMoons: 0, MaxMoons: 1,
		MinCenterDistance: 60, MinPlanetDistance: 35, RandomDistance: true, Separation: 70,
		SpeedMultiplier: 1.5, Scale: "C Pentatonic Major",
	},
	"classic": {
		MinPlanets: 3, MaxPlanets: 6, MinMoons: 0, MaxMoons: 2,
		MinCenterDistance: 40, MinPlanetDistance: 35, RandomDistance: true, Separation: 30,
		SpeedMultiplier: 2.0, Scale: "C Major",
	},
	"crowded": {
		MinPlanets: 6, MaxPlanets: 9, MinMoons: 1, MaxMoons: 3,
		MinCenterDistance: 30, MinPlanetDistance: 30, RandomDistance: false, Separation: 35,
		SpeedMultiplier: 3.0, Scale: "C Dorian",
	},
	"eccentric": {
		MinPlanets: 3, MaxPlanets: 5, MinMoons: 0, MaxMoons: 2,
		MinCenterDistance: 50, MinPlanetDistance: 35, RandomDistance: true, Separation: 40,
		SpeedMultiplier: 2.0, Elliptical: true, MaxEccentricity: 0.6, Scale: "C Lydian",
	},
	"blues": {
		MinPlanets: 4, MaxPlanets: 6, MinMoons: 0, MaxMoons: 2,
		MinCenterDistance: 40, MinPlanetDistance: 35, RandomDistance: true, Separation: 30,
		SpeedMultiplier: 2.5, Elliptical: true, MaxEccentricity: 0.3, Scale: "C Blues",
	},
}

// GetPreset returns a copy of the named generator preset or nil.
func GetPreset(name string) *generate.Params {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return &p
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
