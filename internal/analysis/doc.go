// Package analysis looks at the rhythm a system produces.
//
// The package works on crossing ticks, either from a live run or from a
// stored one:
//
//   - [PlanetPeriod]: ticks for one full revolution of a planet
//   - [Intervals]: spacing statistics of one body's crossings
//   - [DominantPeriod]: strongest repeating period of a crossing histogram
//
// # Expected rhythm
//
// A planet's angle advances by speed/radius radians per tick, so it crosses
// the centre line twice per revolution:
//
//	period := analysis.PlanetPeriod(radius, speed)
//	expected := 2 * float64(ticks) / period
package analysis
