package analysis

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/mjibson/go-dsp/fft"
)

// PlanetPeriod returns the ticks needed for one revolution at the given
// speed multiplier, or +Inf when the planet does not move.
func PlanetPeriod(radius, speed float64) float64 {
	if speed <= 0 || radius <= 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi * radius / speed
}

type Stats struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Intervals summarises the gaps between consecutive crossing ticks. ticks
// need not be sorted. Fewer than two ticks yields a zero Stats with Count set.
func Intervals(ticks []int) Stats {
	s := Stats{Count: len(ticks)}
	if len(ticks) < 2 {
		return s
	}
	sorted := append([]int(nil), ticks...)
	sort.Ints(sorted)

	gaps := make([]float64, len(sorted)-1)
	sum := 0.0
	s.Min = math.Inf(1)
	for i := 1; i < len(sorted); i++ {
		g := float64(sorted[i] - sorted[i-1])
		gaps[i-1] = g
		sum += g
		s.Min = math.Min(s.Min, g)
		s.Max = math.Max(s.Max, g)
	}
	s.Mean = sum / float64(len(gaps))

	variance := 0.0
	for _, g := range gaps {
		d := g - s.Mean
		variance += d * d
	}
	s.StdDev = math.Sqrt(variance / float64(len(gaps)))
	return s
}

// DominantPeriod finds the strongest periodic component of series, measured
// in samples. ok is false for series that are too short or flat.
func DominantPeriod(series []float64) (period float64, ok bool) {
	n := len(series)
	if n < 4 {
		return 0, false
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range series {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	best, bestPower := 0, 0.0
	for k := 1; k <= n/2; k++ {
		p := cmplx.Abs(spectrum[k])
		// harmonics of equal power keep the fundamental
		if p > bestPower*(1+1e-9) {
			best, bestPower = k, p
		}
	}
	if best == 0 || bestPower < 1e-9 {
		return 0, false
	}
	return float64(n) / float64(best), true
}
