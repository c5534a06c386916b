// Package scale maps body sizes onto notes of a musical scale.
//
// Larger bodies sound lower. Planets occupy the lower part of a table and
// moons the upper part, so a planet and its moons rarely collide in pitch.
package scale

import (
	"fmt"
	"sort"
	"strings"
)

// Default is used when no scale is selected.
const Default = "C Major"

type Scale struct {
	Name  string
	Notes []float64
}

var order = []string{
	"C Major",
	"C Natural Minor",
	"C Harmonic Minor",
	"C Melodic Minor",
	"C Blues",
	"C Pentatonic Major",
	"C Pentatonic Minor",
	"C Dorian",
	"C Phrygian",
	"C Lydian",
	"C Mixolydian",
	"C Locrian",
	"C Whole Tone",
	"C Diminished",
	"C Augmented",
	"C Bebop Dominant",
	"C Bebop Major",
	"C Altered",
}

var tables = map[string][]float64{
	"C Major":            {131, 147, 165, 175, 196, 220, 247, 261, 293, 329, 349, 392, 440, 493, 523, 587, 659, 698, 784, 880, 987},
	"C Natural Minor":    {131, 147, 156, 175, 196, 208, 247, 261, 293, 311, 349, 392, 415, 493, 523, 587, 622, 698, 784, 831, 987},
	"C Harmonic Minor":   {131, 147, 156, 175, 196, 208, 247, 261, 293, 311, 349, 392, 440, 493, 523, 587, 622, 698, 784, 880, 987},
	"C Melodic Minor":    {131, 147, 156, 175, 196, 220, 247, 261, 293, 311, 349, 392, 440, 493, 523, 587, 622, 698, 784, 880, 987},
	"C Blues":            {131, 156, 175, 185, 196, 233, 261, 311, 349, 370, 392, 466, 523, 622, 698, 740, 784, 932},
	"C Pentatonic Major": {131, 147, 165, 196, 220, 261, 293, 329, 392, 440, 523, 587, 659, 784, 880},
	"C Pentatonic Minor": {131, 156, 175, 196, 233, 261, 311, 349, 392, 466, 523, 622, 698, 784, 932},
	"C Dorian":           {131, 147, 156, 175, 196, 220, 233, 261, 293, 311, 349, 392, 440, 466, 523, 587, 622, 698, 784, 880, 932},
	"C Phrygian":         {131, 139, 165, 175, 196, 208, 247, 261, 277, 329, 349, 392, 415, 493, 523, 554, 659, 698, 784, 831, 987},
	"C Lydian":           {131, 147, 165, 185, 196, 220, 247, 261, 293, 329, 370, 392, 440, 493, 523, 587, 659, 740, 784, 880, 987},
	"C Mixolydian":       {131, 147, 165, 175, 196, 220, 233, 261, 293, 329, 349, 392, 440, 466, 523, 587, 659, 698, 784, 880, 932},
	"C Locrian":          {131, 139, 165, 175, 185, 208, 247, 261, 277, 329, 349, 370, 415, 493, 523, 554, 659, 698, 740, 831, 987},
	"C Whole Tone":       {131, 147, 165, 185, 208, 233, 261, 293, 329, 370, 415, 466, 523, 587, 659, 740, 831, 932},
	"C Diminished":       {131, 147, 156, 175, 185, 208, 220, 247, 261, 293, 311, 349, 370, 415, 440, 493, 523, 587, 622, 698, 740, 831, 880, 987},
	"C Augmented":        {131, 147, 165, 185, 208, 233, 261, 293, 329, 370, 415, 466, 523, 587, 659, 740, 831, 932},
	"C Bebop Dominant":   {131, 147, 165, 175, 196, 220, 233, 247, 261, 293, 329, 349, 392, 440, 466, 493, 523, 587, 659, 698, 784, 880, 932, 987},
	"C Bebop Major":      {131, 147, 165, 175, 196, 208, 220, 247, 261, 293, 329, 349, 392, 415, 440, 493, 523, 587, 659, 698, 784, 831, 880, 987},
	"C Altered":          {131, 139, 165, 175, 185, 208, 233, 261, 277, 329, 349, 370, 415, 466, 523, 554, 659, 698, 740, 831, 932},
}

// Names returns the scale names in menu order.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Get returns a copy of the named scale.
func Get(name string) (Scale, error) {
	notes, ok := tables[name]
	if !ok {
		return Scale{}, fmt.Errorf("scale: unknown scale %q", name)
	}
	cp := make([]float64, len(notes))
	copy(cp, notes)
	return Scale{Name: name, Notes: cp}, nil
}

// Lookup resolves a scale name case-insensitively. The leading "C" may be
// omitted: "dorian" finds "C Dorian".
func Lookup(query string) (string, bool) {
	if _, ok := tables[query]; ok {
		return query, true
	}
	q := normalize(query)
	for _, name := range order {
		if normalize(name) == q || normalize(name[2:]) == q {
			return name, true
		}
	}
	return "", false
}

// Frequency is the interactive mapping used when an orbit is drawn by hand.
// Planet sizes span 0..50 and moon sizes 0..15.
func Frequency(size int, isPlanet, hasMoons bool, name string) (float64, error) {
	notes, ok := tables[name]
	if !ok {
		return 0, fmt.Errorf("scale: unknown scale %q", name)
	}
	n := len(notes)

	var idx int
	if isPlanet {
		idx = floorDiv((50-size)*(n/2), 50)
		if !hasMoons {
			idx += n / 4
		}
	} else {
		idx = floorDiv((15-size)*(n/2), 15) + n/2
	}
	return notes[clamp(idx, 0, n-1)], nil
}

// GeneratorFrequency is the mapping used by the random generator. Planets
// (size 20..50) land on the first 15 notes and moons (size 1..15) on notes 14
// and above.
func GeneratorFrequency(size int, isPlanet, hasMoons bool, name string) (float64, error) {
	notes, ok := tables[name]
	if !ok {
		return 0, fmt.Errorf("scale: unknown scale %q", name)
	}
	n := len(notes)

	if isPlanet {
		inverted := 50 - size + 20
		idx := floorDiv((inverted-20)*14, 30)
		if !hasMoons {
			idx += 7
		}
		return notes[clamp(idx, 0, n-1)], nil
	}
	inverted := 16 - size
	idx := floorDiv((inverted-1)*7, 14) + 14
	return notes[clamp(idx, 14, n-1)], nil
}

// Range returns the lowest and highest note of a scale.
func Range(name string) (lo, hi float64, err error) {
	notes, ok := tables[name]
	if !ok {
		return 0, 0, fmt.Errorf("scale: unknown scale %q", name)
	}
	sorted := append([]float64(nil), notes...)
	sort.Float64s(sorted)
	return sorted[0], sorted[len(sorted)-1], nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
