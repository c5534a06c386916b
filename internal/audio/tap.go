package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

// TapSize is the number of mono samples kept for analysis.
const TapSize = 1024

// Tap keeps the most recent output samples for the spectrum meter.
type Tap struct {
	mu   sync.RWMutex
	ring []float64
	head int
	full bool
}

func NewTap(size int) *Tap {
	return &Tap{ring: make([]float64, size)}
}

// Write appends the mono mix of frames.
func (t *Tap) Write(frames [][2]float64) {
	t.mu.Lock()
	for _, f := range frames {
		t.ring[t.head] = (f[0] + f[1]) / 2
		t.head++
		if t.head == len(t.ring) {
			t.head = 0
			t.full = true
		}
	}
	t.mu.Unlock()
}

// Snapshot returns the buffered samples oldest first.
func (t *Tap) Snapshot() []float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.full {
		out := make([]float64, t.head)
		copy(out, t.ring[:t.head])
		return out
	}
	out := make([]float64, len(t.ring))
	n := copy(out, t.ring[t.head:])
	copy(out[n:], t.ring[:t.head])
	return out
}

// Level is the RMS of the buffered samples.
func (t *Tap) Level() float64 {
	s := t.Snapshot()
	if len(s) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(s)))
}

// Spectrum returns the magnitude of the buffered signal in bands
// logarithmically spaced from the lowest bin to Nyquist.
func (t *Tap) Spectrum(bands int) []float64 {
	if bands <= 0 {
		return nil
	}
	out := make([]float64, bands)
	s := t.Snapshot()
	n := len(s)
	if n < 2 {
		return out
	}

	for i := range s {
		s[i] *= 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	spec := fft.FFTReal(s)

	half := n / 2
	lo, hi := 1.0, float64(half)
	for b := 0; b < bands; b++ {
		from := int(lo * math.Pow(hi/lo, float64(b)/float64(bands)))
		to := int(lo * math.Pow(hi/lo, float64(b+1)/float64(bands)))
		if to <= from {
			to = from + 1
		}
		if to > half {
			to = half
		}
		sum := 0.0
		for k := from; k < to; k++ {
			sum += cmplx.Abs(spec[k])
		}
		if to > from {
			out[b] = 2 * sum / float64(to-from) / float64(n)
		}
	}
	return out
}
