package audio

import (
	"math"
	"sync/atomic"

	"github.com/gopxl/beep"
)

// Voice is the sound of one body: a sine tone or a decoded sample shaped by
// an ADSR envelope. Play may be called from any goroutine; Stream runs on
// the audio thread.
type Voice struct {
	freq   float64
	size   float64
	rate   float64
	gain   float64
	sample [][2]float64

	env     atomic.Pointer[ADSR]
	trigger atomic.Bool

	// audio thread only
	phase  float64
	pos    int
	active bool
}

func NewVoice(freq, size, sustainRelease float64, rate beep.SampleRate) *Voice {
	v := &Voice{
		freq: freq,
		size: size,
		rate: float64(rate),
		gain: sineGain,
	}
	env := NewADSR(size, sustainRelease)
	v.env.Store(&env)
	return v
}

// SetSample replaces the sine tone with a sample played from its start on
// every trigger. Must be called before the voice is added to an engine.
func (v *Voice) SetSample(data [][2]float64) {
	v.sample = data
	v.gain = 1
}

func (v *Voice) SetSustainRelease(sr float64) {
	env := NewADSR(v.size, sr)
	v.env.Store(&env)
}

func (v *Voice) Envelope() ADSR { return *v.env.Load() }

// Play retriggers the envelope on the next audio block. It never blocks.
func (v *Voice) Play() { v.trigger.Store(true) }

// Stream implements beep.Streamer. A voice never ends; it streams silence
// between triggers.
func (v *Voice) Stream(samples [][2]float64) (int, bool) {
	if v.trigger.Swap(false) {
		v.pos = 0
		v.phase = 0
		v.active = true
	}
	if !v.active {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	}

	env := v.env.Load()
	end := env.End()
	for i := range samples {
		t := float64(v.pos) / v.rate
		if t >= end {
			v.active = false
			samples[i] = [2]float64{}
			continue
		}
		lvl := env.Level(t) * v.gain

		var l, r float64
		if v.sample != nil {
			if v.pos < len(v.sample) {
				l, r = v.sample[v.pos][0], v.sample[v.pos][1]
			}
		} else {
			s := math.Sin(2 * math.Pi * v.phase)
			l, r = s, s
			v.phase += v.freq / v.rate
			v.phase -= math.Floor(v.phase)
		}
		samples[i] = [2]float64{l * lvl, r * lvl}
		v.pos++
	}
	return len(samples), true
}

func (v *Voice) Err() error { return nil }
