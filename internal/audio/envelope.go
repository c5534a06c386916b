package audio

import "math"

const (
	attackTime = 0.01
	sineGain   = 0.3
)

// ADSR is an attack-decay-sustain-release contour with a fixed total
// duration. Times are in seconds; Sustain is a level in [0, 1].
type ADSR struct {
	Attack   float64
	Decay    float64
	Sustain  float64
	Release  float64
	Duration float64
}

// NewADSR derives the contour of a body from its size: bigger bodies decay
// slower, sustain louder and ring longer.
func NewADSR(size, sustainRelease float64) ADSR {
	return ADSR{
		Attack:   attackTime,
		Decay:    size / 100,
		Sustain:  math.Min(size/200, sustainRelease),
		Release:  sustainRelease,
		Duration: size / 10,
	}
}

func (a ADSR) releaseStart() float64 {
	return math.Max(a.Duration-a.Release, a.Attack+a.Decay)
}

// End is the time after which Level is zero.
func (a ADSR) End() float64 {
	return a.releaseStart() + a.Release
}

// Level returns the envelope gain t seconds after the trigger.
func (a ADSR) Level(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t < a.Attack:
		return t / a.Attack
	case t < a.Attack+a.Decay:
		return 1 - (1-a.Sustain)*(t-a.Attack)/a.Decay
	}
	rs := a.releaseStart()
	if t < rs {
		return a.Sustain
	}
	if a.Release <= 0 || t >= rs+a.Release {
		return 0
	}
	return a.Sustain * (1 - (t-rs)/a.Release)
}
