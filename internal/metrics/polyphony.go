package metrics

import "github.com/san-kum/polyorbit/internal/orbit"

// Polyphony is the largest number of bodies that fired on the same tick.
type Polyphony struct {
	name string
	max  int
}

func NewPolyphony() *Polyphony {
	return &Polyphony{name: "polyphony"}
}

func (p *Polyphony) Name() string { return p.name }

func (p *Polyphony) Observe(tick int, sys *orbit.System, crossings []orbit.Crossing) {
	if len(crossings) > p.max {
		p.max = len(crossings)
	}
}

func (p *Polyphony) Value() float64 { return float64(p.max) }

func (p *Polyphony) Reset() { p.max = 0 }
