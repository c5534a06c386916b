package gui

import (
	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/scale"
	"github.com/san-kum/polyorbit/internal/session"
)

const (
	minDraftSize     = 5
	maxDraftSize     = 50
	defaultDraftSize = 20
	draftSizeStep    = 5
	maxDraftEcc      = 0.9
	draftEccStep     = 0.05
	maxDraftMoons    = 4
)

// draft holds the parameters of the next orbit placed in edit mode.
type draft struct {
	Size         int
	Eccentricity float64
	Moons        int
	Scale        int
}

func newDraft(scaleName string) draft {
	d := draft{Size: defaultDraftSize}
	for i, n := range scale.Names() {
		if n == scaleName {
			d.Scale = i
		}
	}
	return d
}

func (d *draft) grow(steps int) {
	d.Size = max(minDraftSize, min(maxDraftSize, d.Size+steps*draftSizeStep))
}

func (d *draft) stretch(steps int) {
	e := d.Eccentricity + float64(steps)*draftEccStep
	// keep the value on the step grid
	e = float64(int(e/draftEccStep+0.5)) * draftEccStep
	d.Eccentricity = max(0, min(maxDraftEcc, e))
}

func (d *draft) nextMoons() {
	d.Moons = (d.Moons + 1) % (maxDraftMoons + 1)
}

func (d *draft) nextScale() {
	d.Scale = (d.Scale + 1) % len(scale.Names())
}

func (d draft) ScaleName() string {
	return scale.Names()[d.Scale]
}

func (d draft) request(at orbit.Vec2) session.AddOrbitRequest {
	return session.AddOrbitRequest{
		Screen:       at,
		Size:         d.Size,
		Eccentricity: d.Eccentricity,
		Scale:        d.ScaleName(),
		Moons:        d.Moons,
	}
}
