package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/sim"
)

var (
	_ sim.Metric = (*CrossingRate)(nil)
	_ sim.Metric = (*Polyphony)(nil)
	_ sim.Metric = (*Brightness)(nil)
)

func TestCrossingRate(t *testing.T) {
	m := NewCrossingRate()
	sys := orbit.NewSystem()

	m.Observe(1, sys, []orbit.Crossing{{}, {}})
	m.Observe(2, sys, nil)
	m.Observe(3, sys, nil)
	m.Observe(4, sys, []orbit.Crossing{{}})

	if got := m.Value(); got != 750 {
		t.Errorf("expected 750, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}

func TestPolyphony(t *testing.T) {
	m := NewPolyphony()
	sys := orbit.NewSystem()

	m.Observe(1, sys, []orbit.Crossing{{}})
	m.Observe(2, sys, []orbit.Crossing{{}, {}, {}})
	m.Observe(3, sys, []orbit.Crossing{{}, {}})

	if m.Value() != 3 {
		t.Errorf("expected 3, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected 0 after reset")
	}
}

func TestBrightness(t *testing.T) {
	m := NewBrightness()
	sys := orbit.NewSystem()
	sys.AddPlanet(orbit.Body{Radius: 100, Size: 20, Frequency: 220})
	sys.AddPlanet(orbit.Body{Radius: 200, Size: 20, Frequency: 220})

	sys.Body(0).Glow = orbit.GlowMax
	m.Observe(1, sys, nil)

	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}
