package gui

import (
	"math"
	"testing"

	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/scale"
)

func TestDraftDefaults(t *testing.T) {
	d := newDraft("C Blues")
	if d.Size != defaultDraftSize || d.Moons != 0 || d.Eccentricity != 0 {
		t.Errorf("unexpected draft %+v", d)
	}
	if d.ScaleName() != "C Blues" {
		t.Errorf("scale = %q", d.ScaleName())
	}
	if newDraft("").ScaleName() != scale.Names()[0] {
		t.Error("unknown scale should select the first one")
	}
}

func TestDraftLimits(t *testing.T) {
	d := newDraft(scale.Default)

	for i := 0; i < 20; i++ {
		d.grow(1)
	}
	if d.Size != maxDraftSize {
		t.Errorf("size = %d, want %d", d.Size, maxDraftSize)
	}
	for i := 0; i < 20; i++ {
		d.grow(-1)
	}
	if d.Size != minDraftSize {
		t.Errorf("size = %d, want %d", d.Size, minDraftSize)
	}

	for i := 0; i < 3; i++ {
		d.stretch(1)
	}
	if math.Abs(d.Eccentricity-0.15) > 1e-9 {
		t.Errorf("eccentricity = %v, want 0.15", d.Eccentricity)
	}
	for i := 0; i < 40; i++ {
		d.stretch(1)
	}
	if d.Eccentricity != maxDraftEcc {
		t.Errorf("eccentricity = %v, want %v", d.Eccentricity, maxDraftEcc)
	}
	for i := 0; i < 40; i++ {
		d.stretch(-1)
	}
	if d.Eccentricity != 0 {
		t.Errorf("eccentricity = %v, want 0", d.Eccentricity)
	}
}

func TestDraftCycles(t *testing.T) {
	d := newDraft(scale.Default)
	for i := 0; i <= maxDraftMoons; i++ {
		d.nextMoons()
	}
	if d.Moons != 0 {
		t.Errorf("moons should wrap, got %d", d.Moons)
	}

	names := scale.Names()
	start := d.Scale
	for range names {
		d.nextScale()
	}
	if d.Scale != start {
		t.Errorf("scale should wrap to %d, got %d", start, d.Scale)
	}
}

func TestDraftRequest(t *testing.T) {
	d := newDraft(scale.Default)
	d.grow(1)
	d.nextMoons()
	at := orbit.Vec2{X: 10, Y: 20}

	req := d.request(at)
	if req.Screen != at || req.Size != 25 || req.Moons != 1 || req.Scale != scale.Default {
		t.Errorf("unexpected request %+v", req)
	}
}
