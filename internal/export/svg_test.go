package export

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/viz"
)

func TestSVGShapes(t *testing.T) {
	s := NewSVG(200, 100, color.RGBA{A: 255})
	s.Line(orbit.Vec2{X: 0, Y: 0}, orbit.Vec2{X: 10, Y: 20}, color.RGBA{R: 255, A: 255})
	s.Circle(orbit.Vec2{X: 50, Y: 50}, 5, color.RGBA{R: 255, G: 255, B: 255, A: 128})
	s.Text(orbit.Vec2{X: 100, Y: 70}, "a<b", color.RGBA{R: 255, G: 255, A: 255})

	out := s.String()
	tests := []string{
		`width="200" height="100"`,
		`fill="#000000"`,
		`<line x1="0.0" y1="0.0" x2="10.0" y2="20.0" stroke="#ff0000"/>`,
		`<circle cx="50.0" cy="50.0" r="5.0" fill="#ffffff" fill-opacity="0.502"/>`,
		`>a&lt;b</text>`,
	}
	for _, want := range tests {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if s.Elements() != 3 {
		t.Errorf("elements = %d, want 3", s.Elements())
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
}

func TestSVGSkipsInvalid(t *testing.T) {
	s := NewSVG(10, 10, color.RGBA{})
	s.Line(orbit.Vec2{X: math.NaN()}, orbit.Vec2{}, color.RGBA{A: 255})
	s.Circle(orbit.Vec2{X: math.Inf(1)}, 3, color.RGBA{A: 255})
	s.Circle(orbit.Vec2{}, 0, color.RGBA{A: 255})
	if s.Elements() != 0 {
		t.Errorf("elements = %d, want 0", s.Elements())
	}
}

func TestSVGScene(t *testing.T) {
	sys := orbit.NewSystem()
	if _, err := sys.AddPlanet(orbit.Body{Parent: orbit.NoParent, Radius: 100, Size: 20, Frequency: 220}); err != nil {
		t.Fatal(err)
	}
	theme := viz.GetTheme("classic")
	s := NewSVG(640, 480, theme.Background)
	viz.DrawScene(s, viz.Scene{
		System:   sys,
		View:     orbit.Viewport{Center: orbit.Vec2{X: 320, Y: 240}, Zoom: 1},
		Width:    640,
		Height:   480,
		Theme:    theme,
		Selected: -1,
	})
	// centre line, orbit segments, planet, centre dot
	want := 1 + orbit.DefaultPathSegments + 2
	if s.Elements() != want {
		t.Errorf("elements = %d, want %d", s.Elements(), want)
	}

	path := filepath.Join(t.TempDir(), "scene.svg")
	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != s.String() {
		t.Error("saved file differs from String()")
	}
}
