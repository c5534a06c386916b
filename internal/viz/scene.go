package viz

import (
	"image/color"
	"math"

	"github.com/san-kum/polyorbit/internal/orbit"
)

const (
	centerDotRadius = 5
	haloScale       = 1.5
	editTextMargin  = 30
	editTextPulse   = 5
)

// Surface is a 2D drawing target in screen coordinates.
type Surface interface {
	Line(a, b orbit.Vec2, c color.RGBA)
	Circle(center orbit.Vec2, radius float64, c color.RGBA)
	Text(center orbit.Vec2, text string, c color.RGBA)
}

// Scene is one frame of a session.
type Scene struct {
	System *orbit.System
	View   orbit.Viewport
	Width  float64
	Height float64
	Theme  Theme

	Editing bool
	// Cursor is the pointer in screen space; the add-orbit preview follows it
	// while editing when ShowPreview is set.
	Cursor      orbit.Vec2
	ShowPreview bool
	Selected    int
	// Time drives the pulse of the edit-mode banner, in seconds.
	Time float64
}

// DrawScene draws the centre line, every orbit outline, every body with its
// glow halo, the centre dot and, while editing, the preview and banner.
// Selected is ignored when negative.
func DrawScene(s Surface, sc Scene) {
	th := sc.Theme
	view := sc.View

	cx := view.Center.X
	s.Line(orbit.Vec2{X: cx, Y: 0}, orbit.Vec2{X: cx, Y: sc.Height}, th.CenterLine)

	if sc.Editing && sc.ShowPreview {
		r := view.ToWorld(sc.Cursor).Dist(view.Center)
		polyline(s, view, orbit.OrbitPath(r, 0, 0, view.Center, orbit.DefaultPathSegments), th.Preview)
	}

	sys := sc.System
	if sys != nil {
		for _, p := range sys.Planets() {
			b := sys.Body(p)
			polyline(s, view, orbit.OrbitPath(b.Radius, b.Eccentricity, b.OrbitAngle, view.Center, orbit.DefaultPathSegments), th.PlanetOrbit)
			for _, m := range sys.Moons(p) {
				mb := sys.Body(m)
				origin := sys.Origin(m, view.Center)
				polyline(s, view, orbit.OrbitPath(mb.Radius, mb.Eccentricity, mb.OrbitAngle, origin, orbit.DefaultPathSegments), th.MoonOrbit)
			}
		}

		for i := 0; i < sys.Len(); i++ {
			b := sys.Body(i)
			c := th.Planet
			if b.Kind() == orbit.Moon {
				c = th.Moon
			}
			at := view.ToScreen(sys.Position(i, view.Center))
			r := math.Max(b.Size*view.Zoom, 1)
			if b.Glow > 0 {
				s.Circle(at, math.Max(b.Size*view.Zoom*haloScale, 1), Halo(c, b.Glow))
			}
			s.Circle(at, r, c)
			if i == sc.Selected {
				ring(s, at, r+3, th.Selected)
			}
		}
	}

	s.Circle(view.Center, centerDotRadius, th.Center)

	if sc.Editing {
		c := th.EditText
		c.A = uint8(127 + 127*math.Sin(sc.Time*editTextPulse))
		s.Text(orbit.Vec2{X: sc.Width / 2, Y: sc.Height - editTextMargin}, "Edit Mode", c)
	}
}

func polyline(s Surface, view orbit.Viewport, pts []orbit.Vec2, c color.RGBA) {
	if len(pts) < 2 {
		return
	}
	prev := view.ToScreen(pts[len(pts)-1])
	for _, p := range pts {
		cur := view.ToScreen(p)
		s.Line(prev, cur, c)
		prev = cur
	}
}

func ring(s Surface, center orbit.Vec2, r float64, c color.RGBA) {
	const n = 24
	prev := orbit.Vec2{X: center.X + r, Y: center.Y}
	for k := 1; k <= n; k++ {
		a := 2 * math.Pi * float64(k) / n
		cur := orbit.Vec2{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
		s.Line(prev, cur, c)
		prev = cur
	}
}
