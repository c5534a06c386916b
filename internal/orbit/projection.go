package orbit

import "math"

// DefaultPathSegments samples an orbit outline every 5 degrees.
const DefaultPathSegments = 72

// ConicRadius is the polar conic equation r = a(1-e²)/(1+e·cos θ).
func ConicRadius(radius, eccentricity, angle float64) float64 {
	return radius * (1 - eccentricity*eccentricity) / (1 + eccentricity*math.Cos(angle))
}

// Offset is the position on an orbit relative to the orbit's focus.
func Offset(radius, angle, eccentricity, orbitAngle float64) Vec2 {
	r := ConicRadius(radius, eccentricity, angle)
	return Vec2{
		X: r * math.Cos(angle+orbitAngle),
		Y: r * math.Sin(angle+orbitAngle),
	}
}

// Position returns the world-space position of body i. A moon is placed
// relative to its planet's current position, recomputed on every call.
func (s *System) Position(i int, center Vec2) Vec2 {
	b := &s.bodies[i]
	origin := center
	if b.Parent != NoParent {
		origin = s.Position(b.Parent, center)
	}
	return origin.Add(Offset(b.Radius, b.Angle, b.Eccentricity, b.OrbitAngle))
}

// Origin returns the point body i orbits around.
func (s *System) Origin(i int, center Vec2) Vec2 {
	if p := s.bodies[i].Parent; p != NoParent {
		return s.Position(p, center)
	}
	return center
}

// OrbitPath samples a closed outline of an orbit around origin.
func OrbitPath(radius, eccentricity, orbitAngle float64, origin Vec2, segments int) []Vec2 {
	if segments < 3 {
		segments = DefaultPathSegments
	}
	pts := make([]Vec2, segments)
	for i := 0; i < segments; i++ {
		a := twoPi * float64(i) / float64(segments)
		pts[i] = origin.Add(Offset(radius, a, eccentricity, orbitAngle))
	}
	return pts
}

// Viewport maps world space to screen space by scaling around a fixed centre.
// Orbit geometry is computed in world space first, so zoom never changes
// the shape of an orbit.
type Viewport struct {
	Center Vec2
	Zoom   float64
}

func (v Viewport) ToScreen(world Vec2) Vec2 {
	return world.Sub(v.Center).Scale(v.Zoom).Add(v.Center)
}

func (v Viewport) ToWorld(screen Vec2) Vec2 {
	if v.Zoom == 0 {
		return v.Center
	}
	return screen.Sub(v.Center).Scale(1 / v.Zoom).Add(v.Center)
}
