package orbit

import "math"

const twoPi = 2 * math.Pi

// Advance moves an angle forward by steps ticks of speed/radius radians and
// reduces the result into [0, 2π). radius must be positive.
func Advance(angle, radius, speed, steps float64) float64 {
	return NormalizeAngle(angle + steps*speed/radius)
}

// NormalizeAngle maps any finite angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	// math.Mod can round a tiny negative up to exactly 2π
	if a >= twoPi {
		a = 0
	}
	return a
}

// Crossed reports whether a body moved onto or across the vertical line x = centerX
// between two frames. A body already resting on the line (lastX == centerX) does
// not fire again.
func Crossed(lastX, x, centerX float64) bool {
	return (lastX < centerX && x >= centerX) || (lastX > centerX && x <= centerX)
}

// Crossing is one trigger event produced by System.Step.
type Crossing struct {
	Index int
	ID    BodyID
	Kind  Kind
	At    Vec2
}

// Step advances every body by one tick, projects it, and returns the bodies
// whose x crossed the centre line. Bodies are visited in arena order so a moon
// always sees its planet's updated position.
func (s *System) Step(speed float64, center Vec2) []Crossing {
	return s.step(speed, 1, center)
}

func (s *System) step(speed, steps float64, center Vec2) []Crossing {
	var crossings []Crossing
	for i := range s.bodies {
		b := &s.bodies[i]
		b.Angle = Advance(b.Angle, b.Radius, speed, steps)
	}
	for i := range s.bodies {
		b := &s.bodies[i]
		p := s.Position(i, center)
		if Crossed(b.LastX, p.X, center.X) {
			crossings = append(crossings, Crossing{Index: i, ID: b.ID, Kind: b.Kind(), At: p})
		}
		b.LastX = p.X
	}
	return crossings
}

// Prime records every body's current x so the next Step only reports real crossings.
func (s *System) Prime(center Vec2) {
	for i := range s.bodies {
		s.bodies[i].LastX = s.Position(i, center).X
	}
}
