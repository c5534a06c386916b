package orbit

import "math"

const (
	// NoParent marks a planet.
	NoParent = -1

	// GlowMax is the glow value set on a crossing.
	GlowMax = 255.0

	// GlowStep is subtracted from the glow every tick.
	GlowStep = 10.0
)

type BodyID uint64

type Kind int

const (
	Planet Kind = iota
	Moon
)

func (k Kind) String() string {
	if k == Moon {
		return "moon"
	}
	return "planet"
}

type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Dist(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

func (v Vec2) IsFinite() bool { return isFinite(v.X) && isFinite(v.Y) }

func isFinite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Body is a planet or a moon. Moons reference their planet by arena index.
type Body struct {
	ID           BodyID
	Parent       int
	Radius       float64
	Size         float64
	Angle        float64
	Frequency    float64
	Eccentricity float64
	OrbitAngle   float64
	SoundFile    string
	LastX        float64
	Glow         float64
}

func (b *Body) Kind() Kind {
	if b.Parent == NoParent {
		return Planet
	}
	return Moon
}

// Validate checks the invariants every body must satisfy before it enters a System.
func Validate(b Body) error {
	switch {
	case !(b.Radius > 0) || !isFinite(b.Radius):
		return &BodyError{Field: "radius", Value: b.Radius, Wrapped: ErrInvalidBody}
	case !(b.Size > 0) || !isFinite(b.Size):
		return &BodyError{Field: "size", Value: b.Size, Wrapped: ErrInvalidBody}
	case !(b.Frequency > 0) || !isFinite(b.Frequency):
		return &BodyError{Field: "frequency", Value: b.Frequency, Wrapped: ErrInvalidBody}
	case !(b.Eccentricity >= 0 && b.Eccentricity < 1):
		return &BodyError{Field: "eccentricity", Value: b.Eccentricity, Wrapped: ErrInvalidBody}
	case !isFinite(b.OrbitAngle):
		return &BodyError{Field: "orbit_angle", Value: b.OrbitAngle, Wrapped: ErrInvalidBody}
	}
	return nil
}
