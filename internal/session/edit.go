package session

import (
	"fmt"
	"math"

	"github.com/san-kum/polyorbit/internal/orbit"
	"github.com/san-kum/polyorbit/internal/scale"
)

const (
	moonClearance = 10
	moonReach     = 100
	maxMoonSize   = 15
)

// AddOrbitRequest describes a planet placed by clicking at Screen.
type AddOrbitRequest struct {
	Screen       orbit.Vec2
	Size         int
	Eccentricity float64
	Scale        string
	Moons        int
}

// DeletePlanet removes planet i together with its moons.
func (s *Session) DeletePlanet(i int) error {
	if s.mode != Editing {
		return ErrNotEditing
	}
	removed, err := s.sys.RemovePlanet(i)
	if err != nil {
		return err
	}
	for _, b := range removed {
		if env, ok := s.trigger.Unbind(b.ID); ok {
			s.backend.Unbind(env)
		}
	}
	s.dirty = true
	s.log.Debug("planet deleted", "index", i, "removed", len(removed))
	return nil
}

// OrbitDistance is the world-space radius of an orbit through a screen point.
func (s *Session) OrbitDistance(screen orbit.Vec2) float64 {
	return s.view.ToWorld(screen).Dist(s.view.Center)
}

// AddOrbit creates a planet whose orbit passes through the clicked point and
// places it under the cursor. Moons are spaced outward from the planet's
// edge and get a random share of its eccentricity.
func (s *Session) AddOrbit(req AddOrbitRequest) (int, error) {
	if s.mode != Editing {
		return -1, ErrNotEditing
	}
	distance := int(s.OrbitDistance(req.Screen))
	if distance <= 0 {
		return -1, ErrDistance
	}
	if req.Moons < 0 {
		return -1, fmt.Errorf("session: moon count %d", req.Moons)
	}
	name := req.Scale
	if name == "" {
		name = scale.Default
	}

	freq, err := scale.Frequency(req.Size, true, req.Moons > 0, name)
	if err != nil {
		return -1, err
	}
	orbitAngle := s.rng.Float64() * 2 * math.Pi
	d := req.Screen.Sub(s.view.Center)

	pi, err := s.sys.AddPlanet(orbit.Body{
		Radius:       float64(distance),
		Size:         float64(req.Size),
		Frequency:    freq,
		Eccentricity: req.Eccentricity,
		OrbitAngle:   orbitAngle,
		Angle:        orbit.NormalizeAngle(math.Atan2(d.Y, d.X) - orbitAngle),
	})
	if err != nil {
		return -1, err
	}

	for _, md := range s.moonDistances(req.Size, distance, req.Moons) {
		msize := s.intn(1, min(maxMoonSize, req.Size/2))
		mfreq, err := scale.Frequency(msize, false, false, name)
		if err != nil {
			return -1, err
		}
		if _, err := s.sys.AddMoon(pi, orbit.Body{
			Radius:       float64(md),
			Size:         float64(msize),
			Frequency:    mfreq,
			Eccentricity: s.rng.Float64() * req.Eccentricity,
			OrbitAngle:   s.rng.Float64() * 2 * math.Pi,
		}); err != nil {
			return -1, err
		}
	}

	// a hand-placed orbit always carries an orientation
	s.global.EllipticalOrbits = true
	if s.global.SelectedScale == "" {
		s.global.SelectedScale = name
	}

	idx := append([]int{pi}, s.sys.Moons(pi)...)
	for _, i := range idx {
		b := s.sys.Body(i)
		b.LastX = s.sys.Position(i, s.view.Center).X
		s.bind(i)
	}
	s.dirty = true
	s.log.Debug("orbit added", "distance", distance, "size", req.Size, "moons", req.Moons, "frequency", freq)
	return pi, nil
}

// moonDistances spreads n moons between size+10 and min(distance/2, size+100),
// each at least 10 beyond the previous one.
func (s *Session) moonDistances(size, distance, n int) []int {
	if n == 0 {
		return nil
	}
	lo := size + moonClearance
	hi := min(distance/2, size+moonReach)
	span := max((hi-lo)/n, 0)

	out := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if i == 0 {
			out = append(out, s.intn(lo, lo+span))
			continue
		}
		prev := out[i-1]
		out = append(out, s.intn(prev+moonClearance, prev+span))
	}
	return out
}

// intn returns a uniform integer in [lo, hi], or lo when the range is empty.
func (s *Session) intn(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}
