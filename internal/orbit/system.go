package orbit

import "fmt"

// System is the arena of bodies. Planets and moons share one slice in
// configuration order; a moon always sits after its planet.
type System struct {
	bodies []Body
	nextID BodyID
}

func NewSystem() *System {
	return &System{nextID: 1}
}

func (s *System) Len() int { return len(s.bodies) }

// Body returns a pointer into the arena. It is invalidated by any removal.
func (s *System) Body(i int) *Body { return &s.bodies[i] }

// AddPlanet validates b and appends it as a planet.
func (s *System) AddPlanet(b Body) (int, error) {
	if err := Validate(b); err != nil {
		return -1, err
	}
	b.Parent = NoParent
	b.ID = s.allocID()
	s.bodies = append(s.bodies, b)
	return len(s.bodies) - 1, nil
}

// AddMoon validates b and inserts it after the last moon of planet.
func (s *System) AddMoon(planet int, b Body) (int, error) {
	if planet < 0 || planet >= len(s.bodies) {
		return -1, fmt.Errorf("%w: planet %d", ErrIndex, planet)
	}
	if s.bodies[planet].Parent != NoParent {
		return -1, fmt.Errorf("%w: body %d", ErrNotPlanet, planet)
	}
	if err := Validate(b); err != nil {
		return -1, err
	}
	b.Parent = planet
	b.ID = s.allocID()

	at := planet + 1
	for at < len(s.bodies) && s.bodies[at].Parent == planet {
		at++
	}
	s.bodies = append(s.bodies, Body{})
	copy(s.bodies[at+1:], s.bodies[at:])
	s.bodies[at] = b
	for i := at + 1; i < len(s.bodies); i++ {
		if s.bodies[i].Parent >= at {
			s.bodies[i].Parent++
		}
	}
	return at, nil
}

// Planets returns the arena indices of all planets in order.
func (s *System) Planets() []int {
	var out []int
	for i := range s.bodies {
		if s.bodies[i].Parent == NoParent {
			out = append(out, i)
		}
	}
	return out
}

// Moons returns the arena indices of the moons of planet in order.
func (s *System) Moons(planet int) []int {
	var out []int
	for i := range s.bodies {
		if s.bodies[i].Parent == planet && planet != NoParent {
			out = append(out, i)
		}
	}
	return out
}

// RemovePlanet deletes a planet together with all of its moons and returns
// the removed bodies.
func (s *System) RemovePlanet(planet int) ([]Body, error) {
	if planet < 0 || planet >= len(s.bodies) {
		return nil, fmt.Errorf("%w: planet %d", ErrIndex, planet)
	}
	if s.bodies[planet].Parent != NoParent {
		return nil, fmt.Errorf("%w: body %d", ErrNotPlanet, planet)
	}
	return s.removeWhere(func(i int, b *Body) bool {
		return i == planet || b.Parent == planet
	}), nil
}

// Clear drops every body. IDs are not reused.
func (s *System) Clear() {
	s.bodies = s.bodies[:0]
}

// removeWhere compacts the arena and remaps parent indices of survivors.
func (s *System) removeWhere(drop func(i int, b *Body) bool) []Body {
	remap := make([]int, len(s.bodies))
	var removed []Body
	kept := s.bodies[:0]
	for i := range s.bodies {
		b := s.bodies[i]
		if drop(i, &b) {
			remap[i] = -1
			removed = append(removed, b)
			continue
		}
		remap[i] = len(kept)
		kept = append(kept, b)
	}
	for i := range kept {
		if p := kept[i].Parent; p != NoParent {
			kept[i].Parent = remap[p]
		}
	}
	s.bodies = kept
	return removed
}

func (s *System) allocID() BodyID {
	id := s.nextID
	s.nextID++
	return id
}
