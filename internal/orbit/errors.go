package orbit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBody indicates a body violating radius/size/frequency/eccentricity bounds.
	ErrInvalidBody = errors.New("orbit: invalid body")

	// ErrNotPlanet indicates a moon was attached to something other than a planet.
	ErrNotPlanet = errors.New("orbit: parent is not a planet")

	// ErrIndex indicates an arena index out of range.
	ErrIndex = errors.New("orbit: index out of range")
)

// BodyError wraps a validation failure with the offending field.
type BodyError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("%v: %s=%g", e.Wrapped, e.Field, e.Value)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
