package settings

import (
	"errors"
	"fmt"
)

var (
	// ErrMissing indicates a required section or key is absent.
	ErrMissing = errors.New("settings: missing required field")

	// ErrSyntax indicates a value that could not be parsed.
	ErrSyntax = errors.New("settings: malformed value")

	// ErrInvalid indicates a parsed value outside its valid range.
	ErrInvalid = errors.New("settings: invalid value")
)

// ParseError is a fatal load-time error pointing at a section and key.
type ParseError struct {
	Section string
	Key     string
	Value   string
	Err     error
}

func (e *ParseError) Error() string {
	switch {
	case e.Key == "":
		return fmt.Sprintf("%v: [%s]", e.Err, e.Section)
	case e.Value == "":
		return fmt.Sprintf("%v: [%s] %s", e.Err, e.Section, e.Key)
	default:
		return fmt.Sprintf("%v: [%s] %s=%q", e.Err, e.Section, e.Key, e.Value)
	}
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError is returned for a well-formed document whose values
// cannot describe a valid orbital system.
type ValidationError struct {
	Section string
	Field   string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: [%s] %s %s", ErrInvalid, e.Section, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }
