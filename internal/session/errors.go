package session

import "errors"

var (
	// ErrNotEditing is returned by edit operations while the system runs.
	ErrNotEditing = errors.New("session: not in edit mode")

	// ErrDistance is returned when a new orbit would have no radius.
	ErrDistance = errors.New("session: orbit distance must be positive")

	// ErrUnsaved is returned when pending edits could not be written before
	// another system replaced them.
	ErrUnsaved = errors.New("session: unsaved changes could not be written")
)
