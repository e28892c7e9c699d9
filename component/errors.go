package component

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a components file does not exist.
	ErrNotFound = errors.New("can't load components: file not found")

	// ErrCorrupted is returned when a components file is truncated or malformed.
	ErrCorrupted = errors.New("can't load components: file corrupted or format mismatch")

	// ErrUnknownIO is returned for any other read failure.
	ErrUnknownIO = errors.New("can't load components: unknown I/O error")
)

// LoadError describes a failed Load.
//
// Kind is one of ErrNotFound, ErrCorrupted or ErrUnknownIO and is matched by
// errors.Is. The underlying error can be accessed via errors.Unwrap.
type LoadError struct {
	Path  string
	Kind  error
	cause error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%v (%s): %v", e.Kind, e.Path, e.cause)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.cause)
}

func (e *LoadError) Is(target error) bool { return target == e.Kind }

func (e *LoadError) Unwrap() error { return e.cause }
