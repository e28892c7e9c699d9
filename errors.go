package pivotsplit

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when a Config fails validation.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnsupportedScheme is returned for a publish URL with an unknown scheme.
	ErrUnsupportedScheme = errors.New("unsupported publish url scheme")
)

// Stage names a step of Run.
type Stage string

const (
	StageLoad    Stage = "load"
	StageBuild   Stage = "build"
	StageWrite   Stage = "write"
	StagePublish Stage = "publish"
)

// StageError reports the step of Run that failed and the file or blob it was
// working on.
//
// The original underlying error can be accessed via errors.Unwrap.
type StageError struct {
	Stage Stage
	Path  string
	cause error
}

func (e *StageError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.cause)
}

func (e *StageError) Unwrap() error { return e.cause }

func stageError(stage Stage, path string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Path: path, cause: err}
}
