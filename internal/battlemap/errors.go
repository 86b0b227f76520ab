package battlemap

import (
	"errors"
	"fmt"
)

// Dimension bounds for a tactical map, inclusive.
const (
	MinDimension = 10
	MaxDimension = 200
)

var (
	// ErrInvalidDimensions is returned when width or height falls outside
	// [MinDimension, MaxDimension]. No generation work happens first.
	ErrInvalidDimensions = errors.New("invalid map dimensions")

	// ErrInvalidContext is returned for an unknown biome, development level
	// or elevation zone.
	ErrInvalidContext = errors.New("invalid generation context")
)

// StageError wraps a failure inside one of the six generation stages with
// the stage's name. The pipeline aborts on the first stage error and never
// returns partial layer data.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// validateDimensions enforces the fixed bounds before any allocation.
func validateDimensions(width, height int) error {
	if width < MinDimension || width > MaxDimension {
		return fmt.Errorf("%w: width %d (valid: %d-%d)", ErrInvalidDimensions, width, MinDimension, MaxDimension)
	}
	if height < MinDimension || height > MaxDimension {
		return fmt.Errorf("%w: height %d (valid: %d-%d)", ErrInvalidDimensions, height, MinDimension, MaxDimension)
	}
	return nil
}
