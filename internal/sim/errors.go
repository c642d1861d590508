package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/sigpath/internal/dynamo"
)

var (
	ErrDimensionMismatch = errors.New("sim: initial state does not match species count")
	ErrEmptyTimeline     = errors.New("sim: timeline needs at least two points")
	ErrTimelineOrder     = errors.New("sim: timeline is not strictly increasing")
)

type DimensionMismatchError struct {
	Got  int
	Want int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("sim: initial state has %d values, model has %d species", e.Got, e.Want)
}

func (e *DimensionMismatchError) Unwrap() error { return ErrDimensionMismatch }

// Is also matches the integrator-level sentinel.
func (e *DimensionMismatchError) Is(target error) bool { return target == dynamo.ErrDimensionMismatch }

type EmptyTimelineError struct {
	Points int
}

func (e *EmptyTimelineError) Error() string {
	return fmt.Sprintf("sim: timeline has %d points, need at least 2", e.Points)
}

func (e *EmptyTimelineError) Unwrap() error { return ErrEmptyTimeline }
