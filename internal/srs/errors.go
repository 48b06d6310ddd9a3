package srs

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for inputs the engine refuses to coerce:
// negative counters or timings, unknown age groups, non-positive session
// durations. Use errors.Is to check.
var ErrInvalidArgument = errors.New("srs: invalid argument")

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
