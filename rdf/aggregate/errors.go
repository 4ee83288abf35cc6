package aggregate

import "errors"

var (
	// ErrInvalidArgument is returned when a projection is rejected at
	// configuration time
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInconsistentState is returned when a graph that was validated
	// earlier is no longer held by any source
	ErrInconsistentState = errors.New("inconsistent state")
)
