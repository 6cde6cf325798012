package particles

import "errors"

// Domain errors for engine operations.
var (
	// ErrInvalidParameter indicates a precondition violation such as a
	// non-positive particle count, world size, or timestep.
	ErrInvalidParameter = errors.New("particles: invalid parameter")
)
