package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrFieldTooSmall indicates the field dropped below the size the
	// resampler needs for its neighbour lookups.
	ErrFieldTooSmall = errors.New("dynamo: field below minimum size")

	// ErrCapacity indicates a capacity that cannot hold a valid field.
	ErrCapacity = errors.New("dynamo: invalid field capacity")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownIntegrator indicates an integrator name with no registration.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")

	// ErrInvalidState indicates a phase point with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// SimulationError wraps an error with the tick it happened on.
type SimulationError struct {
	Tick    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d: %v", e.Tick, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
