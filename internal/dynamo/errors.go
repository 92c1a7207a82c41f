package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation and optimization.
var (
	// ErrInvalidState indicates a state holding NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrOutOfRange indicates a geographic coordinate outside [-90,90]x[-180,180].
	ErrOutOfRange = errors.New("dynamo: coordinate out of range")

	// ErrInvalidRequest indicates an optimization request missing start or target.
	ErrInvalidRequest = errors.New("dynamo: invalid request")

	// ErrCanceled indicates the run was interrupted or superseded.
	ErrCanceled = errors.New("dynamo: canceled")

	// ErrUnknown indicates a lookup by name failed.
	ErrUnknown = errors.New("dynamo: unknown name")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Tick    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("tick %d (t=%.2fs): %v", e.Tick, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
