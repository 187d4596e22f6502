package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidConfiguration indicates malformed options rejected before a run starts.
	ErrInvalidConfiguration = errors.New("dynamo: invalid configuration")

	// ErrNumericDegeneracy indicates a near-singular metric or a non-finite state.
	ErrNumericDegeneracy = errors.New("dynamo: numeric degeneracy (singular metric or NaN/Inf state)")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f, %s): %v", e.Step, e.Time, e.State, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
