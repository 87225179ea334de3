package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf entries,
	// reported only when a run opts into state validation.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrDimensionMismatch indicates mismatched state/forcing dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
