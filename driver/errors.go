package driver

import "fmt"

// SolverFailure wraps any error raised by the solver's initial-model
// constructor, by AdvanceState, or by the boundary step. It is fatal to the
// owning rank's run; the driver performs no retry and no partial-state
// recovery.
type SolverFailure struct {
	Step int
	Time float64
	Err  error
}

func (e *SolverFailure) Error() string {
	if e.Step == 0 {
		return fmt.Sprintf("solver failure during setup: %v", e.Err)
	}
	return fmt.Sprintf("solver failure at step %d, t=%g: %v", e.Step, e.Time, e.Err)
}

func (e *SolverFailure) Unwrap() error { return e.Err }
