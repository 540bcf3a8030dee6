package milp

import "fmt"

// Status is the terminal state of a solve attempt.
type Status int

const (
	StatusUndefined Status = iota
	StatusOptimal
	// StatusFeasible marks a time-limited run that stopped on a feasible
	// incumbent without proving optimality.
	StatusFeasible
	StatusInfeasible
	StatusUnbounded
	StatusNotSolved
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusFeasible:
		return "Feasible"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	case StatusNotSolved:
		return "NotSolved"
	default:
		return "Undefined"
	}
}

// SolveError reports a solve that did not end in an accepted solution.
type SolveError struct {
	Status Status
	Err    error
}

func (e *SolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("solver finished with status %s: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("solver finished with status %s", e.Status)
}

func (e *SolveError) Unwrap() error { return e.Err }
