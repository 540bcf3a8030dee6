package planner

import "fmt"

// MissingCapacityError reports a developer with no daily capacity entry
// for a working day of the resolved sprint calendar. Missing capacity is
// a modeling error, never defaulted to zero.
type MissingCapacityError struct {
	Developer string
	Day       string
}

func (e *MissingCapacityError) Error() string {
	return fmt.Sprintf("no daily capacity for developer %s on %s", e.Developer, e.Day)
}

// DuplicateIDError reports a task or developer identifier used twice.
type DuplicateIDError struct {
	Kind string // "task" or "developer"
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s ID %s", e.Kind, e.ID)
}

// InvalidPointsError reports a task with a negative story-point size.
type InvalidPointsError struct {
	Task   string
	Points float64
}

func (e *InvalidPointsError) Error() string {
	return fmt.Sprintf("task %s has negative points %g", e.Task, e.Points)
}
