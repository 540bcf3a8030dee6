package domain

// TaskDev keys a task-to-developer assignment.
type TaskDev struct {
	Task      string `json:"task"`
	Developer string `json:"developer"`
}

// TaskDevDay keys one developer's work on one task on one calendar day.
type TaskDevDay struct {
	Task      string `json:"task"`
	Developer string `json:"developer"`
	Day       string `json:"day"`
}

// Solution is the typed read-back of a solved sprint model. Maps carry an
// entry for every variable the model created, so a false/zero entry means
// "decided against", not "unknown".
type Solution struct {
	// Days is the resolved working-day calendar in order; positions define
	// the day indices used by the late-completion metric.
	Days []string `json:"days"`

	Selected map[string]bool        `json:"selected"`
	Assigned map[TaskDev]bool       `json:"assigned"`
	Work     map[TaskDevDay]bool    `json:"work"`
	Points   map[TaskDevDay]float64 `json:"points"`

	Objective float64 `json:"objective"`

	// Proven is true when the solver proved optimality. A time-boxed run
	// that stopped on a feasible incumbent reports false.
	Proven bool `json:"proven"`

	// Soft is true when the solution came from the soft-constraint variant,
	// so the summary knows to report its metrics.
	Soft bool `json:"soft"`
}

// AssigneeOf returns the developer assigned to a task, or "" when the task
// was not selected.
func (s *Solution) AssigneeOf(task string) string {
	for key, on := range s.Assigned {
		if on && key.Task == task {
			return key.Developer
		}
	}
	return ""
}
