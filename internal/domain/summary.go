package domain

import "time"

// ScheduleEntry is one task's share of a developer's day.
type ScheduleEntry struct {
	Task   string  `json:"task"`
	Points float64 `json:"points"`
}

// DeveloperUtilization compares a developer's scheduled load against both
// capacity bases: the declared sprint total and the sum of daily ceilings.
type DeveloperUtilization struct {
	TotalSprintCapacity float64  `json:"totalSprintCapacity"`
	DailyCapacitySum    float64  `json:"dailyCapacitySum"`
	ScheduledPoints     float64  `json:"scheduledPoints"`
	UtilizationRate     float64  `json:"utilizationRate"`
	AssignedTasks       []string `json:"assignedTasks"`
}

// DependencyStatus is one row of the dependency-satisfaction report: a
// selected task, one of its dependencies, and whether that dependency made
// the sprint. Under a correct model Selected is always true; the report is
// a diagnostic, not a correctness mechanism.
type DependencyStatus struct {
	Task      string `json:"task"`
	DependsOn string `json:"dependsOn"`
	Selected  bool   `json:"selected"`
}

// SoftMetrics are the realized soft-constraint quantities of a solution.
type SoftMetrics struct {
	WorkloadImbalance    float64 `json:"workloadImbalance"`
	ContextSwitches      int     `json:"contextSwitches"`
	LateCompletionPoints float64 `json:"lateCompletionPoints"`
}

// PlanSummary is the consumer-facing aggregation of one optimization run.
type PlanSummary struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`

	WorkingDays []string `json:"workingDays"`

	TasksConsidered int     `json:"tasksConsidered"`
	TasksSelected   int     `json:"tasksSelected"`
	PointsSelected  float64 `json:"pointsSelected"`
	PointsScheduled float64 `json:"pointsScheduled"`
	Objective       float64 `json:"objective"`
	Proven          bool    `json:"proven"`

	// DailySchedules maps developer -> day -> entries sorted descending by
	// points. Days with no significant work carry no key.
	DailySchedules map[string]map[string][]ScheduleEntry `json:"dailySchedules"`

	Utilization  map[string]DeveloperUtilization `json:"utilization"`
	Dependencies []DependencyStatus              `json:"dependencies,omitempty"`
	Soft         *SoftMetrics                    `json:"softMetrics,omitempty"`
}
