package domain

// Task is a unit of backlog work considered for a single sprint plan.
// Dependencies reference other task IDs; IDs outside the planning window
// are ignored by the optimizer rather than treated as errors.
type Task struct {
	ID             string   `json:"id" yaml:"id"`
	Priority       int      `json:"priority" yaml:"priority"`
	Points         float64  `json:"points" yaml:"points"`
	DependsOn      []string `json:"dependsOn,omitempty" yaml:"depends_on,omitempty"`
	RequiredSkills []string `json:"requiredSkills,omitempty" yaml:"required_skills,omitempty"`
}

// Developer is a team member with finite day-granular capacity.
// DailyCapacity maps ISO dates (YYYY-MM-DD) to the points that developer
// can absorb on that day; 0 marks leave or a holiday. Every working day
// of the sprint calendar must have an entry.
type Developer struct {
	ID            string             `json:"id" yaml:"id"`
	Skills        []string           `json:"skills,omitempty" yaml:"skills,omitempty"`
	TotalCapacity float64            `json:"totalCapacity" yaml:"total_capacity"`
	DailyCapacity map[string]float64 `json:"dailyCapacity" yaml:"daily_capacity"`
}

// PenaltyWeights are the soft-constraint coefficients netted against the
// priority objective. A weight of 0 disables its term.
type PenaltyWeights struct {
	WorkloadImbalance float64 `json:"workloadImbalance" yaml:"workload_imbalance"`
	ContextSwitching  float64 `json:"contextSwitching" yaml:"context_switching"`
	LateCompletion    float64 `json:"lateCompletion" yaml:"late_completion"`
}

// HasSkills reports whether the developer possesses every listed skill.
func (dev Developer) HasSkills(required []string) bool {
	if len(required) == 0 {
		return true
	}
	has := make(map[string]bool, len(dev.Skills))
	for _, s := range dev.Skills {
		has[s] = true
	}
	for _, s := range required {
		if !has[s] {
			return false
		}
	}
	return true
}
