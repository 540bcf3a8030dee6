// Package planner builds and solves the sprint scheduling model: which
// tasks make the sprint, who owns each one, and how their points spread
// across the working-day calendar.
package planner

import (
	"time"

	"github.com/rcliao/sprintforge/internal/calendar"
	"github.com/rcliao/sprintforge/internal/domain"
)

// Problem is one complete optimization input. It is consumed whole and
// never mutated during solving; independent runs build independent models.
type Problem struct {
	Tasks       []domain.Task
	Developers  []domain.Developer
	SprintStart time.Time
	SprintEnd   time.Time
}

// validate resolves the calendar and checks the problem against it. It
// runs before any variable is created.
func (p Problem) validate() ([]string, map[string]int, error) {
	days, dayIndex, err := calendar.WorkingDays(p.SprintStart, p.SprintEnd)
	if err != nil {
		return nil, nil, err
	}

	seenTasks := make(map[string]bool, len(p.Tasks))
	for _, task := range p.Tasks {
		if seenTasks[task.ID] {
			return nil, nil, &DuplicateIDError{Kind: "task", ID: task.ID}
		}
		seenTasks[task.ID] = true
		if task.Points < 0 {
			return nil, nil, &InvalidPointsError{Task: task.ID, Points: task.Points}
		}
	}

	seenDevs := make(map[string]bool, len(p.Developers))
	for _, dev := range p.Developers {
		if seenDevs[dev.ID] {
			return nil, nil, &DuplicateIDError{Kind: "developer", ID: dev.ID}
		}
		seenDevs[dev.ID] = true
		for _, day := range days {
			if _, ok := dev.DailyCapacity[day]; !ok {
				return nil, nil, &MissingCapacityError{Developer: dev.ID, Day: day}
			}
		}
	}

	return days, dayIndex, nil
}

// taskByID returns a lookup over the problem's task universe.
func (p Problem) taskByID() map[string]int {
	byID := make(map[string]int, len(p.Tasks))
	for i, task := range p.Tasks {
		byID[task.ID] = i
	}
	return byID
}
