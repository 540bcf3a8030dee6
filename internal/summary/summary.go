// Package summary aggregates a raw optimization solution into the
// consumer-facing plan report: per-developer daily schedules, utilization,
// dependency satisfaction, and soft-constraint metrics.
package summary

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rcliao/sprintforge/internal/domain"
)

// Basis selects which capacity figure utilization rates are computed
// against.
type Basis int

const (
	// BasisDailySum divides by the sum of a developer's daily ceilings,
	// the figure most relevant to scheduling feasibility.
	BasisDailySum Basis = iota
	// BasisTotalCapacity divides by the declared sprint total.
	BasisTotalCapacity
)

// Build aggregates one solution. It only reads its inputs, so rebuilding
// from the same solution always yields the same aggregate numbers.
func Build(tasks []domain.Task, developers []domain.Developer, sol *domain.Solution, basis Basis) *domain.PlanSummary {
	out := &domain.PlanSummary{
		RunID:           uuid.New().String(),
		GeneratedAt:     time.Now(),
		WorkingDays:     append([]string(nil), sol.Days...),
		TasksConsidered: len(tasks),
		Objective:       sol.Objective,
		Proven:          sol.Proven,
		DailySchedules:  make(map[string]map[string][]domain.ScheduleEntry),
		Utilization:     make(map[string]domain.DeveloperUtilization, len(developers)),
	}

	for _, task := range tasks {
		if sol.Selected[task.ID] {
			out.TasksSelected++
			out.PointsSelected += task.Points
		}
	}

	devTotals := make(map[string]float64, len(developers))
	for _, dev := range developers {
		schedule := make(map[string][]domain.ScheduleEntry)
		for _, day := range sol.Days {
			var entries []domain.ScheduleEntry
			for _, task := range tasks {
				points := sol.Points[domain.TaskDevDay{Task: task.ID, Developer: dev.ID, Day: day}]
				if points <= 0 {
					continue
				}
				entries = append(entries, domain.ScheduleEntry{Task: task.ID, Points: points})
				devTotals[dev.ID] += points
				out.PointsScheduled += points
			}
			if len(entries) == 0 {
				continue
			}
			sort.SliceStable(entries, func(i, j int) bool {
				if entries[i].Points != entries[j].Points {
					return entries[i].Points > entries[j].Points
				}
				return entries[i].Task < entries[j].Task
			})
			schedule[day] = entries
		}
		if len(schedule) > 0 {
			out.DailySchedules[dev.ID] = schedule
		}
	}

	assigneeByTask := make(map[string]string, len(tasks))
	for _, task := range tasks {
		if dev := sol.AssigneeOf(task.ID); dev != "" {
			assigneeByTask[task.ID] = dev
		}
	}

	for _, dev := range developers {
		dailySum := 0.0
		for _, day := range sol.Days {
			dailySum += dev.DailyCapacity[day]
		}

		var assigned []string
		for _, task := range tasks {
			if assigneeByTask[task.ID] == dev.ID {
				assigned = append(assigned, task.ID)
			}
		}

		util := domain.DeveloperUtilization{
			TotalSprintCapacity: dev.TotalCapacity,
			DailyCapacitySum:    dailySum,
			ScheduledPoints:     devTotals[dev.ID],
			AssignedTasks:       assigned,
		}
		capacity := dailySum
		if basis == BasisTotalCapacity {
			capacity = dev.TotalCapacity
		}
		if capacity > 0 {
			util.UtilizationRate = util.ScheduledPoints / capacity
		}
		out.Utilization[dev.ID] = util
	}

	out.Dependencies = dependencyReport(tasks, sol)

	if sol.Soft {
		out.Soft = softMetrics(developers, devTotals, sol)
	}

	return out
}

// dependencyReport lists, for every selected task, each of its in-universe
// dependencies and whether that dependency made the sprint. Under a
// correct model every listed dependency is selected; the report exists so
// a consumer can see that at a glance.
func dependencyReport(tasks []domain.Task, sol *domain.Solution) []domain.DependencyStatus {
	inUniverse := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		inUniverse[task.ID] = true
	}

	var report []domain.DependencyStatus
	for _, task := range tasks {
		if !sol.Selected[task.ID] {
			continue
		}
		for _, dep := range task.DependsOn {
			if !inUniverse[dep] {
				continue
			}
			report = append(report, domain.DependencyStatus{
				Task:      task.ID,
				DependsOn: dep,
				Selected:  sol.Selected[dep],
			})
		}
	}
	return report
}

func softMetrics(developers []domain.Developer, devTotals map[string]float64, sol *domain.Solution) *domain.SoftMetrics {
	metrics := &domain.SoftMetrics{}

	if len(developers) > 0 {
		maxLoad := devTotals[developers[0].ID]
		minLoad := maxLoad
		for _, dev := range developers[1:] {
			load := devTotals[dev.ID]
			if load > maxLoad {
				maxLoad = load
			}
			if load < minLoad {
				minLoad = load
			}
		}
		metrics.WorkloadImbalance = maxLoad - minLoad
	}

	for _, worked := range sol.Work {
		if worked {
			metrics.ContextSwitches++
		}
	}

	dayIndex := make(map[string]int, len(sol.Days))
	for i, day := range sol.Days {
		dayIndex[day] = i
	}
	for key, points := range sol.Points {
		metrics.LateCompletionPoints += points * float64(dayIndex[key.Day])
	}

	return metrics
}
