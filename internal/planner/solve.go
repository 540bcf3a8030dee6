package planner

import (
	"fmt"

	"github.com/rcliao/sprintforge/internal/domain"
	"github.com/rcliao/sprintforge/internal/milp"
)

// Epsilon is the threshold under which a scheduled point value counts as
// zero, absorbing solver numerical noise.
const Epsilon = 1e-6

// Solve runs the assembled model and reads the solution back into domain
// shapes. Every non-optimal outcome surfaces as an error carrying the
// solver status, except a time-boxed feasible incumbent when the options
// accept one; such a solution reports Proven == false.
func (sm *SprintModel) Solve(opts milp.SolveOptions) (*domain.Solution, error) {
	sol, err := milp.Solve(sm.model, opts)
	if err != nil {
		return nil, fmt.Errorf("sprint optimization failed: %w", err)
	}
	return sm.extract(sol), nil
}

// extract pulls concrete variable values into plain maps. Point values
// within Epsilon of zero are clamped to exactly zero so downstream
// aggregation never sees noise entries.
func (sm *SprintModel) extract(sol *milp.Solution) *domain.Solution {
	p := sm.problem

	out := &domain.Solution{
		Days:      append([]string(nil), sm.days...),
		Selected:  make(map[string]bool, len(p.Tasks)),
		Assigned:  make(map[domain.TaskDev]bool, len(p.Tasks)*len(p.Developers)),
		Work:      make(map[domain.TaskDevDay]bool),
		Points:    make(map[domain.TaskDevDay]float64),
		Objective: sol.Objective,
		Proven:    sol.Status == milp.StatusOptimal,
		Soft:      sm.soft,
	}

	for ti, task := range p.Tasks {
		out.Selected[task.ID] = sol.Bool(sm.sel[ti])
		for ai, dev := range p.Developers {
			out.Assigned[domain.TaskDev{Task: task.ID, Developer: dev.ID}] = sol.Bool(sm.asg[ti][ai])
			for di, day := range sm.days {
				key := domain.TaskDevDay{Task: task.ID, Developer: dev.ID, Day: day}
				out.Work[key] = sol.Bool(sm.work[ti][ai][di])
				points := sol.Value(sm.pts[ti][ai][di])
				if points < Epsilon {
					points = 0
				}
				out.Points[key] = points
			}
		}
	}
	return out
}
