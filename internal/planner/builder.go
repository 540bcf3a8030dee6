package planner

import (
	"fmt"
	"math"

	"github.com/rcliao/sprintforge/internal/domain"
	"github.com/rcliao/sprintforge/internal/milp"
)

// Constraint group names, for traceability in tests and diagnostics.
const (
	GroupSelectionAssignment = "selection_assignment"
	GroupAssignmentWork      = "assignment_work"
	GroupPointsWork          = "points_work"
	GroupDailyCapacity       = "daily_capacity"
	GroupTotalCapacity       = "total_capacity"
	GroupCompletion          = "completion"
	GroupSkills              = "skills"
	GroupDependencySelection = "dependency_selection"
	GroupPrecedence          = "precedence"
	GroupWorkload            = "workload"
)

// SprintModel is one assembled optimization run: the MILP plus the index
// arenas needed to read a solution back into domain shapes. Build one per
// planning request; a model must not be solved concurrently.
type SprintModel struct {
	problem  Problem
	days     []string
	dayIndex map[string]int

	model *milp.Model

	sel  []milp.Var     // task
	asg  [][]milp.Var   // task x developer
	work [][][]milp.Var // task x developer x day
	pts  [][][]milp.Var // task x developer x day

	soft      bool
	imbalance milp.Var
}

// Build assembles the baseline model: maximize selected priority under
// selection, assignment, scheduling, capacity, skill, and precedence
// constraints.
func Build(p Problem) (*SprintModel, error) {
	return build(p, false, domain.PenaltyWeights{})
}

// BuildSoft assembles the soft-constraint variant: the baseline hard
// model with workload-imbalance, context-switching, and late-completion
// penalties netted against the priority objective.
func BuildSoft(p Problem, weights domain.PenaltyWeights) (*SprintModel, error) {
	return build(p, true, weights)
}

func build(p Problem, soft bool, weights domain.PenaltyWeights) (*SprintModel, error) {
	days, dayIndex, err := p.validate()
	if err != nil {
		return nil, err
	}

	sm := &SprintModel{
		problem:  p,
		days:     days,
		dayIndex: dayIndex,
		model:    milp.NewModel("sprint_plan"),
		soft:     soft,
	}

	nTasks := len(p.Tasks)
	nDevs := len(p.Developers)
	nDays := len(days)

	// Variable arenas, indexed by dense task/developer/day positions.
	sm.sel = make([]milp.Var, nTasks)
	sm.asg = make([][]milp.Var, nTasks)
	sm.work = make([][][]milp.Var, nTasks)
	sm.pts = make([][][]milp.Var, nTasks)
	for ti, task := range p.Tasks {
		sm.sel[ti] = sm.model.AddBinary(fmt.Sprintf("selected[%s]", task.ID))
		sm.asg[ti] = make([]milp.Var, nDevs)
		sm.work[ti] = make([][]milp.Var, nDevs)
		sm.pts[ti] = make([][]milp.Var, nDevs)
		for ai, dev := range p.Developers {
			sm.asg[ti][ai] = sm.model.AddBinary(fmt.Sprintf("assigned[%s,%s]", task.ID, dev.ID))
			sm.work[ti][ai] = make([]milp.Var, nDays)
			sm.pts[ti][ai] = make([]milp.Var, nDays)
			for di, day := range days {
				sm.work[ti][ai][di] = sm.model.AddBinary(fmt.Sprintf("work[%s,%s,%s]", task.ID, dev.ID, day))
				sm.pts[ti][ai][di] = sm.model.AddContinuous(fmt.Sprintf("points[%s,%s,%s]", task.ID, dev.ID, day))
			}
		}
	}

	maxDailyCap := 0.0
	for _, dev := range p.Developers {
		for _, day := range days {
			if cap := dev.DailyCapacity[day]; cap > maxDailyCap {
				maxDailyCap = cap
			}
		}
	}

	// 1. A task is assigned to exactly one developer iff it is selected.
	for ti, task := range p.Tasks {
		expr := milp.Expr{}.Plus(sm.sel[ti], -1)
		for ai := range p.Developers {
			expr = expr.Plus(sm.asg[ti][ai], 1)
		}
		sm.model.AddConstraint(GroupSelectionAssignment, fmt.Sprintf("assign_selected[%s]", task.ID), expr, milp.Equal, 0)
	}

	// 2. Daily work requires the sprint-level assignment.
	for ti, task := range p.Tasks {
		for ai, dev := range p.Developers {
			for di, day := range days {
				expr := milp.Expr{}.Plus(sm.work[ti][ai][di], 1).Plus(sm.asg[ti][ai], -1)
				sm.model.AddConstraint(GroupAssignmentWork, fmt.Sprintf("work_requires_assignment[%s,%s,%s]", task.ID, dev.ID, day), expr, milp.LessEq, 0)
			}
		}
	}

	// 3. Points flow only on flagged work days. M covers the larger of the
	// task's full size and the largest observed daily capacity.
	for ti, task := range p.Tasks {
		mPoints := math.Max(math.Max(task.Points, maxDailyCap), 1)
		for ai, dev := range p.Developers {
			for di, day := range days {
				expr := milp.Expr{}.Plus(sm.pts[ti][ai][di], 1).Plus(sm.work[ti][ai][di], -mPoints)
				sm.model.AddConstraint(GroupPointsWork, fmt.Sprintf("points_require_work[%s,%s,%s]", task.ID, dev.ID, day), expr, milp.LessEq, 0)
			}
		}
	}

	// 4. Per-developer per-day capacity.
	for ai, dev := range p.Developers {
		for di, day := range days {
			expr := milp.Expr{}
			for ti := range p.Tasks {
				expr = expr.Plus(sm.pts[ti][ai][di], 1)
			}
			sm.model.AddConstraint(GroupDailyCapacity, fmt.Sprintf("daily_capacity[%s,%s]", dev.ID, day), expr, milp.LessEq, dev.DailyCapacity[day])
		}
	}

	// 5. Per-developer sprint total, alongside the daily sums.
	for ai, dev := range p.Developers {
		expr := milp.Expr{}
		for ti := range p.Tasks {
			for di := range days {
				expr = expr.Plus(sm.pts[ti][ai][di], 1)
			}
		}
		sm.model.AddConstraint(GroupTotalCapacity, fmt.Sprintf("total_capacity[%s]", dev.ID), expr, milp.LessEq, dev.TotalCapacity)
	}

	// 6. A selected task is completed in full; an unselected one not at all.
	for ti, task := range p.Tasks {
		expr := milp.Expr{}.Plus(sm.sel[ti], -task.Points)
		for ai := range p.Developers {
			for di := range days {
				expr = expr.Plus(sm.pts[ti][ai][di], 1)
			}
		}
		sm.model.AddConstraint(GroupCompletion, fmt.Sprintf("task_completion[%s]", task.ID), expr, milp.Equal, 0)
	}

	// 7. A developer lacking a required skill performs no work and no
	// points on the task, any day. Both variable families must be pinned.
	for ti, task := range p.Tasks {
		for ai, dev := range p.Developers {
			if dev.HasSkills(task.RequiredSkills) {
				continue
			}
			for di, day := range days {
				sm.model.AddConstraint(GroupSkills, fmt.Sprintf("skill_work[%s,%s,%s]", task.ID, dev.ID, day),
					milp.Expr{}.Plus(sm.work[ti][ai][di], 1), milp.Equal, 0)
				sm.model.AddConstraint(GroupSkills, fmt.Sprintf("skill_points[%s,%s,%s]", task.ID, dev.ID, day),
					milp.Expr{}.Plus(sm.pts[ti][ai][di], 1), milp.Equal, 0)
			}
		}
	}

	// 8 and 9. Dependency selection and precedence-in-time. Dependencies
	// outside the task universe reference other sprints and are skipped.
	byID := p.taskByID()
	for ti2, t2 := range p.Tasks {
		for _, depID := range t2.DependsOn {
			ti1, ok := byID[depID]
			if !ok {
				continue
			}
			t1 := p.Tasks[ti1]

			sm.model.AddConstraint(GroupDependencySelection, fmt.Sprintf("dependency_selection[%s->%s]", t2.ID, depID),
				milp.Expr{}.Plus(sm.sel[ti2], 1).Plus(sm.sel[ti1], -1), milp.LessEq, 0)

			// t2 touches day d only after t1's full size landed strictly
			// earlier; on the first day the empty prior sum forbids any
			// work on t2 outright. Work on t2 sums to at most 1 per day,
			// so the task's point size bounds the left-hand side.
			mPrec := math.Max(t1.Points, 1)
			for di := 0; di < nDays; di++ {
				expr := milp.Expr{}.
					Plus(sm.sel[ti1], mPrec).
					Plus(sm.sel[ti2], mPrec)
				for ai := range p.Developers {
					expr = expr.Plus(sm.work[ti2][ai][di], t1.Points)
					for dPrev := 0; dPrev < di; dPrev++ {
						expr = expr.Plus(sm.pts[ti1][ai][dPrev], -1)
					}
				}
				sm.model.AddConstraint(GroupPrecedence, fmt.Sprintf("precedence[%s->%s,%s]", depID, t2.ID, days[di]), expr, milp.LessEq, 2*mPrec)
			}
		}
	}

	objective := milp.Expr{}
	for ti, task := range p.Tasks {
		objective = objective.Plus(sm.sel[ti], float64(task.Priority))
	}

	if soft {
		objective = sm.addSoftTerms(objective, weights)
	}
	sm.model.Maximize(objective)

	return sm, nil
}

// addSoftTerms wires the auxiliary workload variables and returns the
// objective with the three penalty terms subtracted.
func (sm *SprintModel) addSoftTerms(objective milp.Expr, weights domain.PenaltyWeights) milp.Expr {
	m := sm.model
	p := sm.problem

	devTotal := make([]milp.Var, len(p.Developers))
	maxLoad := m.AddContinuous("max_workload")
	minLoad := m.AddContinuous("min_workload")
	sm.imbalance = m.AddContinuous("workload_imbalance")

	for ai, dev := range p.Developers {
		devTotal[ai] = m.AddContinuous(fmt.Sprintf("dev_total[%s]", dev.ID))
		expr := milp.Expr{}.Plus(devTotal[ai], 1)
		for ti := range p.Tasks {
			for di := range sm.days {
				expr = expr.Plus(sm.pts[ti][ai][di], -1)
			}
		}
		m.AddConstraint(GroupWorkload, fmt.Sprintf("dev_total[%s]", dev.ID), expr, milp.Equal, 0)

		m.AddConstraint(GroupWorkload, fmt.Sprintf("max_workload[%s]", dev.ID),
			milp.Expr{}.Plus(devTotal[ai], 1).Plus(maxLoad, -1), milp.LessEq, 0)
		m.AddConstraint(GroupWorkload, fmt.Sprintf("min_workload[%s]", dev.ID),
			milp.Expr{}.Plus(minLoad, 1).Plus(devTotal[ai], -1), milp.LessEq, 0)
	}
	m.AddConstraint(GroupWorkload, "workload_imbalance",
		milp.Expr{}.Plus(sm.imbalance, 1).Plus(maxLoad, -1).Plus(minLoad, 1), milp.Equal, 0)

	if weights.WorkloadImbalance != 0 {
		objective = objective.Plus(sm.imbalance, -weights.WorkloadImbalance)
	}
	if weights.ContextSwitching != 0 {
		for ti := range p.Tasks {
			for ai := range p.Developers {
				for di := range sm.days {
					objective = objective.Plus(sm.work[ti][ai][di], -weights.ContextSwitching)
				}
			}
		}
	}
	if weights.LateCompletion != 0 {
		for ti := range p.Tasks {
			for ai := range p.Developers {
				for di := range sm.days {
					objective = objective.Plus(sm.pts[ti][ai][di], -weights.LateCompletion*float64(di))
				}
			}
		}
	}
	return objective
}

// Days returns the resolved working-day calendar.
func (sm *SprintModel) Days() []string { return sm.days }

// Model exposes the underlying MILP for inspection.
func (sm *SprintModel) Model() *milp.Model { return sm.model }
