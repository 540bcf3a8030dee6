package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/rcliao/sprintforge/internal/domain"
	"github.com/rcliao/sprintforge/internal/forecast"
	"github.com/rcliao/sprintforge/internal/generator"
	"github.com/rcliao/sprintforge/internal/loader"
	"github.com/rcliao/sprintforge/internal/milp"
	"github.com/rcliao/sprintforge/internal/planner"
	"github.com/rcliao/sprintforge/internal/summary"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

func main() {
	root := &cobra.Command{
		Use:          "sprintforge",
		Short:        "Sprint planning optimizer",
		SilenceUsage: true,
	}
	root.AddCommand(planCmd(), demoCmd(), forecastCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func planCmd() *cobra.Command {
	var (
		soft            bool
		timeLimit       time.Duration
		acceptIncumbent bool
		basisTotal      bool
	)

	cmd := &cobra.Command{
		Use:   "plan <plan.yaml>",
		Short: "Optimize a sprint plan from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			problem, weights, err := loader.Load(args[0])
			if err != nil {
				return err
			}
			return runPlan(problem, weights, soft, timeLimit, acceptIncumbent, basisTotal)
		},
	}

	cmd.Flags().BoolVar(&soft, "soft", false, "apply soft-constraint penalties from the plan file")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 0, "solver wall-clock budget (0 = unbounded; --soft defaults to 30s)")
	cmd.Flags().BoolVar(&acceptIncumbent, "accept-incumbent", false, "accept a time-boxed feasible solution without an optimality proof")
	cmd.Flags().BoolVar(&basisTotal, "basis-total", false, "report utilization against declared sprint totals instead of daily sums")
	return cmd
}

func demoCmd() *cobra.Command {
	var (
		tasks      int
		developers int
		seed       int64
		soft       bool
		timeLimit  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Generate a synthetic problem and plan it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// A one-week window: any seven consecutive days hold exactly
			// five working days.
			start := time.Now().UTC()
			problem, err := generator.Generate(generator.Config{
				Tasks:            tasks,
				Developers:       developers,
				SprintStart:      start,
				SprintEnd:        start.AddDate(0, 0, 6),
				Seed:             seed,
				LeaveChance:      0.1,
				DependencyChance: 0.3,
			})
			if err != nil {
				return err
			}
			weights := &domain.PenaltyWeights{WorkloadImbalance: 0.5, ContextSwitching: 0.05, LateCompletion: 0.01}
			// Demo runs are time-boxed and keep whatever the solver found,
			// so they always print a plan on feasible input.
			return runPlan(problem, weights, soft, timeLimit, true, false)
		},
	}

	cmd.Flags().IntVar(&tasks, "tasks", 5, "number of synthetic tasks")
	cmd.Flags().IntVar(&developers, "developers", 2, "number of synthetic developers")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().BoolVar(&soft, "soft", false, "use the soft-constraint variant")
	cmd.Flags().DurationVar(&timeLimit, "time-limit", 30*time.Second, "solver wall-clock budget")
	return cmd
}

func forecastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forecast <history.yaml>",
		Short: "Forecast next-sprint velocity from history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, next, err := loader.LoadHistory(args[0])
			if err != nil {
				return err
			}
			fc, err := forecast.Forecast(history, next)
			if err != nil {
				return err
			}
			fmt.Printf("%s %.1f points (%.1f person-days, R²=%.3f)\n",
				bold("Expected velocity:"), fc.ExpectedVelocity, fc.PersonDays, fc.RSquared)
			return nil
		},
	}
}

func runPlan(problem planner.Problem, weights *domain.PenaltyWeights, soft bool, timeLimit time.Duration, acceptIncumbent, basisTotal bool) error {
	var (
		model *planner.SprintModel
		err   error
	)
	if soft {
		w := domain.PenaltyWeights{}
		if weights != nil {
			w = *weights
		}
		if timeLimit == 0 {
			timeLimit = 30 * time.Second
		}
		model, err = planner.BuildSoft(problem, w)
	} else {
		model, err = planner.Build(problem)
	}
	if err != nil {
		return err
	}
	fmt.Println(dim(fmt.Sprintf("model: %d variables, %d constraints",
		model.Model().NumVars(), model.Model().NumConstraints())))

	sol, err := model.Solve(milp.SolveOptions{TimeLimit: timeLimit, AcceptIncumbent: acceptIncumbent})
	if err != nil {
		return err
	}

	basis := summary.BasisDailySum
	if basisTotal {
		basis = summary.BasisTotalCapacity
	}
	printSummary(summary.Build(problem.Tasks, problem.Developers, sol, basis))
	return nil
}

func printSummary(s *domain.PlanSummary) {
	fmt.Printf("%s %s\n", bold("Sprint plan"), dim(s.RunID))
	if !s.Proven {
		fmt.Println(yellow("warning: time limit reached, solution is feasible but not proven optimal"))
	}
	fmt.Printf("  tasks: %d of %d selected, %.1f points scheduled, objective %.2f\n",
		s.TasksSelected, s.TasksConsidered, s.PointsScheduled, s.Objective)

	devs := make([]string, 0, len(s.Utilization))
	for dev := range s.Utilization {
		devs = append(devs, dev)
	}
	sort.Strings(devs)

	for _, dev := range devs {
		util := s.Utilization[dev]
		fmt.Printf("\n%s  %.1f pts (%.0f%% utilized)\n", bold(dev), util.ScheduledPoints, util.UtilizationRate*100)
		for _, day := range s.WorkingDays {
			entries := s.DailySchedules[dev][day]
			if len(entries) == 0 {
				continue
			}
			fmt.Printf("  %s", cyan(day))
			for _, entry := range entries {
				fmt.Printf("  %s %s", entry.Task, dim(fmt.Sprintf("(%.1f)", entry.Points)))
			}
			fmt.Println()
		}
	}

	if s.Soft != nil {
		fmt.Printf("\n%s imbalance %.1f, context switches %d, late points %.1f\n",
			bold("Soft metrics:"), s.Soft.WorkloadImbalance, s.Soft.ContextSwitches, s.Soft.LateCompletionPoints)
	}
	if len(s.Dependencies) > 0 {
		ok := true
		for _, dep := range s.Dependencies {
			if !dep.Selected {
				ok = false
				fmt.Printf("%s %s depends on unselected %s\n", yellow("dependency gap:"), dep.Task, dep.DependsOn)
			}
		}
		if ok {
			fmt.Printf("\n%s\n", green("all dependencies satisfied"))
		}
	}
}
