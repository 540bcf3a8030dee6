// Package generator produces seeded synthetic sprint-planning problems
// for demos and stress fixtures.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rcliao/sprintforge/internal/calendar"
	"github.com/rcliao/sprintforge/internal/domain"
	"github.com/rcliao/sprintforge/internal/planner"
)

var (
	skillPool  = []string{"Frontend", "Backend", "Database", "DevOps", "Mobile"}
	pointScale = []float64{1, 2, 3, 5, 8, 13}
)

// Config controls generation. The same seed always yields the same
// problem.
type Config struct {
	Tasks       int
	Developers  int
	SprintStart time.Time
	SprintEnd   time.Time
	Seed        int64

	// DailyCapacity is each developer's per-day ceiling (default 8).
	DailyCapacity float64
	// LeaveChance is the probability a developer is out on a given day.
	LeaveChance float64
	// DependencyChance is the probability a task depends on an earlier one.
	DependencyChance float64
}

// Generate builds a random but internally consistent problem: forward-only
// dependencies (so the graph is acyclic) and full daily-capacity coverage
// for the sprint calendar.
func Generate(cfg Config) (planner.Problem, error) {
	days, _, err := calendar.WorkingDays(cfg.SprintStart, cfg.SprintEnd)
	if err != nil {
		return planner.Problem{}, err
	}

	if cfg.DailyCapacity == 0 {
		cfg.DailyCapacity = 8
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	p := planner.Problem{SprintStart: cfg.SprintStart, SprintEnd: cfg.SprintEnd}

	for i := 0; i < cfg.Developers; i++ {
		dev := domain.Developer{
			ID:            fmt.Sprintf("dev-%d", i+1),
			Skills:        pickSkills(rng, 2+rng.Intn(2)),
			DailyCapacity: make(map[string]float64, len(days)),
		}
		for _, day := range days {
			capacity := cfg.DailyCapacity
			if rng.Float64() < cfg.LeaveChance {
				capacity = 0
			}
			dev.DailyCapacity[day] = capacity
			dev.TotalCapacity += capacity
		}
		p.Developers = append(p.Developers, dev)
	}

	for i := 0; i < cfg.Tasks; i++ {
		task := domain.Task{
			ID:             fmt.Sprintf("T%d", i+1),
			Priority:       1 + rng.Intn(5),
			Points:         pointScale[rng.Intn(len(pointScale))],
			RequiredSkills: pickSkills(rng, rng.Intn(3)),
		}
		// Depend only on lower-numbered tasks to stay acyclic.
		if i > 0 && rng.Float64() < cfg.DependencyChance {
			task.DependsOn = []string{fmt.Sprintf("T%d", 1+rng.Intn(i))}
		}
		p.Tasks = append(p.Tasks, task)
	}

	return p, nil
}

func pickSkills(rng *rand.Rand, n int) []string {
	if n <= 0 {
		return nil
	}
	if n > len(skillPool) {
		n = len(skillPool)
	}
	perm := rng.Perm(len(skillPool))
	skills := make([]string, n)
	for i := 0; i < n; i++ {
		skills[i] = skillPool[perm[i]]
	}
	return skills
}
