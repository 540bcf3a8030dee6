// Package loader reads YAML plan files into optimizer inputs. Leave dates
// and a per-developer default expand into the dense daily-capacity map the
// model requires; priorities and points are mandatory per task, never
// silently defaulted.
package loader

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/sprintforge/internal/calendar"
	"github.com/rcliao/sprintforge/internal/domain"
	"github.com/rcliao/sprintforge/internal/forecast"
	"github.com/rcliao/sprintforge/internal/planner"
)

type planFile struct {
	Sprint struct {
		Start string `yaml:"start"`
		End   string `yaml:"end"`
	} `yaml:"sprint"`
	Tasks      []taskEntry            `yaml:"tasks"`
	Developers []developerEntry       `yaml:"developers"`
	Weights    *domain.PenaltyWeights `yaml:"weights"`
}

type taskEntry struct {
	ID             string   `yaml:"id"`
	Priority       *int     `yaml:"priority"`
	Points         *float64 `yaml:"points"`
	DependsOn      []string `yaml:"depends_on"`
	RequiredSkills []string `yaml:"required_skills"`
}

type developerEntry struct {
	ID                   string             `yaml:"id"`
	Skills               []string           `yaml:"skills"`
	TotalCapacity        *float64           `yaml:"total_capacity"`
	DefaultDailyCapacity *float64           `yaml:"default_daily_capacity"`
	Leave                []string           `yaml:"leave"`
	DailyCapacity        map[string]float64 `yaml:"daily_capacity"`
}

// Load reads a plan file from disk.
func Load(path string) (planner.Problem, *domain.PenaltyWeights, error) {
	f, err := os.Open(path)
	if err != nil {
		return planner.Problem{}, nil, fmt.Errorf("failed to open plan file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses a plan file and expands it into a Problem. The returned
// weights are nil when the file carries no soft-constraint section.
func Decode(r io.Reader) (planner.Problem, *domain.PenaltyWeights, error) {
	var file planFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return planner.Problem{}, nil, fmt.Errorf("failed to parse plan file: %w", err)
	}

	start, err := calendar.Parse(file.Sprint.Start)
	if err != nil {
		return planner.Problem{}, nil, fmt.Errorf("sprint start: %w", err)
	}
	end, err := calendar.Parse(file.Sprint.End)
	if err != nil {
		return planner.Problem{}, nil, fmt.Errorf("sprint end: %w", err)
	}
	days, _, err := calendar.WorkingDays(start, end)
	if err != nil {
		return planner.Problem{}, nil, err
	}

	p := planner.Problem{SprintStart: start, SprintEnd: end}

	for i, entry := range file.Tasks {
		if entry.ID == "" {
			return planner.Problem{}, nil, fmt.Errorf("task %d: missing id", i)
		}
		if entry.Priority == nil {
			return planner.Problem{}, nil, fmt.Errorf("task %s: missing priority", entry.ID)
		}
		if entry.Points == nil {
			return planner.Problem{}, nil, fmt.Errorf("task %s: missing points", entry.ID)
		}
		p.Tasks = append(p.Tasks, domain.Task{
			ID:             entry.ID,
			Priority:       *entry.Priority,
			Points:         *entry.Points,
			DependsOn:      entry.DependsOn,
			RequiredSkills: entry.RequiredSkills,
		})
	}

	for i, entry := range file.Developers {
		if entry.ID == "" {
			return planner.Problem{}, nil, fmt.Errorf("developer %d: missing id", i)
		}
		dev, err := expandDeveloper(entry, days)
		if err != nil {
			return planner.Problem{}, nil, err
		}
		p.Developers = append(p.Developers, dev)
	}

	return p, file.Weights, nil
}

// expandDeveloper fills the dense daily-capacity map: explicit entries
// win, leave dates zero out, everything else takes the default.
func expandDeveloper(entry developerEntry, days []string) (domain.Developer, error) {
	onLeave := make(map[string]bool, len(entry.Leave))
	for _, day := range entry.Leave {
		if _, err := calendar.Parse(day); err != nil {
			return domain.Developer{}, fmt.Errorf("developer %s: leave date: %w", entry.ID, err)
		}
		onLeave[day] = true
	}

	daily := make(map[string]float64, len(days))
	for _, day := range days {
		switch {
		case entry.DailyCapacity != nil && hasKey(entry.DailyCapacity, day):
			daily[day] = entry.DailyCapacity[day]
		case onLeave[day]:
			daily[day] = 0
		case entry.DefaultDailyCapacity != nil:
			daily[day] = *entry.DefaultDailyCapacity
		default:
			return domain.Developer{}, fmt.Errorf("developer %s: no capacity for %s and no default_daily_capacity", entry.ID, day)
		}
	}

	total := 0.0
	if entry.TotalCapacity != nil {
		total = *entry.TotalCapacity
	} else {
		for _, c := range daily {
			total += c
		}
	}

	return domain.Developer{
		ID:            entry.ID,
		Skills:        entry.Skills,
		TotalCapacity: total,
		DailyCapacity: daily,
	}, nil
}

func hasKey(m map[string]float64, key string) bool {
	_, ok := m[key]
	return ok
}

type historyFile struct {
	History []forecast.SprintRecord `yaml:"history"`
	Next    forecast.SprintPlan     `yaml:"next"`
}

// LoadHistory reads a velocity-history file for forecasting.
func LoadHistory(path string) ([]forecast.SprintRecord, forecast.SprintPlan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, forecast.SprintPlan{}, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	var file historyFile
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return nil, forecast.SprintPlan{}, fmt.Errorf("failed to parse history file: %w", err)
	}
	return file.History, file.Next, nil
}
