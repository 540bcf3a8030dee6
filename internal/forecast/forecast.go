// Package forecast estimates next-sprint velocity from historical sprint
// records: an ordinary least-squares fit of completed points against
// available person-days, so leave and team-size changes move the estimate.
package forecast

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/rcliao/sprintforge/internal/calendar"
)

// ErrInsufficientHistory is returned when fewer than MinRecords sprints
// are available to fit against.
var ErrInsufficientHistory = errors.New("not enough sprint history for a forecast")

// MinRecords is the smallest history that yields a meaningful fit.
const MinRecords = 3

// SprintRecord is one completed sprint.
type SprintRecord struct {
	Number          int     `yaml:"number"`
	Start           string  `yaml:"start"`
	End             string  `yaml:"end"`
	TeamSize        int     `yaml:"team_size"`
	CommittedPoints float64 `yaml:"committed"`
	CompletedPoints float64 `yaml:"completed"`
	LeaveDays       float64 `yaml:"leave_days"`
}

// SprintPlan describes the upcoming sprint to forecast for.
type SprintPlan struct {
	Start     string  `yaml:"start"`
	End       string  `yaml:"end"`
	TeamSize  int     `yaml:"team_size"`
	LeaveDays float64 `yaml:"leave_days"`
}

// VelocityForecast is the fitted model and its prediction.
type VelocityForecast struct {
	ExpectedVelocity float64 `json:"expectedVelocity"`
	PersonDays       float64 `json:"personDays"`
	Alpha            float64 `json:"alpha"`
	Beta             float64 `json:"beta"`
	RSquared         float64 `json:"rSquared"`
}

// Forecast fits completed points against available person-days across the
// history and evaluates the fit at the next sprint's person-days. A
// negative prediction clamps to zero.
func Forecast(history []SprintRecord, next SprintPlan) (VelocityForecast, error) {
	if len(history) < MinRecords {
		return VelocityForecast{}, fmt.Errorf("%d of %d sprints: %w", len(history), MinRecords, ErrInsufficientHistory)
	}

	xs := make([]float64, 0, len(history))
	ys := make([]float64, 0, len(history))
	for _, rec := range history {
		pd, err := personDays(rec.Start, rec.End, rec.TeamSize, rec.LeaveDays)
		if err != nil {
			return VelocityForecast{}, fmt.Errorf("sprint %d: %w", rec.Number, err)
		}
		xs = append(xs, pd)
		ys = append(ys, rec.CompletedPoints)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)

	nextPD, err := personDays(next.Start, next.End, next.TeamSize, next.LeaveDays)
	if err != nil {
		return VelocityForecast{}, fmt.Errorf("next sprint: %w", err)
	}

	expected := alpha + beta*nextPD
	if expected < 0 {
		expected = 0
	}

	return VelocityForecast{
		ExpectedVelocity: expected,
		PersonDays:       nextPD,
		Alpha:            alpha,
		Beta:             beta,
		RSquared:         stat.RSquared(xs, ys, nil, alpha, beta),
	}, nil
}

// personDays is team size times working days, net of leave.
func personDays(start, end string, teamSize int, leaveDays float64) (float64, error) {
	startDate, err := calendar.Parse(start)
	if err != nil {
		return 0, err
	}
	endDate, err := calendar.Parse(end)
	if err != nil {
		return 0, err
	}
	days, _, err := calendar.WorkingDays(startDate, endDate)
	if err != nil {
		return 0, err
	}
	pd := float64(teamSize)*float64(len(days)) - leaveDays
	if pd < 0 {
		pd = 0
	}
	return pd, nil
}
