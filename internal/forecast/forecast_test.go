package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearHistory() []SprintRecord {
	// One-week sprints, velocity exactly 2 points per person-day.
	return []SprintRecord{
		{Number: 1, Start: "2025-04-07", End: "2025-04-11", TeamSize: 2, CompletedPoints: 20},
		{Number: 2, Start: "2025-04-14", End: "2025-04-18", TeamSize: 3, CompletedPoints: 30},
		{Number: 3, Start: "2025-04-21", End: "2025-04-25", TeamSize: 4, CompletedPoints: 40},
	}
}

func TestForecast_LinearHistory(t *testing.T) {
	next := SprintPlan{Start: "2025-04-28", End: "2025-05-02", TeamSize: 5, LeaveDays: 5}

	got, err := Forecast(linearHistory(), next)
	require.NoError(t, err)

	// 5 devs x 5 days - 5 leave = 20 person-days at 2 points each.
	assert.InDelta(t, 20, got.PersonDays, 1e-9)
	assert.InDelta(t, 40, got.ExpectedVelocity, 1e-6)
	assert.InDelta(t, 2, got.Beta, 1e-6)
	assert.InDelta(t, 1, got.RSquared, 1e-6)
}

func TestForecast_LeaveLowersEstimate(t *testing.T) {
	base := SprintPlan{Start: "2025-04-28", End: "2025-05-02", TeamSize: 3}
	heavy := base
	heavy.LeaveDays = 6

	full, err := Forecast(linearHistory(), base)
	require.NoError(t, err)
	reduced, err := Forecast(linearHistory(), heavy)
	require.NoError(t, err)

	assert.Less(t, reduced.ExpectedVelocity, full.ExpectedVelocity)
}

func TestForecast_InsufficientHistory(t *testing.T) {
	_, err := Forecast(linearHistory()[:2], SprintPlan{Start: "2025-04-28", End: "2025-05-02", TeamSize: 3})
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestForecast_BadDate(t *testing.T) {
	history := linearHistory()
	history[0].Start = "not-a-date"
	_, err := Forecast(history, SprintPlan{Start: "2025-04-28", End: "2025-05-02", TeamSize: 3})
	assert.Error(t, err)
}

func TestForecast_NegativePredictionClamps(t *testing.T) {
	// Declining velocity as person-days grow, evaluated far outside the
	// observed range.
	history := []SprintRecord{
		{Number: 1, Start: "2025-04-07", End: "2025-04-11", TeamSize: 2, CompletedPoints: 30},
		{Number: 2, Start: "2025-04-14", End: "2025-04-18", TeamSize: 3, CompletedPoints: 20},
		{Number: 3, Start: "2025-04-21", End: "2025-04-25", TeamSize: 4, CompletedPoints: 10},
	}
	got, err := Forecast(history, SprintPlan{Start: "2025-04-28", End: "2025-05-02", TeamSize: 20})
	require.NoError(t, err)
	assert.Zero(t, got.ExpectedVelocity)
}
