package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWorkingDays_TwoWeekSprint(t *testing.T) {
	// Monday 2025-04-07 through Friday 2025-04-18
	days, index, err := WorkingDays(date(2025, time.April, 7), date(2025, time.April, 18))
	require.NoError(t, err)

	assert.Len(t, days, 10)
	assert.Equal(t, "2025-04-07", days[0])
	assert.Equal(t, "2025-04-11", days[4])
	assert.Equal(t, "2025-04-14", days[5]) // weekend skipped
	assert.Equal(t, "2025-04-18", days[9])

	assert.Equal(t, 0, index["2025-04-07"])
	assert.Equal(t, 9, index["2025-04-18"])
}

func TestWorkingDays_SingleDay(t *testing.T) {
	days, index, err := WorkingDays(date(2025, time.April, 9), date(2025, time.April, 9))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-04-09"}, days)
	assert.Equal(t, map[string]int{"2025-04-09": 0}, index)
}

func TestWorkingDays_WeekendOnly(t *testing.T) {
	// Saturday and Sunday
	_, _, err := WorkingDays(date(2025, time.April, 12), date(2025, time.April, 13))
	assert.ErrorIs(t, err, ErrEmptyCalendar)
}

func TestWorkingDays_EndBeforeStart(t *testing.T) {
	_, _, err := WorkingDays(date(2025, time.April, 18), date(2025, time.April, 7))
	assert.ErrorIs(t, err, ErrEmptyCalendar)
}

func TestParse(t *testing.T) {
	got, err := Parse("2025-04-07")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.April, 7), got)

	_, err = Parse("07/04/2025")
	assert.Error(t, err)
}
