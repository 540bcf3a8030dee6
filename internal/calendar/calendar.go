// Package calendar resolves sprint date ranges into working-day timelines.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ISO is the date layout used for working-day keys throughout the planner.
const ISO = "2006-01-02"

// ErrEmptyCalendar is returned when a sprint range contains no working day.
var ErrEmptyCalendar = errors.New("no working days in sprint range")

// WorkingDays returns the ordered Monday-Friday dates between start and end
// inclusive, as ISO strings, plus a dense day -> position index. The index
// order defines the sprint timeline used by precedence constraints.
func WorkingDays(start, end time.Time) ([]string, map[string]int, error) {
	start = truncate(start)
	end = truncate(end)
	if end.Before(start) {
		return nil, nil, fmt.Errorf("sprint end %s before start %s: %w", end.Format(ISO), start.Format(ISO), ErrEmptyCalendar)
	}

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		default:
			days = append(days, d.Format(ISO))
		}
	}
	if len(days) == 0 {
		return nil, nil, fmt.Errorf("range %s..%s: %w", start.Format(ISO), end.Format(ISO), ErrEmptyCalendar)
	}

	index := make(map[string]int, len(days))
	for i, day := range days {
		index[day] = i
	}
	return days, index, nil
}

// Parse parses an ISO date string.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(ISO, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
