// Package term maps week-of-term numbers to calendar dates. The calendar
// is an injected read-only dependency so tests can supply synthetic terms.
package term

import (
	"fmt"
	"time"
)

const week = 7 * 24 * time.Hour

// Calendar describes one academic term: the Monday of week 1 and the
// number of weeks the term runs for.
type Calendar struct {
	start time.Time
	weeks int
}

func NewCalendar(start time.Time, weeks int) (Calendar, error) {
	if weeks < 1 {
		return Calendar{}, fmt.Errorf("term must have at least one week, got %d", weeks)
	}
	start = start.UTC()
	if start.Weekday() != time.Monday {
		return Calendar{}, fmt.Errorf("term must start on a Monday, got %s", start.Weekday())
	}
	return Calendar{start: start, weeks: weeks}, nil
}

// Weeks returns the declared term length.
func (c Calendar) Weeks() int {
	return c.weeks
}

// Contains reports whether n is a valid week number for this term.
func (c Calendar) Contains(n int) bool {
	return n >= 1 && n <= c.weeks
}

// WeekStart returns the Monday starting week n. The week number is not
// range-checked; callers filter with Contains first.
func (c Calendar) WeekStart(n int) time.Time {
	return c.start.Add(time.Duration(n-1) * week)
}

// WeekOf returns the week-of-term number containing t, or 0 when t falls
// outside the term.
func (c Calendar) WeekOf(t time.Time) int {
	d := t.UTC().Sub(c.start)
	if d < 0 {
		return 0
	}
	n := int(d/week) + 1
	if n > c.weeks {
		return 0
	}
	return n
}

// Window returns the full extent of the term, from the Monday of week 1
// to the Monday after the final week. Subscription feeds default to this
// range so calendar clients see the whole term at once.
func (c Calendar) Window() (time.Time, time.Time) {
	return c.start, c.start.Add(time.Duration(c.weeks) * week)
}

// WeekWindow returns the Monday 00:00 UTC to next Monday 00:00 UTC range
// containing t, used as the default query window.
func WeekWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -daysSinceMonday)
	return monday, monday.AddDate(0, 0, 7)
}
