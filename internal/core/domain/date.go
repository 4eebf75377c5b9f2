package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire and storage format of a calendar date.
const DateLayout = "2006-01-02"

// Calendar dates are time.Time values pinned to 00:00 UTC. Wall-clock only:
// no time zone conversion ever happens.

// NewDate returns the date for the given year, month and day. Out-of-range
// values normalize the way time.Date does.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf drops the time-of-day and location of t, keeping its wall-clock date.
func DateOf(t time.Time) time.Time {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// AddDays moves a date by n calendar days.
func AddDays(d time.Time, n int) time.Time {
	return NewDate(d.Year(), d.Month(), d.Day()+n)
}

// FirstOfMonth returns the first day of the month containing d.
func FirstOfMonth(d time.Time) time.Time {
	return NewDate(d.Year(), d.Month(), 1)
}
