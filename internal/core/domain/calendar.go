package domain

import (
	"fmt"
	"iter"
	"strings"
	"time"
)

// CalendarWindow describes the month grid for one target month: whole weeks
// from the week containing the 1st through the week containing the last day.
type CalendarWindow struct {
	Year      int
	Month     time.Month
	WeekStart time.Weekday
}

// NewCalendarWindow returns the window for year/month with weeks beginning on weekStart.
func NewCalendarWindow(year int, month time.Month, weekStart time.Weekday) CalendarWindow {
	first := NewDate(year, month, 1)
	return CalendarWindow{Year: first.Year(), Month: first.Month(), WeekStart: weekStart % 7}
}

// MonthBounds returns the half-open interval [first of month, first of next month).
func (w CalendarWindow) MonthBounds() (time.Time, time.Time) {
	first := NewDate(w.Year, w.Month, 1)
	return first, first.AddDate(0, 1, 0)
}

// Contains reports whether d falls inside the target month.
func (w CalendarWindow) Contains(d time.Time) bool {
	start, end := w.MonthBounds()
	d = DateOf(d)
	return !d.Before(start) && d.Before(end)
}

// DisplayRange returns the first and last visible day, both inclusive.
func (w CalendarWindow) DisplayRange() (time.Time, time.Time) {
	start, next := w.MonthBounds()
	last := AddDays(next, -1)

	lead := (int(start.Weekday()) - int(w.WeekStart) + 7) % 7
	weekEnd := (w.WeekStart + 6) % 7
	trail := (int(weekEnd) - int(last.Weekday()) + 7) % 7

	return AddDays(start, -lead), AddDays(last, trail)
}

// Days yields every visible date in ascending order. The sequence can be
// ranged over any number of times.
func (w CalendarWindow) Days() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		first, last := w.DisplayRange()
		for d := first; !d.After(last); d = AddDays(d, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Weeks groups the visible days into rows of seven.
func (w CalendarWindow) Weeks() [][]time.Time {
	var weeks [][]time.Time
	var row []time.Time
	for d := range w.Days() {
		row = append(row, d)
		if len(row) == 7 {
			weeks = append(weeks, row)
			row = nil
		}
	}
	return weeks
}

// Previous returns the window of the month before.
func (w CalendarWindow) Previous() CalendarWindow {
	return NewCalendarWindow(w.Year, w.Month-1, w.WeekStart)
}

// Next returns the window of the month after.
func (w CalendarWindow) Next() CalendarWindow {
	return NewCalendarWindow(w.Year, w.Month+1, w.WeekStart)
}

// ParseWeekday accepts an English weekday name or its three-letter prefix.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
