// Package aggregate turns flat shift rows into display-ready structures:
// per-day groups, month and year totals and single-day rosters. Every
// function is pure and never fails; missing data yields zero or empty results.
package aggregate

import (
	"slices"
	"time"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

// MonthSummary is one month of a yearly rollup.
type MonthSummary struct {
	Month        time.Month `json:"month"`
	DaysWorked   int        `json:"days_worked"`
	TotalMinutes int        `json:"total_minutes"`
	TotalHours   float64    `json:"total_hours"`
}

// UserTotal is a user's hour sum over a window.
type UserTotal struct {
	UserID     string  `json:"user_id"`
	Username   string  `json:"username"`
	Role       string  `json:"role"`
	TotalHours float64 `json:"total_hours"`
}

// RosterEntry is a shift visible on a given day. FromPreviousDay marks an
// overnight shift booked on the day before that is still running.
type RosterEntry struct {
	domain.ShiftEntry
	FromPreviousDay bool `json:"from_previous_day"`
}

// RosterRow pairs a user with the entries they have on a day; Entries is
// empty (not nil) for users without work that day.
type RosterRow struct {
	User    domain.User   `json:"user"`
	Entries []RosterEntry `json:"entries"`
}

// Aggregator holds the role order used for every sort it performs.
type Aggregator struct {
	roles domain.RolePriority
}

func New(roles domain.RolePriority) *Aggregator {
	return &Aggregator{roles: roles}
}

// MonthlyTotalHours sums the durations of userID's shifts dated inside the
// window's month. No matching shifts gives 0.
func (a *Aggregator) MonthlyTotalHours(shifts []domain.ShiftEntry, userID string, window domain.CalendarWindow) float64 {
	start, end := window.MonthBounds()
	minutes := 0
	for _, s := range shifts {
		if s.UserID != userID || !inRange(s.Date, start, end) {
			continue
		}
		minutes += s.DurationMinutes()
	}
	return domain.RoundHours(minutes)
}

// MonthlyTotalsByUser returns one total per user that has at least one shift
// in the window's month, ordered by role priority then user ID.
func (a *Aggregator) MonthlyTotalsByUser(shifts []domain.ShiftEntry, window domain.CalendarWindow) []UserTotal {
	start, end := window.MonthBounds()
	minutes := make(map[string]int)
	byUser := make(map[string]UserTotal)
	for _, s := range shifts {
		if !inRange(s.Date, start, end) {
			continue
		}
		minutes[s.UserID] += s.DurationMinutes()
		if _, ok := byUser[s.UserID]; !ok {
			byUser[s.UserID] = UserTotal{UserID: s.UserID, Username: s.Username, Role: s.Role}
		}
	}

	totals := make([]UserTotal, 0, len(byUser))
	for id, t := range byUser {
		t.TotalHours = domain.RoundHours(minutes[id])
		totals = append(totals, t)
	}
	slices.SortFunc(totals, func(x, y UserTotal) int {
		if c := a.roles.Compare(x.Role, y.Role); c != 0 {
			return c
		}
		return domain.CompareIDs(x.UserID, y.UserID)
	})
	return totals
}

// GroupByDay maps each YYYY-MM-DD date to the shifts booked on it, ordered by
// role priority, then start time, then user ID. Days without shifts are absent.
func (a *Aggregator) GroupByDay(shifts []domain.ShiftEntry) map[string][]domain.ShiftEntry {
	groups := make(map[string][]domain.ShiftEntry)
	for _, s := range shifts {
		key := domain.FormatDate(s.Date)
		groups[key] = append(groups[key], s)
	}
	for _, day := range groups {
		slices.SortStableFunc(day, a.compareEntries)
	}
	return groups
}

// YearlyRollup summarises shifts dated in year per month. An overnight shift
// counts toward the month of the day it started, even when it ends in the next.
func (a *Aggregator) YearlyRollup(shifts []domain.ShiftEntry, year int) [12]MonthSummary {
	var minutes [12]int
	var days [12]map[string]struct{}
	for _, s := range shifts {
		if s.Date.Year() != year {
			continue
		}
		m := int(s.Date.Month()) - 1
		minutes[m] += s.DurationMinutes()
		if days[m] == nil {
			days[m] = make(map[string]struct{})
		}
		days[m][domain.FormatDate(s.Date)] = struct{}{}
	}

	var out [12]MonthSummary
	for i := range out {
		out[i] = MonthSummary{
			Month:        time.Month(i + 1),
			DaysWorked:   len(days[i]),
			TotalMinutes: minutes[i],
			TotalHours:   domain.RoundHours(minutes[i]),
		}
	}
	return out
}

// DayDetail returns the shifts booked on target plus the overnight shifts
// booked the day before, which are still running on target. Entries are
// ordered by role priority, then start time, then user ID.
func (a *Aggregator) DayDetail(shifts []domain.ShiftEntry, target time.Time) []RosterEntry {
	target = domain.DateOf(target)
	prev := domain.AddDays(target, -1)

	var entries []RosterEntry
	for _, s := range shifts {
		d := domain.DateOf(s.Date)
		switch {
		case d.Equal(target):
			entries = append(entries, RosterEntry{ShiftEntry: s})
		case d.Equal(prev) && s.IsOvernight():
			entries = append(entries, RosterEntry{ShiftEntry: s, FromPreviousDay: true})
		}
	}
	slices.SortStableFunc(entries, func(x, y RosterEntry) int {
		if c := a.compareEntries(x.ShiftEntry, y.ShiftEntry); c != 0 {
			return c
		}
		// carry-over from yesterday before today's booking for the same user
		switch {
		case x.FromPreviousDay && !y.FromPreviousDay:
			return -1
		case !x.FromPreviousDay && y.FromPreviousDay:
			return 1
		}
		return 0
	})
	return entries
}

// Roster lays DayDetail entries out per user: every user appears once, in
// role priority then ID order, with whatever entries they have that day.
func (a *Aggregator) Roster(users []domain.User, entries []RosterEntry) []RosterRow {
	ordered := slices.Clone(users)
	a.roles.SortUsers(ordered)

	byUser := make(map[string][]RosterEntry, len(entries))
	for _, e := range entries {
		byUser[e.UserID] = append(byUser[e.UserID], e)
	}

	rows := make([]RosterRow, 0, len(ordered))
	for _, u := range ordered {
		es := byUser[u.ID]
		if es == nil {
			es = []RosterEntry{}
		}
		rows = append(rows, RosterRow{User: u, Entries: es})
	}
	return rows
}

// ByDate orders shifts by date, then start time.
func ByDate(shifts []domain.ShiftEntry) {
	slices.SortStableFunc(shifts, func(x, y domain.ShiftEntry) int {
		if c := x.Date.Compare(y.Date); c != 0 {
			return c
		}
		return int(x.Start) - int(y.Start)
	})
}

func (a *Aggregator) compareEntries(x, y domain.ShiftEntry) int {
	if c := a.roles.Compare(x.Role, y.Role); c != 0 {
		return c
	}
	if x.Start != y.Start {
		return int(x.Start) - int(y.Start)
	}
	return domain.CompareIDs(x.UserID, y.UserID)
}

func inRange(d, start, end time.Time) bool {
	d = domain.DateOf(d)
	return !d.Before(start) && d.Before(end)
}
