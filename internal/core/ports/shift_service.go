package ports

import (
	"context"
	"time"

	"github.com/K17UN3/shift-manage/internal/core/aggregate"
	"github.com/K17UN3/shift-manage/internal/core/domain"
)

// RegisterShiftInput carries a new booking. UserID may be empty, meaning the
// caller books for themselves. Date is YYYY-MM-DD, Start/End are HH:MM.
type RegisterShiftInput struct {
	UserID string
	Date   string
	Start  string
	End    string
}

// HomeSummary is the landing view for a signed-in user.
type HomeSummary struct {
	Today              time.Time
	PreviousMonthHours float64
	CurrentMonthHours  float64
	// SubmissionDeadline is the 5th of the month after the current one.
	SubmissionDeadline time.Time
}

// RegisterForm lists one user's bookings for a month.
type RegisterForm struct {
	UserID     string
	Year       int
	Month      time.Month
	TotalHours float64
	Shifts     []domain.ShiftEntry
}

// CalendarDay is one cell of the month grid.
type CalendarDay struct {
	Date    time.Time
	InMonth bool
	Today   bool
	Entries []domain.ShiftEntry
}

// MonthView is the full calendar page for a month.
type MonthView struct {
	Year         int
	Month        time.Month
	DisplayStart time.Time
	DisplayEnd   time.Time
	Weeks        [][]CalendarDay
	Totals       []aggregate.UserTotal
}

// DayView shows who works on a date, including night shifts still running
// from the day before.
type DayView struct {
	Date    time.Time
	Entries []aggregate.RosterEntry
	Roster  []aggregate.RosterRow
}

// YearView is one user's per-month rollup for a year.
type YearView struct {
	UserID     string
	Year       int
	Months     [12]aggregate.MonthSummary
	TotalHours float64
	DaysWorked int
}

// ShiftService defines the shift use cases. Zero year/month arguments mean
// "the current one" according to the service clock.
type ShiftService interface {
	Home(ctx context.Context, caller domain.Caller) (*HomeSummary, error)
	RegisterForm(ctx context.Context, caller domain.Caller, userID string, year int, month time.Month) (*RegisterForm, error)
	Register(ctx context.Context, caller domain.Caller, input RegisterShiftInput) (*domain.Shift, error)
	Delete(ctx context.Context, caller domain.Caller, shiftID string) error
	Month(ctx context.Context, caller domain.Caller, year int, month time.Month) (*MonthView, error)
	Day(ctx context.Context, caller domain.Caller, date string) (*DayView, error)
	Year(ctx context.Context, caller domain.Caller, userID string, year int) (*YearView, error)
}
