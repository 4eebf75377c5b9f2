package domain

import "time"

// Shift is a booked work period. Date is the day the shift starts; an
// overnight shift still belongs to that day even though work ends on the next.
// At most one shift exists per (UserID, Date).
type Shift struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Date   time.Time `json:"date"`
	TimeRange
}

// ShiftEntry is a shift joined with the owning user's display fields.
type ShiftEntry struct {
	Shift
	Username string `json:"username"`
	Role     string `json:"role"`
}

// EndsOn returns the calendar day on which the shift's work finishes.
func (s Shift) EndsOn() time.Time {
	if s.IsOvernight() {
		return AddDays(s.Date, 1)
	}
	return s.Date
}
