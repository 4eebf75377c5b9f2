package handler

import "time"

// --- Requests ---

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerShiftRequest struct {
	// UserID is optional; administrators set it to book for someone else.
	UserID string `json:"user_id"`
	Date   string `json:"date"  validate:"required,date"`
	Start  string `json:"start" validate:"required,clock"`
	End    string `json:"end"   validate:"required,clock"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,role"`
	Admin    bool   `json:"admin"`
}

// --- Responses ---

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type authResponse struct {
	Token string        `json:"token"`
	User  *userResponse `json:"user"`
}

type shiftResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Username  string  `json:"username,omitempty"`
	Role      string  `json:"role,omitempty"`
	Date      string  `json:"date"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Overnight bool    `json:"overnight"`
	Hours     float64 `json:"hours"`
}

type homeResponse struct {
	Today              string  `json:"today"`
	PreviousMonthHours float64 `json:"previous_month_hours"`
	CurrentMonthHours  float64 `json:"current_month_hours"`
	SubmissionDeadline string  `json:"submission_deadline"`
}

type registerFormResponse struct {
	UserID     string          `json:"user_id"`
	Year       int             `json:"year"`
	Month      int             `json:"month"`
	TotalHours float64         `json:"total_hours"`
	Shifts     []shiftResponse `json:"shifts"`
}

type calendarDayResponse struct {
	Date    string          `json:"date"`
	InMonth bool            `json:"in_month"`
	Today   bool            `json:"today"`
	Entries []shiftResponse `json:"entries"`
}

type userTotalResponse struct {
	UserID     string  `json:"user_id"`
	Username   string  `json:"username"`
	Role       string  `json:"role"`
	TotalHours float64 `json:"total_hours"`
}

type monthResponse struct {
	Year         int                     `json:"year"`
	Month        int                     `json:"month"`
	DisplayStart string                  `json:"display_start"`
	DisplayEnd   string                  `json:"display_end"`
	Weeks        [][]calendarDayResponse `json:"weeks"`
	Totals       []userTotalResponse     `json:"totals"`
}

type rosterEntryResponse struct {
	shiftResponse
	FromPreviousDay bool `json:"from_previous_day"`
}

type rosterRowResponse struct {
	User    userResponse          `json:"user"`
	Entries []rosterEntryResponse `json:"entries"`
}

type dayResponse struct {
	Date    string                `json:"date"`
	Entries []rosterEntryResponse `json:"entries"`
	Roster  []rosterRowResponse   `json:"roster"`
}

type monthSummaryResponse struct {
	Month      int     `json:"month"`
	DaysWorked int     `json:"days_worked"`
	TotalHours float64 `json:"total_hours"`
}

type yearResponse struct {
	UserID     string                 `json:"user_id"`
	Year       int                    `json:"year"`
	Months     []monthSummaryResponse `json:"months"`
	TotalHours float64                `json:"total_hours"`
	DaysWorked int                    `json:"days_worked"`
}
