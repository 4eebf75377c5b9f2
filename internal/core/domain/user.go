package domain

import "time"

// Employment categories. Their display order lives in RolePriority.
const (
	RoleEmployee  = "employee"
	RolePartTime  = "part_time"
	RoleTemporary = "temporary"
)

// User is a staff member who can own shifts.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Caller identifies who is invoking a use case. It is derived from the
// authentication token by the transport layer and passed explicitly.
type Caller struct {
	UserID string
	Role   string
	Admin  bool
}

// CanActFor reports whether the caller may read or write data owned by userID.
func (c Caller) CanActFor(userID string) bool {
	return c.Admin || (c.UserID != "" && c.UserID == userID)
}
