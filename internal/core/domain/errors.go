package domain

import "errors"

// Shift errors.
var (
	ErrInvalidRange   = errors.New("invalid time range")
	ErrInvalidDate    = errors.New("invalid date")
	ErrDuplicateShift = errors.New("shift already registered for this day")
	ErrShiftNotFound  = errors.New("shift not found")
)

// User and access errors.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
)

// ErrRepository marks an opaque storage failure. Adapters wrap driver errors
// with it so callers can tell I/O failures apart from domain outcomes.
var ErrRepository = errors.New("repository failure")
