package ports

import (
	"context"
	"time"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

// ShiftRepository defines persistence operations for shifts. Read queries
// return rows joined with the owning user's username and role.
//
// Range queries are half-open: start <= date < end. Storage enforces one
// shift per (user, date) and reports a violation as domain.ErrDuplicateShift.
// Any other failure wraps domain.ErrRepository.
type ShiftRepository interface {
	FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.ShiftEntry, error)
	FindByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.ShiftEntry, error)
	FindByDate(ctx context.Context, date time.Time) ([]domain.ShiftEntry, error)
	// FindByID returns domain.ErrShiftNotFound when no shift has the id.
	FindByID(ctx context.Context, id string) (*domain.ShiftEntry, error)
	// Insert stores a new shift and returns it with its server-assigned ID.
	Insert(ctx context.Context, shift domain.Shift) (*domain.Shift, error)
	// Delete removes a shift and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)
}
