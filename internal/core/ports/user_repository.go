package ports

import (
	"context"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

// UserRepository defines persistence operations for staff accounts.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Create returns domain.ErrUserExists when the username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Delete removes the user together with all of their shifts and reports
	// whether the user existed.
	Delete(ctx context.Context, id string) (bool, error)
}
