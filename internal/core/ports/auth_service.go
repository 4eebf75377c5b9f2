package ports

import (
	"context"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

// AuthService issues access tokens.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Bootstrap creates the initial administrator unless the username exists.
	Bootstrap(ctx context.Context, username, password string) (*domain.User, bool, error)
}

// CreateUserInput carries a new staff account.
type CreateUserInput struct {
	Username string
	Password string
	Role     string
	Admin    bool
}

// UserService is the administrator's staff management.
type UserService interface {
	List(ctx context.Context, caller domain.Caller) ([]domain.User, error)
	Create(ctx context.Context, caller domain.Caller, input CreateUserInput) (*domain.User, error)
	Delete(ctx context.Context, caller domain.Caller, userID string) error
}
