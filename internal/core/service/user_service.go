package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/K17UN3/shift-manage/internal/core/domain"
	"github.com/K17UN3/shift-manage/internal/core/ports"
)

// UserService is staff management for administrators.
type UserService struct {
	repo   ports.UserRepository
	roles  domain.RolePriority
	cache  ports.SummaryCache
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, roles domain.RolePriority, logger zerolog.Logger) *UserService {
	if len(roles.Roles()) == 0 {
		roles = domain.DefaultRolePriority
	}
	return &UserService{repo: repo, roles: roles, logger: logger}
}

// UseSummaryCache makes Delete drop the removed user's cached rollups.
func (s *UserService) UseSummaryCache(c ports.SummaryCache) {
	s.cache = c
}

// List returns every user ordered by role priority, then ID.
func (s *UserService) List(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	if !caller.Admin {
		return nil, domain.ErrForbidden
	}
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, repoErr("list users", err)
	}
	s.roles.SortUsers(users)
	return users, nil
}

// Create adds a staff account with a bcrypt-hashed password.
func (s *UserService) Create(ctx context.Context, caller domain.Caller, in ports.CreateUserInput) (*domain.User, error) {
	if !caller.Admin {
		return nil, domain.ErrForbidden
	}
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !s.roles.Known(in.Role) {
		return nil, domain.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         in.Role,
		Admin:        in.Admin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, repoErr("create user", err)
	}

	s.logger.Info().Str("user_id", created.ID).Str("username", username).Str("role", in.Role).Msg("user created")
	return created, nil
}

// Delete removes a user and, through storage, all of their shifts.
// Administrators cannot delete their own account.
func (s *UserService) Delete(ctx context.Context, caller domain.Caller, userID string) error {
	if !caller.Admin || caller.UserID == userID {
		return domain.ErrForbidden
	}
	ok, err := s.repo.Delete(ctx, userID)
	if err != nil {
		return repoErr("delete user", err)
	}
	if !ok {
		return domain.ErrUserNotFound
	}
	if s.cache != nil {
		if err := s.cache.InvalidateUser(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("rollup cache invalidation failed")
		}
	}
	s.logger.Info().Str("user_id", userID).Str("caller_id", caller.UserID).Msg("user deleted")
	return nil
}
