package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	Admin        bool      `db:"admin"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Username:     r.Username,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		Admin:        r.Admin,
		CreatedAt:    r.CreatedAt.UTC(),
	}
}

const userColumns = `id, username, password_hash, role, admin, created_at`

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, storeErr("list users", err)
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, n)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) get(ctx context.Context, query string, arg any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storeErr("find user", err)
	}
	u := row.toDomain()
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created := user.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	query := `
		INSERT INTO users (username, password_hash, role, admin, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns
	var row userRow
	err := r.db.GetContext(ctx, &row, query, user.Username, user.PasswordHash, user.Role, user.Admin, created)
	if err != nil {
		if pqCode(err) == codeUniqueViolation {
			return nil, domain.ErrUserExists
		}
		return nil, storeErr("insert user", err)
	}
	u := row.toDomain()
	return &u, nil
}

// Delete removes the user; ON DELETE CASCADE removes their shifts.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, ok := parseID(id)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, n)
	if err != nil {
		return false, storeErr("delete user", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("delete user", err)
	}
	return affected > 0, nil
}
