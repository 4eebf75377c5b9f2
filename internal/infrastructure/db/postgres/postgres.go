// Package postgres is the SQL storage adapter: sqlx over lib/pq, with the
// schema managed by embedded golang-migrate migrations.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Postgres error codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type Config struct {
	URL          string
	MaxOpenConns int
	Timeout      time.Duration
}

// Store bundles the pool with the repositories built on it.
type Store struct {
	db *sqlx.DB

	Users  *UserRepository
	Shifts *ShiftRepository
}

// Connect opens a pool and verifies connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, Users: NewUserRepository(db), Shifts: NewShiftRepository(db)}, nil
}

// Ping is used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

// storeErr tags a driver failure with domain.ErrRepository.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrRepository, err)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// parseID reports whether id can be a BIGSERIAL key; other strings cannot
// match any row.
func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(id, 10, 64)
	return n, err == nil && n > 0
}
