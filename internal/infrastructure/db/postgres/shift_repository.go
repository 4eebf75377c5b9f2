package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

type ShiftRepository struct {
	db *sqlx.DB
}

func NewShiftRepository(db *sqlx.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// shiftRow has dates and times rendered by Postgres as text, which keeps
// them free of session time zone handling.
type shiftRow struct {
	ID       string `db:"id"`
	UserID   string `db:"user_id"`
	Date     string `db:"shift_date"`
	Start    string `db:"start_time"`
	End      string `db:"end_time"`
	Username string `db:"username"`
	Role     string `db:"role"`
}

func (r shiftRow) toEntry() (domain.ShiftEntry, error) {
	date, err := domain.ParseDate(r.Date)
	if err != nil {
		return domain.ShiftEntry{}, err
	}
	tr, err := domain.ParseTimeRange(r.Start, r.End)
	if err != nil {
		return domain.ShiftEntry{}, err
	}
	return domain.ShiftEntry{
		Shift:    domain.Shift{ID: r.ID, UserID: r.UserID, Date: date, TimeRange: tr},
		Username: r.Username,
		Role:     r.Role,
	}, nil
}

const selectShifts = `
	SELECT s.id, s.user_id,
	       to_char(s.shift_date, 'YYYY-MM-DD') AS shift_date,
	       to_char(s.start_time, 'HH24:MI')    AS start_time,
	       to_char(s.end_time,   'HH24:MI')    AS end_time,
	       u.username, u.role
	FROM shifts s
	JOIN users u ON u.id = s.user_id`

const orderShifts = ` ORDER BY s.shift_date, s.start_time, s.user_id`

func (r *ShiftRepository) query(ctx context.Context, op, where string, args ...any) ([]domain.ShiftEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rows []shiftRow
	if err := r.db.SelectContext(ctx, &rows, selectShifts+` WHERE `+where+orderShifts, args...); err != nil {
		return nil, storeErr(op, err)
	}
	entries := make([]domain.ShiftEntry, 0, len(rows))
	for _, row := range rows {
		e, err := row.toEntry()
		if err != nil {
			return nil, storeErr(op, fmt.Errorf("decode shift %s: %w", row.ID, err))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *ShiftRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]domain.ShiftEntry, error) {
	return r.query(ctx, "find shifts by range",
		`s.shift_date >= $1::date AND s.shift_date < $2::date`,
		domain.FormatDate(start), domain.FormatDate(end))
}

func (r *ShiftRepository) FindByUserAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.ShiftEntry, error) {
	uid, ok := parseID(userID)
	if !ok {
		return []domain.ShiftEntry{}, nil
	}
	return r.query(ctx, "find user shifts",
		`s.user_id = $1 AND s.shift_date >= $2::date AND s.shift_date < $3::date`,
		uid, domain.FormatDate(start), domain.FormatDate(end))
}

func (r *ShiftRepository) FindByDate(ctx context.Context, date time.Time) ([]domain.ShiftEntry, error) {
	return r.query(ctx, "find shifts by date", `s.shift_date = $1::date`, domain.FormatDate(date))
}

func (r *ShiftRepository) FindByID(ctx context.Context, id string) (*domain.ShiftEntry, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, domain.ErrShiftNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row shiftRow
	if err := r.db.GetContext(ctx, &row, selectShifts+` WHERE s.id = $1`, n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrShiftNotFound
		}
		return nil, storeErr("find shift", err)
	}
	e, err := row.toEntry()
	if err != nil {
		return nil, storeErr("find shift", err)
	}
	return &e, nil
}

// Insert relies on UNIQUE (user_id, shift_date); a concurrent second booking
// for the same day fails with domain.ErrDuplicateShift.
func (r *ShiftRepository) Insert(ctx context.Context, shift domain.Shift) (*domain.Shift, error) {
	if err := shift.Validate(); err != nil {
		return nil, err
	}
	uid, ok := parseID(shift.UserID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUserNotFound, shift.UserID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var id string
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO shifts (user_id, shift_date, start_time, end_time)
		VALUES ($1, $2::date, $3::time, $4::time)
		RETURNING id`,
		uid, domain.FormatDate(shift.Date), shift.Start.String(), shift.End.String(),
	).Scan(&id)
	if err != nil {
		return nil, insertErr(err)
	}

	out := shift
	out.ID = id
	out.Date = domain.DateOf(shift.Date)
	return &out, nil
}

// insertErr translates constraint violations into domain errors.
func insertErr(err error) error {
	switch pqCode(err) {
	case codeUniqueViolation:
		return domain.ErrDuplicateShift
	case codeForeignKeyViolation:
		return domain.ErrUserNotFound
	}
	return storeErr("insert shift", err)
}

func (r *ShiftRepository) Delete(ctx context.Context, id string) (bool, error) {
	n, ok := parseID(id)
	if !ok {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM shifts WHERE id = $1`, n)
	if err != nil {
		return false, storeErr("delete shift", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, storeErr("delete shift", err)
	}
	return affected > 0, nil
}
