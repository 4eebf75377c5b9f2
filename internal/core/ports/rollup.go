package ports

import (
	"context"

	"github.com/K17UN3/shift-manage/internal/core/aggregate"
)

// RollupRefresh asks for one user's yearly rollup to be recomputed.
type RollupRefresh struct {
	UserID string
	Year   int
}

// RollupRefresher recomputes a cached rollup.
type RollupRefresher interface {
	RefreshRollup(ctx context.Context, job RollupRefresh) error
}

// RollupQueue schedules refreshes in the background.
type RollupQueue interface {
	Enqueue(job RollupRefresh)
}

// SummaryCache stores yearly rollups. A miss is (nil, false, nil).
type SummaryCache interface {
	GetRollup(ctx context.Context, userID string, year int) (*[12]aggregate.MonthSummary, bool, error)
	SetRollup(ctx context.Context, userID string, year int, months [12]aggregate.MonthSummary) error
	Invalidate(ctx context.Context, userID string, year int) error
	// InvalidateUser drops every cached year of userID.
	InvalidateUser(ctx context.Context, userID string) error
}
