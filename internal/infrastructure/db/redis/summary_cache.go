package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/K17UN3/shift-manage/internal/core/aggregate"
)

const (
	defaultSummaryTTL = time.Hour
	scanBatch         = 100
)

// SummaryCache keeps yearly rollups in Redis as JSON.
// Key format: summary:<user_id>:<year>
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache wraps client; a non-positive ttl falls back to one hour.
func NewSummaryCache(client *redis.Client, ttl time.Duration) *SummaryCache {
	if ttl <= 0 {
		ttl = defaultSummaryTTL
	}
	return &SummaryCache{client: client, ttl: ttl}
}

func (c *SummaryCache) GetRollup(ctx context.Context, userID string, year int) (*[12]aggregate.MonthSummary, bool, error) {
	raw, err := c.client.Get(ctx, summaryKey(userID, year)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("summary get: %w", err)
	}
	months, err := decodeRollup(raw)
	if err != nil {
		return nil, false, err
	}
	return months, true, nil
}

func (c *SummaryCache) SetRollup(ctx context.Context, userID string, year int, months [12]aggregate.MonthSummary) error {
	raw, err := json.Marshal(months)
	if err != nil {
		return fmt.Errorf("summary encode: %w", err)
	}
	if err := c.client.Set(ctx, summaryKey(userID, year), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("summary set: %w", err)
	}
	return nil
}

func (c *SummaryCache) Invalidate(ctx context.Context, userID string, year int) error {
	if err := c.client.Del(ctx, summaryKey(userID, year)).Err(); err != nil {
		return fmt.Errorf("summary invalidate: %w", err)
	}
	return nil
}

// InvalidateUser deletes every summary:<user_id>:* key, scanning in batches.
func (c *SummaryCache) InvalidateUser(ctx context.Context, userID string) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, userPattern(userID), scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("summary scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("summary invalidate user: %w", err)
	}
	return nil
}

// Ping is used by the readiness probe.
func (c *SummaryCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func userPattern(userID string) string {
	return "summary:" + userID + ":*"
}

func summaryKey(userID string, year int) string {
	return fmt.Sprintf("summary:%s:%d", userID, year)
}

func decodeRollup(raw []byte) (*[12]aggregate.MonthSummary, error) {
	var months [12]aggregate.MonthSummary
	if err := json.Unmarshal(raw, &months); err != nil {
		return nil, fmt.Errorf("summary decode: %w", err)
	}
	for i, m := range months {
		if int(m.Month) != i+1 {
			return nil, fmt.Errorf("summary decode: slot %d holds month %d", i, m.Month)
		}
	}
	return &months, nil
}
