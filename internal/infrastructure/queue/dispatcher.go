package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/K17UN3/shift-manage/internal/core/ports"
	"github.com/K17UN3/shift-manage/internal/metrics"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 64
)

// RollupDispatcher routes rollup refreshes to a fixed set of workers using
// consistent hashing on the user ID, so refreshes for one user run in order.
type RollupDispatcher struct {
	workers   []chan ports.RollupRefresh
	refresher ports.RollupRefresher
	log       zerolog.Logger
	wg        sync.WaitGroup
}

// NewRollupDispatcher creates a dispatcher with numWorkers sharded workers,
// each buffering up to buffer jobs. Non-positive values use the defaults.
func NewRollupDispatcher(numWorkers, buffer int, refresher ports.RollupRefresher, log zerolog.Logger) *RollupDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &RollupDispatcher{
		workers:   make([]chan ports.RollupRefresh, numWorkers),
		refresher: refresher,
		log:       log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.RollupRefresh, buffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *RollupDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned after ctx cancellation.
func (d *RollupDispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands a refresh to the worker owning job.UserID. It never blocks:
// when that worker's buffer is full the job is dropped and the next read of
// the rollup recomputes it instead.
func (d *RollupDispatcher) Enqueue(job ports.RollupRefresh) {
	idx := d.shardIndex(job.UserID)
	select {
	case d.workers[idx] <- job:
		metrics.RollupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.RollupRefreshDroppedTotal.Inc()
		d.log.Warn().
			Str("user_id", job.UserID).
			Int("year", job.Year).
			Int("worker_id", idx).
			Msg("rollup queue full, refresh dropped")
	}
}

// shardIndex maps a user ID deterministically to a worker index.
func (d *RollupDispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *RollupDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.RollupRefresh) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-ch:
			metrics.RollupQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			err := d.refresher.RefreshRollup(ctx, job)
			result := "ok"
			if err != nil {
				result = "error"
				d.log.Error().Err(err).
					Str("user_id", job.UserID).
					Int("year", job.Year).
					Int("worker_id", id).
					Msg("rollup refresh failed")
			}
			metrics.RollupRefreshDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
		}
	}
}
