package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/K17UN3/shift-manage/internal/core/ports"
)

type recordingRefresher struct {
	mu   sync.Mutex
	jobs []ports.RollupRefresh
	done chan struct{}
	err  error
}

func (r *recordingRefresher) RefreshRollup(_ context.Context, job ports.RollupRefresh) error {
	r.mu.Lock()
	r.jobs = append(r.jobs, job)
	r.mu.Unlock()
	r.done <- struct{}{}
	return r.err
}

func (r *recordingRefresher) snapshot() []ports.RollupRefresh {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ports.RollupRefresh(nil), r.jobs...)
}

func waitFor(t *testing.T, done <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d refreshes", i, n)
		}
	}
}

func TestRollupDispatcher_PerUserOrder(t *testing.T) {
	ref := &recordingRefresher{done: make(chan struct{}, 16)}
	d := NewRollupDispatcher(3, 16, ref, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for year := 2020; year < 2025; year++ {
		d.Enqueue(ports.RollupRefresh{UserID: "u-1", Year: year})
	}
	waitFor(t, ref.done, 5)
	cancel()
	d.Wait()

	got := ref.snapshot()
	for i, job := range got {
		if job.Year != 2020+i {
			t.Fatalf("expected ordered years, got %+v", got)
		}
	}
}

func TestRollupDispatcher_ShardIsStable(t *testing.T) {
	d := NewRollupDispatcher(5, 1, &recordingRefresher{}, zerolog.Nop())
	for _, id := range []string{"1", "42", "65f0c0ffee0123456789abcd"} {
		first := d.shardIndex(id)
		if first < 0 || first >= 5 {
			t.Fatalf("shard %d out of range", first)
		}
		if again := d.shardIndex(id); again != first {
			t.Fatalf("shard for %q moved from %d to %d", id, first, again)
		}
	}
}

func TestRollupDispatcher_DropsWhenFull(t *testing.T) {
	ref := &recordingRefresher{done: make(chan struct{}, 4)}
	d := NewRollupDispatcher(1, 1, ref, zerolog.Nop())

	// Not started: the single buffer slot fills and the rest are dropped.
	d.Enqueue(ports.RollupRefresh{UserID: "a", Year: 2025})
	d.Enqueue(ports.RollupRefresh{UserID: "b", Year: 2025})
	d.Enqueue(ports.RollupRefresh{UserID: "c", Year: 2025})

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	waitFor(t, ref.done, 1)
	cancel()
	d.Wait()

	got := ref.snapshot()
	if len(got) != 1 || got[0].UserID != "a" {
		t.Fatalf("expected only the first job, got %+v", got)
	}
}

func TestRollupDispatcher_ErrorsDoNotStopWorker(t *testing.T) {
	ref := &recordingRefresher{done: make(chan struct{}, 4), err: errors.New("boom")}
	d := NewRollupDispatcher(1, 4, ref, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	d.Enqueue(ports.RollupRefresh{UserID: "a", Year: 2024})
	d.Enqueue(ports.RollupRefresh{UserID: "a", Year: 2025})
	waitFor(t, ref.done, 2)
	cancel()
	d.Wait()

	if n := len(ref.snapshot()); n != 2 {
		t.Fatalf("expected 2 attempts, got %d", n)
	}
}
