package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/K17UN3/shift-manage/internal/core/aggregate"
	"github.com/K17UN3/shift-manage/internal/core/domain"
	"github.com/K17UN3/shift-manage/internal/core/ports"
	"github.com/K17UN3/shift-manage/pkg/clock"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	nextID  int
	listErr error
	// shifts receives cascaded deletes.
	shifts *stubShiftRepo
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func (r *stubUserRepo) seed(username, role string, admin bool) domain.User {
	u, _ := r.Create(context.Background(), &domain.User{Username: username, Role: role, Admin: admin})
	return *u
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	users := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, *u)
	}
	return users, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	clone := *user
	clone.ID = strconv.Itoa(r.nextID)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	if r.shifts != nil {
		r.shifts.deleteUser(id)
	}
	return true, nil
}

type stubShiftRepo struct {
	mu        sync.Mutex
	users     *stubUserRepo
	rows      map[string]domain.Shift
	nextID    int
	insertErr error
	findErr   error
	// rangeCalls counts read queries so cache tests can assert on them.
	rangeCalls int
	// afterUserRange runs once, after the next per-user range read has
	// taken its snapshot and before it returns.
	afterUserRange func()
}

func newStubShiftRepo(users *stubUserRepo) *stubShiftRepo {
	r := &stubShiftRepo{users: users, rows: make(map[string]domain.Shift)}
	users.shifts = r
	return r
}

// seed stores a shift directly, bypassing the service.
func (r *stubShiftRepo) seed(userID, date, start, end string) domain.Shift {
	d, err := domain.ParseDate(date)
	if err != nil {
		panic(err)
	}
	s, err := r.Insert(context.Background(), domain.Shift{
		UserID: userID,
		Date:   d,
		TimeRange: domain.TimeRange{
			Start: domain.MustParseClock(start),
			End:   domain.MustParseClock(end),
		},
	})
	if err != nil {
		panic(err)
	}
	return *s
}

func (r *stubShiftRepo) join(s domain.Shift) domain.ShiftEntry {
	e := domain.ShiftEntry{Shift: s}
	if u, ok := r.users.byID[s.UserID]; ok {
		e.Username = u.Username
		e.Role = u.Role
	}
	return e
}

func (r *stubShiftRepo) filter(keep func(domain.Shift) bool) ([]domain.ShiftEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rangeCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	var out []domain.ShiftEntry
	for _, s := range r.rows {
		if keep(s) {
			out = append(out, r.join(s))
		}
	}
	return out, nil
}

func within(d, start, end time.Time) bool {
	return !d.Before(start) && d.Before(end)
}

func (r *stubShiftRepo) FindByDateRange(_ context.Context, start, end time.Time) ([]domain.ShiftEntry, error) {
	return r.filter(func(s domain.Shift) bool { return within(s.Date, start, end) })
}

func (r *stubShiftRepo) FindByUserAndDateRange(_ context.Context, userID string, start, end time.Time) ([]domain.ShiftEntry, error) {
	out, err := r.filter(func(s domain.Shift) bool { return s.UserID == userID && within(s.Date, start, end) })
	r.mu.Lock()
	hook := r.afterUserRange
	r.afterUserRange = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
	return out, err
}

func (r *stubShiftRepo) FindByDate(_ context.Context, date time.Time) ([]domain.ShiftEntry, error) {
	return r.filter(func(s domain.Shift) bool { return s.Date.Equal(date) })
}

func (r *stubShiftRepo) FindByID(_ context.Context, id string) (*domain.ShiftEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrShiftNotFound
	}
	e := r.join(s)
	return &e, nil
}

// Insert mirrors the unique (user_id, date) index of the real stores.
func (r *stubShiftRepo) Insert(_ context.Context, shift domain.Shift) (*domain.Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	for _, s := range r.rows {
		if s.UserID == shift.UserID && s.Date.Equal(shift.Date) {
			return nil, domain.ErrDuplicateShift
		}
	}
	r.nextID++
	shift.ID = strconv.Itoa(r.nextID)
	r.rows[shift.ID] = shift
	out := shift
	return &out, nil
}

func (r *stubShiftRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return false, nil
	}
	delete(r.rows, id)
	return true, nil
}

func (r *stubShiftRepo) deleteUser(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.rows {
		if s.UserID == userID {
			delete(r.rows, id)
		}
	}
}

func (r *stubShiftRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type stubCache struct {
	mu          sync.Mutex
	entries     map[string][12]aggregate.MonthSummary
	getErr      error
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][12]aggregate.MonthSummary)}
}

func cacheKey(userID string, year int) string {
	return userID + ":" + strconv.Itoa(year)
}

func (c *stubCache) GetRollup(_ context.Context, userID string, year int) (*[12]aggregate.MonthSummary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	m, ok := c.entries[cacheKey(userID, year)]
	if !ok {
		return nil, false, nil
	}
	return &m, true, nil
}

func (c *stubCache) SetRollup(_ context.Context, userID string, year int, months [12]aggregate.MonthSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(userID, year)] = months
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, userID string, year int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := cacheKey(userID, year)
	delete(c.entries, key)
	c.invalidated = append(c.invalidated, key)
	return nil
}

func (c *stubCache) InvalidateUser(_ context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := userID + ":"
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			c.invalidated = append(c.invalidated, key)
		}
	}
	return nil
}

type stubQueue struct {
	jobs []ports.RollupRefresh
}

func (q *stubQueue) Enqueue(job ports.RollupRefresh) {
	q.jobs = append(q.jobs, job)
}

// drain runs queued refreshes in order, the way one dispatcher shard would.
func (q *stubQueue) drain(t *testing.T, r ports.RollupRefresher) {
	t.Helper()
	for len(q.jobs) > 0 {
		job := q.jobs[0]
		q.jobs = q.jobs[1:]
		if err := r.RefreshRollup(context.Background(), job); err != nil {
			t.Fatalf("refresh %+v: %v", job, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

// fixedNow is Monday 2025-03-10, 09:00.
var fixedNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

type fixture struct {
	users  *stubUserRepo
	shifts *stubShiftRepo
	cache  *stubCache
	svc    *ShiftService

	admin, sato, kato, ito domain.User
}

func newFixture(withCache bool) *fixture {
	f := &fixture{users: newStubUserRepo()}
	f.shifts = newStubShiftRepo(f.users)

	f.admin = f.users.seed("admin", domain.RoleEmployee, true)
	f.sato = f.users.seed("sato", domain.RoleEmployee, false)
	f.kato = f.users.seed("kato", domain.RolePartTime, false)
	f.ito = f.users.seed("ito", domain.RoleTemporary, false)

	opts := ShiftOptions{Clock: clock.Fixed(fixedNow), WeekStart: time.Sunday}
	if withCache {
		f.cache = newStubCache()
		opts.Cache = f.cache
	}
	f.svc = NewShiftService(f.shifts, f.users, opts, discardLogger)
	return f
}

func callerFor(u domain.User) domain.Caller {
	return domain.Caller{UserID: u.ID, Role: u.Role, Admin: u.Admin}
}
