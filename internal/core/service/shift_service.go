package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/K17UN3/shift-manage/internal/core/aggregate"
	"github.com/K17UN3/shift-manage/internal/core/domain"
	"github.com/K17UN3/shift-manage/internal/core/ports"
	"github.com/K17UN3/shift-manage/internal/metrics"
	"github.com/K17UN3/shift-manage/pkg/clock"
)

// deadlineDay is the day of the following month by which next month's
// shifts must be submitted.
const deadlineDay = 5

// ShiftOptions tunes a ShiftService. Zero values fall back to defaults.
type ShiftOptions struct {
	Roles     domain.RolePriority
	WeekStart time.Weekday
	Clock     clock.Clock
	// Cache is optional; without it yearly rollups are always recomputed.
	Cache ports.SummaryCache
}

type ShiftService struct {
	shifts    ports.ShiftRepository
	users     ports.UserRepository
	cache     ports.SummaryCache
	queue     ports.RollupQueue
	agg       *aggregate.Aggregator
	clock     clock.Clock
	weekStart time.Weekday
	logger    zerolog.Logger
}

func NewShiftService(shifts ports.ShiftRepository, users ports.UserRepository, opts ShiftOptions, logger zerolog.Logger) *ShiftService {
	roles := opts.Roles
	if len(roles.Roles()) == 0 {
		roles = domain.DefaultRolePriority
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.System
	}
	return &ShiftService{
		shifts:    shifts,
		users:     users,
		cache:     opts.Cache,
		agg:       aggregate.New(roles),
		clock:     clk,
		weekStart: opts.WeekStart,
		logger:    logger,
	}
}

// UseRollupQueue makes writes schedule a background rollup refresh. The
// queue usually wraps this service, hence the setter.
func (s *ShiftService) UseRollupQueue(q ports.RollupQueue) {
	s.queue = q
}

// Home returns the caller's hours for the previous and current month and the
// submission deadline for next month's shifts.
func (s *ShiftService) Home(ctx context.Context, caller domain.Caller) (*ports.HomeSummary, error) {
	if caller.UserID == "" {
		return nil, domain.ErrForbidden
	}

	today := s.today()
	cur := domain.NewCalendarWindow(today.Year(), today.Month(), s.weekStart)
	prev := cur.Previous()

	from, _ := prev.MonthBounds()
	_, to := cur.MonthBounds()
	shifts, err := s.shifts.FindByUserAndDateRange(ctx, caller.UserID, from, to)
	if err != nil {
		return nil, repoErr("home", err)
	}

	return &ports.HomeSummary{
		Today:              today,
		PreviousMonthHours: s.agg.MonthlyTotalHours(shifts, caller.UserID, prev),
		CurrentMonthHours:  s.agg.MonthlyTotalHours(shifts, caller.UserID, cur),
		SubmissionDeadline: domain.NewDate(today.Year(), today.Month()+1, deadlineDay),
	}, nil
}

// RegisterForm lists userID's shifts for a month in date order. An empty
// userID means the caller.
func (s *ShiftService) RegisterForm(ctx context.Context, caller domain.Caller, userID string, year int, month time.Month) (*ports.RegisterForm, error) {
	if userID == "" {
		userID = caller.UserID
	}
	if !caller.CanActFor(userID) {
		return nil, domain.ErrForbidden
	}

	w := s.window(year, month)
	from, to := w.MonthBounds()
	shifts, err := s.shifts.FindByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, repoErr("register form", err)
	}
	aggregate.ByDate(shifts)

	return &ports.RegisterForm{
		UserID:     userID,
		Year:       w.Year,
		Month:      w.Month,
		TotalHours: s.agg.MonthlyTotalHours(shifts, userID, w),
		Shifts:     shifts,
	}, nil
}

// Register books a shift. The date and time range are validated before any
// write; uniqueness per user and day is left to storage, whose
// domain.ErrDuplicateShift is returned unchanged.
func (s *ShiftService) Register(ctx context.Context, caller domain.Caller, in ports.RegisterShiftInput) (*domain.Shift, error) {
	target := in.UserID
	if target == "" {
		target = caller.UserID
	}

	date, err := domain.ParseDate(in.Date)
	if err != nil {
		metrics.ShiftsRejectedTotal.WithLabelValues("invalid_date").Inc()
		return nil, err
	}
	tr, err := domain.ParseTimeRange(in.Start, in.End)
	if err != nil {
		metrics.ShiftsRejectedTotal.WithLabelValues("invalid_range").Inc()
		return nil, err
	}
	if !caller.CanActFor(target) {
		metrics.ShiftsRejectedTotal.WithLabelValues("forbidden").Inc()
		return nil, domain.ErrForbidden
	}

	onBehalf := target != caller.UserID
	if onBehalf {
		if _, err := s.users.FindByID(ctx, target); err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				metrics.ShiftsRejectedTotal.WithLabelValues("unknown_user").Inc()
				return nil, err
			}
			return nil, repoErr("register", err)
		}
	}

	created, err := s.shifts.Insert(ctx, domain.Shift{UserID: target, Date: date, TimeRange: tr})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateShift) {
			metrics.ShiftsRejectedTotal.WithLabelValues("duplicate").Inc()
			s.logger.Info().Str("user_id", target).Str("date", in.Date).Msg("duplicate shift rejected")
			return nil, err
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.ShiftsRejectedTotal.WithLabelValues("unknown_user").Inc()
			return nil, err
		}
		metrics.ShiftsRejectedTotal.WithLabelValues("storage").Inc()
		s.logger.Error().Err(err).Str("user_id", target).Msg("failed to insert shift")
		return nil, repoErr("register", err)
	}

	metrics.ShiftsRegisteredTotal.WithLabelValues(strconv.FormatBool(onBehalf), strconv.FormatBool(tr.IsOvernight())).Inc()
	s.logger.Info().
		Str("shift_id", created.ID).
		Str("user_id", target).
		Str("caller_id", caller.UserID).
		Str("date", in.Date).
		Str("range", tr.String()).
		Msg("shift registered")

	s.afterWrite(ctx, target, date.Year())
	return created, nil
}

// Delete removes a shift. Administrators only.
func (s *ShiftService) Delete(ctx context.Context, caller domain.Caller, shiftID string) error {
	if !caller.Admin {
		return domain.ErrForbidden
	}

	existing, err := s.shifts.FindByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, domain.ErrShiftNotFound) {
			return err
		}
		return repoErr("delete shift", err)
	}

	ok, err := s.shifts.Delete(ctx, shiftID)
	if err != nil {
		return repoErr("delete shift", err)
	}
	if !ok {
		return domain.ErrShiftNotFound
	}

	metrics.ShiftsDeletedTotal.Inc()
	s.logger.Info().Str("shift_id", shiftID).Str("user_id", existing.UserID).Str("caller_id", caller.UserID).Msg("shift deleted")

	s.afterWrite(ctx, existing.UserID, existing.Date.Year())
	return nil
}

// Month builds the calendar grid for a month with every visible day's shifts
// and per-user hour totals for the month itself.
func (s *ShiftService) Month(ctx context.Context, caller domain.Caller, year int, month time.Month) (*ports.MonthView, error) {
	if caller.UserID == "" {
		return nil, domain.ErrForbidden
	}

	w := s.window(year, month)
	first, last := w.DisplayRange()
	shifts, err := s.shifts.FindByDateRange(ctx, first, domain.AddDays(last, 1))
	if err != nil {
		return nil, repoErr("month view", err)
	}

	today := s.today()
	groups := s.agg.GroupByDay(shifts)
	weeks := w.Weeks()
	grid := make([][]ports.CalendarDay, 0, len(weeks))
	for _, row := range weeks {
		cells := make([]ports.CalendarDay, 0, len(row))
		for _, d := range row {
			entries := groups[domain.FormatDate(d)]
			if entries == nil {
				entries = []domain.ShiftEntry{}
			}
			cells = append(cells, ports.CalendarDay{
				Date:    d,
				InMonth: w.Contains(d),
				Today:   d.Equal(today),
				Entries: entries,
			})
		}
		grid = append(grid, cells)
	}

	return &ports.MonthView{
		Year:         w.Year,
		Month:        w.Month,
		DisplayStart: first,
		DisplayEnd:   last,
		Weeks:        grid,
		Totals:       s.agg.MonthlyTotalsByUser(shifts, w),
	}, nil
}

// Day lists who works on date, including overnight shifts carried over from
// the previous day, and a roster row for every user.
func (s *ShiftService) Day(ctx context.Context, caller domain.Caller, date string) (*ports.DayView, error) {
	if caller.UserID == "" {
		return nil, domain.ErrForbidden
	}
	target, err := domain.ParseDate(date)
	if err != nil {
		return nil, err
	}

	booked, err := s.shifts.FindByDate(ctx, target)
	if err != nil {
		return nil, repoErr("day view", err)
	}
	carried, err := s.shifts.FindByDate(ctx, domain.AddDays(target, -1))
	if err != nil {
		return nil, repoErr("day view", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, repoErr("day view", err)
	}

	entries := s.agg.DayDetail(append(booked, carried...), target)
	if entries == nil {
		entries = []aggregate.RosterEntry{}
	}
	return &ports.DayView{
		Date:    target,
		Entries: entries,
		Roster:  s.agg.Roster(users, entries),
	}, nil
}

// Year returns userID's per-month rollup, served from the summary cache when
// one is configured.
func (s *ShiftService) Year(ctx context.Context, caller domain.Caller, userID string, year int) (*ports.YearView, error) {
	if userID == "" {
		userID = caller.UserID
	}
	if !caller.CanActFor(userID) {
		return nil, domain.ErrForbidden
	}
	if year == 0 {
		year = s.today().Year()
	}

	months, err := s.rollup(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	view := &ports.YearView{UserID: userID, Year: year, Months: months}
	minutes := 0
	for _, m := range months {
		minutes += m.TotalMinutes
		view.DaysWorked += m.DaysWorked
	}
	view.TotalHours = domain.RoundHours(minutes)
	return view, nil
}

// RefreshRollup recomputes a user's yearly rollup and stores it in the cache.
// It is the only path that writes rollups; the dispatcher runs refreshes for
// one user in order, so a refresh queued after a write always lands last.
func (s *ShiftService) RefreshRollup(ctx context.Context, job ports.RollupRefresh) error {
	if s.cache == nil {
		return nil
	}
	months, err := s.computeRollup(ctx, job.UserID, job.Year)
	if err != nil {
		return err
	}
	if err := s.cache.SetRollup(ctx, job.UserID, job.Year, months); err != nil {
		return fmt.Errorf("refresh rollup: %w", err)
	}
	return nil
}

func (s *ShiftService) rollup(ctx context.Context, userID string, year int) ([12]aggregate.MonthSummary, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.GetRollup(ctx, userID, year)
		switch {
		case err != nil:
			metrics.RollupCacheTotal.WithLabelValues("error").Inc()
			s.logger.Warn().Err(err).Str("user_id", userID).Int("year", year).Msg("rollup cache read failed, recomputing")
		case ok:
			metrics.RollupCacheTotal.WithLabelValues("hit").Inc()
			return *cached, nil
		default:
			metrics.RollupCacheTotal.WithLabelValues("miss").Inc()
		}
	}

	months, err := s.computeRollup(ctx, userID, year)
	if err != nil {
		return months, err
	}
	// A miss never writes the cache itself: its snapshot may predate a
	// concurrent write. The refresh is queued behind that write instead.
	if s.cache != nil && s.queue != nil {
		s.queue.Enqueue(ports.RollupRefresh{UserID: userID, Year: year})
	}
	return months, nil
}

func (s *ShiftService) computeRollup(ctx context.Context, userID string, year int) ([12]aggregate.MonthSummary, error) {
	from := domain.NewDate(year, time.January, 1)
	shifts, err := s.shifts.FindByUserAndDateRange(ctx, userID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return [12]aggregate.MonthSummary{}, repoErr("year rollup", err)
	}
	return s.agg.YearlyRollup(shifts, year), nil
}

// afterWrite drops the stale rollup and schedules a rebuild. Failures only
// cost a cache miss later, so they are logged and swallowed.
func (s *ShiftService) afterWrite(ctx context.Context, userID string, year int) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID, year); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Int("year", year).Msg("rollup cache invalidation failed")
		}
	}
	if s.queue != nil {
		s.queue.Enqueue(ports.RollupRefresh{UserID: userID, Year: year})
	}
}

func (s *ShiftService) today() time.Time {
	return domain.DateOf(s.clock.Now())
}

// window resolves a year/month pair, defaulting zero values to the current month.
func (s *ShiftService) window(year int, month time.Month) domain.CalendarWindow {
	today := s.today()
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = today.Month()
	}
	return domain.NewCalendarWindow(year, month, s.weekStart)
}

// repoErr tags an opaque storage failure with domain.ErrRepository.
func repoErr(op string, err error) error {
	if errors.Is(err, domain.ErrRepository) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrRepository, err)
}
