package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/K17UN3/shift-manage/internal/core/domain"
	"github.com/K17UN3/shift-manage/internal/core/ports"
)

type stubAuthService struct {
	loginFn func(ctx context.Context, username, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Bootstrap(context.Context, string, string) (*domain.User, bool, error) {
	panic("not used by handlers")
}

type stubShiftService struct {
	homeFn     func(ctx context.Context, caller domain.Caller) (*ports.HomeSummary, error)
	formFn     func(ctx context.Context, caller domain.Caller, userID string, year int, month time.Month) (*ports.RegisterForm, error)
	registerFn func(ctx context.Context, caller domain.Caller, in ports.RegisterShiftInput) (*domain.Shift, error)
	deleteFn   func(ctx context.Context, caller domain.Caller, shiftID string) error
	monthFn    func(ctx context.Context, caller domain.Caller, year int, month time.Month) (*ports.MonthView, error)
	dayFn      func(ctx context.Context, caller domain.Caller, date string) (*ports.DayView, error)
	yearFn     func(ctx context.Context, caller domain.Caller, userID string, year int) (*ports.YearView, error)
}

func (s *stubShiftService) Home(ctx context.Context, caller domain.Caller) (*ports.HomeSummary, error) {
	return s.homeFn(ctx, caller)
}

func (s *stubShiftService) RegisterForm(ctx context.Context, caller domain.Caller, userID string, year int, month time.Month) (*ports.RegisterForm, error) {
	return s.formFn(ctx, caller, userID, year, month)
}

func (s *stubShiftService) Register(ctx context.Context, caller domain.Caller, in ports.RegisterShiftInput) (*domain.Shift, error) {
	return s.registerFn(ctx, caller, in)
}

func (s *stubShiftService) Delete(ctx context.Context, caller domain.Caller, shiftID string) error {
	return s.deleteFn(ctx, caller, shiftID)
}

func (s *stubShiftService) Month(ctx context.Context, caller domain.Caller, year int, month time.Month) (*ports.MonthView, error) {
	return s.monthFn(ctx, caller, year, month)
}

func (s *stubShiftService) Day(ctx context.Context, caller domain.Caller, date string) (*ports.DayView, error) {
	return s.dayFn(ctx, caller, date)
}

func (s *stubShiftService) Year(ctx context.Context, caller domain.Caller, userID string, year int) (*ports.YearView, error) {
	return s.yearFn(ctx, caller, userID, year)
}

type stubUserService struct {
	listFn   func(ctx context.Context, caller domain.Caller) ([]domain.User, error)
	createFn func(ctx context.Context, caller domain.Caller, in ports.CreateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, caller domain.Caller, userID string) error
}

func (s *stubUserService) List(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
	return s.listFn(ctx, caller)
}

func (s *stubUserService) Create(ctx context.Context, caller domain.Caller, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, caller, in)
}

func (s *stubUserService) Delete(ctx context.Context, caller domain.Caller, userID string) error {
	return s.deleteFn(ctx, caller, userID)
}

// newTestContext builds an echo context with the validator installed and,
// when caller has an ID, the claims the Auth middleware would have set.
func newTestContext(method, target, body string, caller domain.Caller) (echo.Context, *httptest.ResponseRecorder, *echo.Echo) {
	e := echo.New()
	e.Validator = NewValidator(domain.DefaultRolePriority)

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if caller.UserID != "" {
		c.Set("user_id", caller.UserID)
		c.Set("role", caller.Role)
		c.Set("admin", caller.Admin)
	}
	return c, rec, e
}

var (
	staff = domain.Caller{UserID: "2", Role: domain.RoleEmployee}
	admin = domain.Caller{UserID: "1", Role: domain.RoleEmployee, Admin: true}
)

func mustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
