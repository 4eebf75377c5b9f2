package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/K17UN3/shift-manage/internal/core/domain"
	"github.com/K17UN3/shift-manage/internal/core/ports"
)

const testSecret = "router-secret"

// homeOnly implements just enough of ShiftService for routing checks.
type homeOnly struct {
	ports.ShiftService
}

func (homeOnly) Home(_ context.Context, caller domain.Caller) (*ports.HomeSummary, error) {
	today := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	return &ports.HomeSummary{Today: today, SubmissionDeadline: today.AddDate(0, 1, -5)}, nil
}

type noUsers struct {
	ports.UserService
}

func (noUsers) List(context.Context, domain.Caller) ([]domain.User, error) {
	return []domain.User{}, nil
}

func bearer(t *testing.T, sub string, admin bool) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"role":  domain.RoleEmployee,
		"admin": admin,
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + token
}

func TestRouter_Access(t *testing.T) {
	e := NewRouter(Dependencies{
		Shifts:    homeOnly{},
		Users:     noUsers{},
		Roles:     domain.DefaultRolePriority,
		JWTSecret: testSecret,
		Logger:    zerolog.Nop(),
	})

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"liveness is public", http.MethodGet, "/health", "", http.StatusOK},
		{"readiness with no deps", http.MethodGet, "/health/ready", "", http.StatusOK},
		{"home needs a token", http.MethodGet, "/v1/home", "", http.StatusUnauthorized},
		{"home with token", http.MethodGet, "/v1/home", bearer(t, "2", false), http.StatusOK},
		{"staff cannot delete shifts", http.MethodDelete, "/v1/shifts/7", bearer(t, "2", false), http.StatusForbidden},
		{"staff cannot list users", http.MethodGet, "/v1/admin/users", bearer(t, "2", false), http.StatusForbidden},
		{"admin lists users", http.MethodGet, "/v1/admin/users", bearer(t, "1", true), http.StatusOK},
		{"unknown route", http.MethodGet, "/v2/nothing", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d (%s)", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}
