package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/K17UN3/shift-manage/internal/core/domain"
	"github.com/K17UN3/shift-manage/internal/core/ports"
)

func TestUserHandler_List(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
			return []domain.User{
				{ID: "1", Username: "admin", Role: domain.RoleEmployee, Admin: true, PasswordHash: "x"},
				{ID: "3", Username: "kato", Role: domain.RolePartTime},
			}, nil
		},
	}
	c, rec, _ := newTestContext(http.MethodGet, "/v1/admin/users", "", admin)

	if err := NewUserHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Body.String(); strings.Contains(got, "password") {
		t.Fatalf("password hash leaked: %s", got)
	}

	var resp []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].Username != "admin" || !resp[0].Admin || resp[1].Role != domain.RolePartTime {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestUserHandler_List_Forbidden(t *testing.T) {
	stub := &stubUserService{
		listFn: func(ctx context.Context, caller domain.Caller) ([]domain.User, error) {
			return nil, domain.ErrForbidden
		},
	}
	c, _, _ := newTestContext(http.MethodGet, "/v1/admin/users", "", staff)

	if err := NewUserHandler(stub).List(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserHandler_Create(t *testing.T) {
	stub := &stubUserService{
		createFn: func(ctx context.Context, caller domain.Caller, in ports.CreateUserInput) (*domain.User, error) {
			if in.Username != "suzuki" || in.Password != "longenough" || in.Role != domain.RoleTemporary || in.Admin {
				t.Fatalf("unexpected input %+v", in)
			}
			return &domain.User{ID: "9", Username: in.Username, Role: in.Role}, nil
		},
	}
	body := `{"username":"suzuki","password":"longenough","role":"temporary"}`
	c, rec, _ := newTestContext(http.MethodPost, "/v1/admin/users", body, admin)

	if err := NewUserHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "9" || resp.Username != "suzuki" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestUserHandler_Create_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"username":`, http.StatusBadRequest},
		{"unknown role", `{"username":"x","password":"longenough","role":"manager"}`, http.StatusUnprocessableEntity},
		{"short password", `{"username":"x","password":"short","role":"employee"}`, http.StatusUnprocessableEntity},
		{"missing username", `{"password":"longenough","role":"employee"}`, http.StatusUnprocessableEntity},
	}
	stub := &stubUserService{
		createFn: func(ctx context.Context, caller domain.Caller, in ports.CreateUserInput) (*domain.User, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, _, _ := newTestContext(http.MethodPost, "/v1/admin/users", tc.body, admin)

			err := NewUserHandler(stub).Create(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) {
				t.Fatalf("expected HTTPError, got %v", err)
			}
			if he.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, he.Code)
			}
		})
	}
}

func TestUserHandler_Delete(t *testing.T) {
	var deleted string
	stub := &stubUserService{
		deleteFn: func(ctx context.Context, caller domain.Caller, userID string) error {
			deleted = userID
			return nil
		},
	}
	c, rec, _ := newTestContext(http.MethodDelete, "/v1/admin/users/3", "", admin)
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := NewUserHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "3" {
		t.Fatalf("expected user 3 deleted, got %q", deleted)
	}
}

func TestUserHandler_Delete_Unauthenticated(t *testing.T) {
	c, _, _ := newTestContext(http.MethodDelete, "/v1/admin/users/3", "", domain.Caller{})

	err := NewUserHandler(&stubUserService{}).Delete(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
