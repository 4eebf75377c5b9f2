package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/K17UN3/shift-manage/internal/core/domain"
)

// callerFromContext builds the domain caller from the claims injected by the
// Auth middleware. A missing subject means the middleware did not run, which
// is reported as 401 rather than letting an anonymous caller through.
func callerFromContext(c echo.Context) (domain.Caller, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return domain.Caller{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	role, _ := c.Get("role").(string)
	admin, _ := c.Get("admin").(bool)
	return domain.Caller{UserID: userID, Role: role, Admin: admin}, nil
}
