package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/K17UN3/shift-manage/internal/api/handler"
	"github.com/K17UN3/shift-manage/internal/api/middleware"
	"github.com/K17UN3/shift-manage/internal/core/domain"
	"github.com/K17UN3/shift-manage/internal/core/ports"
)

// Dependencies is everything the HTTP layer needs from the composition root.
type Dependencies struct {
	Auth      ports.AuthService
	Shifts    ports.ShiftService
	Users     ports.UserService
	Roles     domain.RolePriority
	JWTSecret string
	// Readiness lists the dependencies checked by GET /health/ready.
	Readiness map[string]handler.Pinger
	Logger    zerolog.Logger
	// Metrics enables the Prometheus middleware and GET /metrics.
	Metrics bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator(deps.Roles)
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics {
		e.Use(echoprometheus.NewMiddleware("shiftboard"))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	authHandler := handler.NewAuthHandler(deps.Auth)
	shiftHandler := handler.NewShiftHandler(deps.Shifts)
	userHandler := handler.NewUserHandler(deps.Users)
	healthHandler := handler.NewHealthHandler(deps.Readiness)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(deps.JWTSecret))
	v1.GET("/home", shiftHandler.Home)

	shifts := v1.Group("/shifts")
	shifts.GET("/register", shiftHandler.RegisterForm)
	shifts.POST("", shiftHandler.Create)
	shifts.GET("/month", shiftHandler.Month)
	shifts.GET("/day/:date", shiftHandler.Day)
	shifts.GET("/year", shiftHandler.Year)
	shifts.DELETE("/:id", shiftHandler.Delete, middleware.RequireAdmin())

	admin := v1.Group("/admin", middleware.RequireAdmin())
	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.DELETE("/users/:id", userHandler.Delete)

	return e
}
