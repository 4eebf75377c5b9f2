package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/K17UN3/shift-manage/internal/core/ports"
)

// ShiftHandler serves the calendar and booking endpoints.
type ShiftHandler struct {
	service ports.ShiftService
}

func NewShiftHandler(service ports.ShiftService) *ShiftHandler {
	return &ShiftHandler{service: service}
}

// Home handles GET /v1/home.
//
// @Summary      Caller's hours and submission deadline
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  homeResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/home [get]
func (h *ShiftHandler) Home(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	home, err := h.service.Home(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHomeResponse(home))
}

// RegisterForm handles GET /v1/shifts/register?user_id=&year=&month=.
//
// @Summary      One user's bookings for a month
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "User ID, defaults to the caller"
// @Param        year     query     int     false  "Year, defaults to the current one"
// @Param        month    query     int     false  "Month 1-12, defaults to the current one"
// @Success      200      {object}  registerFormResponse
// @Failure      400      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /v1/shifts/register [get]
func (h *ShiftHandler) RegisterForm(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	year, month, err := yearMonthParams(c)
	if err != nil {
		return err
	}
	form, err := h.service.RegisterForm(c.Request().Context(), caller, c.QueryParam("user_id"), year, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRegisterFormResponse(form))
}

// Create handles POST /v1/shifts.
//
// @Summary      Register a shift
// @Tags         shifts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerShiftRequest  true  "Date and HH:MM range; end before start means overnight"
// @Success      201   {object}  shiftResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/shifts [post]
func (h *ShiftHandler) Create(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}

	var req registerShiftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	shift, err := h.service.Register(c.Request().Context(), caller, ports.RegisterShiftInput{
		UserID: req.UserID,
		Date:   req.Date,
		Start:  req.Start,
		End:    req.End,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/v1/shifts/day/"+req.Date)
	return c.JSON(http.StatusCreated, toShiftResponse(*shift))
}

// Delete handles DELETE /v1/shifts/:id.
//
// @Summary      Delete a shift
// @Tags         shifts
// @Security     BearerAuth
// @Param        id   path  string  true  "Shift ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/shifts/{id} [delete]
func (h *ShiftHandler) Delete(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), caller, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Month handles GET /v1/shifts/month?year=&month=.
//
// @Summary      Month calendar with per-user totals
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        year   query     int  false  "Year, defaults to the current one"
// @Param        month  query     int  false  "Month 1-12, defaults to the current one"
// @Success      200    {object}  monthResponse
// @Failure      400    {object}  map[string]string
// @Router       /v1/shifts/month [get]
func (h *ShiftHandler) Month(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	year, month, err := yearMonthParams(c)
	if err != nil {
		return err
	}
	view, err := h.service.Month(c.Request().Context(), caller, year, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMonthResponse(view))
}

// Day handles GET /v1/shifts/day/:date.
//
// @Summary      Who works on a date
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        date  path      string  true  "Date as YYYY-MM-DD"
// @Success      200   {object}  dayResponse
// @Failure      400   {object}  map[string]string
// @Router       /v1/shifts/day/{date} [get]
func (h *ShiftHandler) Day(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	view, err := h.service.Day(c.Request().Context(), caller, c.Param("date"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDayResponse(view))
}

// Year handles GET /v1/shifts/year?user_id=&year=.
//
// @Summary      Per-month rollup for a year
// @Tags         shifts
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "User ID, defaults to the caller"
// @Param        year     query     int     false  "Year, defaults to the current one"
// @Success      200      {object}  yearResponse
// @Failure      400      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /v1/shifts/year [get]
func (h *ShiftHandler) Year(c echo.Context) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	year, _, err := yearMonthParams(c)
	if err != nil {
		return err
	}
	view, err := h.service.Year(c.Request().Context(), caller, c.QueryParam("user_id"), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toYearResponse(view))
}

// yearMonthParams reads optional year and month query parameters. Absent
// values come back as zero, which the service reads as "current".
func yearMonthParams(c echo.Context) (int, time.Month, error) {
	var year, month int
	if err := echo.QueryParamsBinder(c).Int("year", &year).Int("month", &month).BindError(); err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "year and month must be integers")
	}
	if year < 0 || year > 9999 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "year out of range")
	}
	if month < 0 || month > 12 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "month must be between 1 and 12")
	}
	return year, time.Month(month), nil
}
