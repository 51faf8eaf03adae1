package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/pricing"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// authUserID reads the user id claim stored by the JWT middleware.  The
// claim decodes as float64; zero means unauthenticated.
func authUserID(c echo.Context) uint64 {
	switch v := c.Get("user_id").(type) {
	case float64:
		return uint64(v)
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func authRole(c echo.Context) string {
	if s, ok := c.Get("role").(string); ok {
		return s
	}
	return ""
}

// canAccessBooking is the single ownership predicate used by every booking
// show/update/destroy handler: the booking's owner or any admin.  A booking
// row with no user (walk-in) is admin-only.
func canAccessBooking(userID uint64, role string, bookingUserID *uint64) bool {
	if role == model.RoleAdmin {
		return true
	}
	return bookingUserID != nil && *bookingUserID == userID
}

func paramID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

func queryUint(c echo.Context, name string) uint64 {
	n, _ := strconv.ParseUint(c.QueryParam(name), 10, 64)
	return n
}

// beforeToday reports whether a YYYY-MM-DD date falls before the current
// day.  Malformed dates are handled by validation before this runs.
func beforeToday(date string) bool {
	d, err := time.Parse(pricing.DateLayout, date)
	if err != nil {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return d.Before(today)
}

// pageParams reads ?page and ?per_page with defaults, capping page size.
func pageParams(c echo.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 {
		perPage = 15
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

// validate runs Echo's validator over a bound request and writes the 422
// response itself; callers return immediately on false.
func validate(c echo.Context, req interface{}) bool {
	if err := c.Validate(req); err != nil {
		_ = c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": validationMessages(err)})
		return false
	}
	return true
}

func jsonError(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"error": msg})
}
