package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id from the context as a
// string, or "anon" for unauthenticated traffic.  Rate limit keys use it so
// logged-in users get their own buckets.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		// JWT claims decode numbers as float64
		return strconv.FormatUint(uint64(v), 10)
	}
	return "anon"
}
