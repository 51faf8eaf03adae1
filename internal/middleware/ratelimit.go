package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kmadriaga/resort-booking-api/internal/config"
)

// windowScript counts a request into the client's current window and
// returns {count, ms until the window resets}.  INCR and the expiry must
// run atomically or two concurrent first requests would each start their
// own window.
var windowScript = redis.NewScript(`
	local n = redis.call('INCR', KEYS[1])
	if n == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return { n, redis.call('PTTL', KEYS[1]) }
`)

// RateLimit limits requests per client within a fixed window.  The budget
// comes from the scope: auth endpoints are tightest, booking writes next,
// everything else shares the default.  Clients are keyed by user id once
// authenticated so a busy hotel lobby NAT does not starve its guests; on
// Redis errors the limiter fails open.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client, scope string) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	limit := cfg.Limit(scope)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "rl:" + scope + ":" + limiterClient(c)

			vals, err := windowScript.Run(c.Request().Context(), rdb,
				[]string{key}, cfg.Window.Milliseconds()).Int64Slice()
			if err != nil || len(vals) != 2 {
				return next(c)
			}
			count, resetMs := vals[0], vals[1]

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(limit) {
				secs := int((time.Duration(resetMs) * time.Millisecond).Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"message":     "rate limit exceeded",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

// limiterClient identifies the caller for rate limit keys: the user id once
// authenticated, the remote IP before that.
func limiterClient(c echo.Context) string {
	if uid := currentUserID(c); uid != "anon" {
		return "user:" + uid
	}
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}
