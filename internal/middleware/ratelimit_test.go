package middleware

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/kmadriaga/resort-booking-api/internal/config"
)

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Auth: 1, Booking: 1, Default: 1}

	rec, reached := callWith(t, RateLimit(cfg, nil, config.ScopeAuth), "", nil)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimitDisabledPassesThrough(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: false}

	_, reached := callWith(t, RateLimit(cfg, nil, config.ScopeDefault), "", nil)
	assert.True(t, reached)
}

func TestLimiterClientKeys(t *testing.T) {
	e := echo.New()

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:5511"
	c := e.NewContext(req, nil)
	assert.Equal(t, "ip:203.0.113.9", limiterClient(c))

	// JWT claims decode numeric ids as float64
	c.Set("user_id", float64(7))
	assert.Equal(t, "user:7", limiterClient(c))
}
