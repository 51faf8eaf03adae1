package config

import (
	"os"
	"strconv"
	"time"
)

// Limiter scopes.  Auth endpoints get the tightest budget since they gate
// credential guessing; booking writes sit in the middle; all other traffic
// shares the default bucket.
const (
	ScopeAuth    = "auth"
	ScopeBooking = "booking"
	ScopeDefault = "api"
)

// RateLimitConfig drives the Redis-backed request limiter: fixed windows
// counted per scope and per client (user id when authenticated, IP
// otherwise).
type RateLimitConfig struct {
	Enabled bool
	Window  time.Duration
	Auth    int
	Booking int
	Default int
}

// Limit returns the request budget for a scope within one window.
func (c RateLimitConfig) Limit(scope string) int {
	switch scope {
	case ScopeAuth:
		return c.Auth
	case ScopeBooking:
		return c.Booking
	}
	return c.Default
}

// LoadRateLimitConfig builds a RateLimitConfig from RATE_LIMIT_*
// environment variables and normalizes the values so every scope always
// has a usable budget.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled: envBool("RATE_LIMIT_ENABLED", true),
		Window:  envDur("RATE_LIMIT_WINDOW", time.Minute),
		Auth:    envInt("RATE_LIMIT_AUTH", 10),
		Booking: envInt("RATE_LIMIT_BOOKING", 30),
		Default: envInt("RATE_LIMIT_DEFAULT", 120),
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Auth < 1 {
		cfg.Auth = 1
	}
	if cfg.Booking < 1 {
		cfg.Booking = 1
	}
	if cfg.Default < 1 {
		cfg.Default = 1
	}
	return cfg
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dur, err := time.ParseDuration(v); err == nil {
			return dur
		}
	}
	return d
}
