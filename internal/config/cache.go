package config

import "time"

// CacheConfig drives the Redis-backed catalog listing cache.  The catalog
// endpoints are read-heavy and change only through admin CRUD, which
// invalidates entries directly, so the TTL is just a backstop.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads CACHE_* environment variables, with defaults that
// suit the rarely changing catalog.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 5*time.Minute),
		Prefix:  envStr("CACHE_PREFIX", "catalog"),
	}
}
