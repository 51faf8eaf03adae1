package config

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to the Redis instance backing the rate limiter
// and the catalog cache.  REDIS_URL takes precedence (redis:// or rediss://
// form); otherwise REDIS_HOST/REDIS_PORT with optional REDIS_PASSWORD and
// REDIS_DB select the server, defaulting to localhost:6379.
//
// Returns nil when the server cannot be reached; both consumers degrade to
// pass-throughs on a nil client.
func NewRedisClient() *redis.Client {
	opts := &redis.Options{
		Addr:     envStr("REDIS_HOST", "localhost") + ":" + envStr("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
	}
	if u := os.Getenv("REDIS_URL"); u != "" {
		parsed, err := redis.ParseURL(u)
		if err != nil {
			return nil
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
