package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kmadriaga/resort-booking-api/internal/config"
)

// CatalogCache caches the public catalog listings (courts, rooms, function
// halls) in Redis.  The catalog only changes through the admin CRUD
// endpoints, so those handlers invalidate the affected listing instead of
// waiting for the TTL.  A nil receiver, or one without a Redis client, is a
// pass-through; every method is safe to call on it.
type CatalogCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewCatalogCache builds a cache from config.  Returns a usable no-op value
// when caching is disabled or rdb is nil.
func NewCatalogCache(cfg config.CacheConfig, rdb *redis.Client) *CatalogCache {
	cc := &CatalogCache{ttl: cfg.TTL, prefix: cfg.Prefix}
	if cc.ttl <= 0 {
		cc.ttl = time.Minute
	}
	if cc.prefix == "" {
		cc.prefix = "catalog"
	}
	if cfg.Enabled {
		cc.rdb = rdb
	}
	return cc
}

// cachedListing is the stored form of one catalog response.
type cachedListing struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

func (cc *CatalogCache) key(route string) string { return cc.prefix + ":" + route }

// listingRecorder copies the response body while it streams to the client.
type listingRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (lr *listingRecorder) WriteHeader(code int) {
	lr.status = code
	lr.ResponseWriter.WriteHeader(code)
}

func (lr *listingRecorder) Write(b []byte) (int, error) {
	lr.buf.Write(b)
	return lr.ResponseWriter.Write(b)
}

// Middleware serves catalog GETs from Redis when a fresh copy exists and
// stores successful responses on a miss.  Keys are the registered route
// paths, which is what Invalidate takes.
func (cc *CatalogCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cc == nil || cc.rdb == nil || c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := cc.key(c.Path())
			if raw, err := cc.rdb.Get(c.Request().Context(), key).Bytes(); err == nil {
				var stored cachedListing
				if json.Unmarshal(raw, &stored) == nil && stored.Status != 0 {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(stored.Status, echo.MIMEApplicationJSON, stored.Body)
				}
			}

			rec := &listingRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK {
				payload, err := json.Marshal(cachedListing{Status: rec.status, Body: rec.buf.Bytes()})
				if err == nil {
					_ = cc.rdb.SetEx(context.Background(), key, payload, cc.ttl).Err()
				}
			}
			return nil
		}
	}
}

// Invalidate drops the cached listings for the given routes.  Called by the
// admin catalog handlers after a create, update or delete so the public
// listing reflects the change immediately.
func (cc *CatalogCache) Invalidate(ctx context.Context, routes ...string) {
	if cc == nil || cc.rdb == nil || len(routes) == 0 {
		return
	}
	keys := make([]string, len(routes))
	for i, r := range routes {
		keys[i] = cc.key(r)
	}
	_ = cc.rdb.Del(ctx, keys...).Err()
}
