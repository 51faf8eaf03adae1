package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmadriaga/resort-booking-api/internal/config"
)

func TestCatalogCacheDisabledPassesThrough(t *testing.T) {
	cc := NewCatalogCache(config.CacheConfig{Enabled: false}, nil)

	rec, reached := callWith(t, cc.Middleware(), "", nil)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))

	// must not panic without a client
	cc.Invalidate(context.Background(), "/api/courts")
}

func TestCatalogCacheNilReceiver(t *testing.T) {
	var cc *CatalogCache

	_, reached := callWith(t, cc.Middleware(), "", nil)
	assert.True(t, reached)

	cc.Invalidate(context.Background(), "/api/rooms")
}

func TestCatalogCacheKeyUsesPrefix(t *testing.T) {
	cc := NewCatalogCache(config.CacheConfig{Enabled: false, Prefix: "cat"}, nil)
	assert.Equal(t, "cat:/api/courts", cc.key("/api/courts"))

	cc = NewCatalogCache(config.CacheConfig{}, nil)
	assert.Equal(t, "catalog:/api/rooms", cc.key("/api/rooms"))
}
