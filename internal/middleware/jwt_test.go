package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/utils"
)

const testSecret = "test-secret"

func callWith(t *testing.T, mw echo.MiddlewareFunc, authHeader string, setup func(echo.Context)) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}

	reached := false
	h := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, reached
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, model.RoleAdmin, 15)
	require.NoError(t, err)

	rec, reached := callWith(t, JWTAuth(testSecret), "Bearer "+tok.Token, nil)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejectsMissingAndForged(t *testing.T) {
	rec, reached := callWith(t, JWTAuth(testSecret), "", nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := utils.NewAccessToken("other-secret", 7, model.RoleUser, 15)
	require.NoError(t, err)
	rec, reached = callWith(t, JWTAuth(testSecret), "Bearer "+tok.Token, nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(model.RoleAdmin)

	rec, reached := callWith(t, mw, "", func(c echo.Context) { c.Set("role", model.RoleAdmin) })
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, reached = callWith(t, mw, "", func(c echo.Context) { c.Set("role", model.RoleUser) })
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, reached = callWith(t, mw, "", nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
