package handler

import (
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kmadriaga/resort-booking-api/internal/pricing"
)

// newTestContext builds an Echo context around a JSON request with the
// production validator attached.
func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asUser stamps the context the way the JWT middleware would.
func asUser(c echo.Context, id float64, role string) {
	c.Set("user_id", id)
	c.Set("role", role)
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// futureDate returns a YYYY-MM-DD date n days from now, keeping booking
// tests valid regardless of when they run.
func futureDate(n int) string {
	return time.Now().AddDate(0, 0, n).Format(pricing.DateLayout)
}
