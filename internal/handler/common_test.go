package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kmadriaga/resort-booking-api/internal/model"
)

func TestCanAccessBooking(t *testing.T) {
	owner := uint64(7)

	assert.True(t, canAccessBooking(7, model.RoleUser, &owner))
	assert.False(t, canAccessBooking(8, model.RoleUser, &owner))
	assert.True(t, canAccessBooking(8, model.RoleAdmin, &owner))

	// walk-in bookings have no owner and are staff-only
	assert.False(t, canAccessBooking(7, model.RoleUser, nil))
	assert.True(t, canAccessBooking(1, model.RoleAdmin, nil))
}

func TestBeforeToday(t *testing.T) {
	assert.True(t, beforeToday("2000-01-01"))
	assert.False(t, beforeToday(futureDate(1)))
	assert.False(t, beforeToday("not-a-date"))
}

func TestPageParams(t *testing.T) {
	c, _ := newTestContext(t, http.MethodGet, "/api/admin/users?page=3&per_page=500", "")
	page, perPage := pageParams(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, perPage)

	c, _ = newTestContext(t, http.MethodGet, "/api/admin/users", "")
	page, perPage = pageParams(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 15, perPage)
}
