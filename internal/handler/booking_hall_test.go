package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
)

func newHallBookingHandler(t *testing.T) (*HallBookingHandler, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewHallBookingHandler(
		repository.NewHallRepo(db),
		repository.NewHallBookingRepo(db),
	), mock
}

func hallRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "price_per_4hrs", "min_capacity", "max_capacity",
		"size", "description", "is_premium", "is_active", "created_at", "updated_at",
	}).AddRow(2, "Grand Pavilion", "grand-pavilion", 20000.0, 50, 200, nil, nil, true, true, now, now)
}

func TestCreateHallBookingGuestCountOutOfBounds(t *testing.T) {
	h, mock := newHallBookingHandler(t)
	date := futureDate(30)

	for _, guests := range []int{10, 500} {
		mock.ExpectQuery(`FROM function_halls WHERE id=`).WithArgs(uint64(2)).WillReturnRows(hallRow())

		body := fmt.Sprintf(`{"function_hall_id":2,"full_name":"Ana Reyes","phone":"09170000000","event_date":%q,"guest_count":%d}`,
			date, guests)
		c, rec := newTestContext(t, http.MethodPost, "/api/hall-bookings", body)
		asUser(c, 7, model.RoleUser)

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp struct {
			MinCapacity int `json:"min_capacity"`
			MaxCapacity int `json:"max_capacity"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 50, resp.MinCapacity)
		assert.Equal(t, 200, resp.MaxCapacity)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHallBookingAtExactCapacityBounds(t *testing.T) {
	h, mock := newHallBookingHandler(t)

	for i, guests := range []int{50, 200} {
		date := futureDate(30 + i)
		now := time.Now()
		id := int64(20 + i)

		mock.ExpectQuery(`FROM function_halls WHERE id=`).WithArgs(uint64(2)).WillReturnRows(hallRow())
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs(uint64(2), date).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(`INSERT INTO hall_bookings`).WillReturnResult(sqlmock.NewResult(id, 1))
		mock.ExpectQuery(`FROM hall_bookings WHERE id=`).WithArgs(uint64(id)).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "function_hall_id", "full_name", "phone", "email", "address",
				"event_date", "guest_count", "catering_package", "main_dish", "appetizer", "drink",
				"avail_mini_bar", "payment_method", "reference_number", "notes", "status",
				"total_price", "created_at", "updated_at",
			}).AddRow(id, 7, 2, "Ana Reyes", "09170000000", nil, nil, date, guests,
				nil, nil, nil, nil, false, "GCash", fmt.Sprintf("ref-%d", id), nil, "pending", 20000.0, now, now))

		body := fmt.Sprintf(`{"function_hall_id":2,"full_name":"Ana Reyes","phone":"09170000000","event_date":%q,"guest_count":%d}`,
			date, guests)
		c, rec := newTestContext(t, http.MethodPost, "/api/hall-bookings", body)
		asUser(c, 7, model.RoleUser)

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusCreated, rec.Code, "guest_count %d is within [50, 200]", guests)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHallBookingDateTaken(t *testing.T) {
	h, mock := newHallBookingHandler(t)
	date := futureDate(30)

	mock.ExpectQuery(`FROM function_halls WHERE id=`).WithArgs(uint64(2)).WillReturnRows(hallRow())
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(uint64(2), date).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	body := fmt.Sprintf(`{"function_hall_id":2,"full_name":"Ana Reyes","phone":"09170000000","event_date":%q,"guest_count":100}`, date)
	c, rec := newTestContext(t, http.MethodPost, "/api/hall-bookings", body)
	asUser(c, 7, model.RoleUser)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateHallBookingStartsPendingWithMiniBar(t *testing.T) {
	h, mock := newHallBookingHandler(t)
	date := futureDate(30)
	now := time.Now()

	mock.ExpectQuery(`FROM function_halls WHERE id=`).WithArgs(uint64(2)).WillReturnRows(hallRow())
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(uint64(2), date).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO hall_bookings`).WillReturnResult(sqlmock.NewResult(8, 1))
	mock.ExpectQuery(`FROM hall_bookings WHERE id=`).WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "function_hall_id", "full_name", "phone", "email", "address",
			"event_date", "guest_count", "catering_package", "main_dish", "appetizer", "drink",
			"avail_mini_bar", "payment_method", "reference_number", "notes", "status",
			"total_price", "created_at", "updated_at",
		}).AddRow(8, 7, 2, "Ana Reyes", "09170000000", nil, nil, date, 100,
			nil, nil, nil, nil, true, "GCash", "ref-8", nil, "pending", 25000.0, now, now))

	body := fmt.Sprintf(`{"function_hall_id":2,"full_name":"Ana Reyes","phone":"09170000000","event_date":%q,"guest_count":100,"avail_mini_bar":true}`, date)
	c, rec := newTestContext(t, http.MethodPost, "/api/hall-bookings", body)
	asUser(c, 7, model.RoleUser)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Booking model.HallBooking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusPending, resp.Booking.Status)
	assert.Equal(t, 25000.0, resp.Booking.TotalPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}
