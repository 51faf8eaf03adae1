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

func newRoomBookingHandler(t *testing.T) (*RoomBookingHandler, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewRoomBookingHandler(
		repository.NewRoomRepo(db),
		repository.NewRoomBookingRepo(db),
	), mock
}

func roomRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "slug", "price", "capacity", "size", "description", "is_active", "created_at", "updated_at",
	}).AddRow(3, "Deluxe Suite", "deluxe-suite", 3500.0, 4, nil, nil, true, now, now)
}

func TestCreateRoomBookingRejectsOverCapacity(t *testing.T) {
	h, mock := newRoomBookingHandler(t)
	in, out := futureDate(7), futureDate(9)

	mock.ExpectQuery(`FROM rooms WHERE id=`).WithArgs(uint64(3)).WillReturnRows(roomRow())

	body := fmt.Sprintf(`{"room_id":3,"check_in":%q,"check_out":%q,"guests":6,"guest_name":"Ben Cruz"}`, in, out)
	c, rec := newTestContext(t, http.MethodPost, "/api/room-bookings", body)
	asUser(c, 7, model.RoleUser)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "capacity of 4")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoomBookingRejectsOverlap(t *testing.T) {
	h, mock := newRoomBookingHandler(t)
	in, out := futureDate(7), futureDate(9)

	mock.ExpectQuery(`FROM rooms WHERE id=`).WithArgs(uint64(3)).WillReturnRows(roomRow())
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	body := fmt.Sprintf(`{"room_id":3,"check_in":%q,"check_out":%q,"guests":2,"guest_name":"Ben Cruz"}`, in, out)
	c, rec := newTestContext(t, http.MethodPost, "/api/room-bookings", body)
	asUser(c, 7, model.RoleUser)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoomBookingPricesPerNight(t *testing.T) {
	h, mock := newRoomBookingHandler(t)
	in, out := futureDate(7), futureDate(9)
	now := time.Now()

	mock.ExpectQuery(`FROM rooms WHERE id=`).WithArgs(uint64(3)).WillReturnRows(roomRow())
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO room_bookings`).WillReturnResult(sqlmock.NewResult(15, 1))
	mock.ExpectQuery(`FROM room_bookings WHERE id=`).WithArgs(uint64(15)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "room_id", "check_in", "check_out", "guests", "guest_name",
			"email", "phone", "payment_method", "reference_number", "special_requests",
			"status", "total_price", "created_at", "updated_at",
		}).AddRow(15, 7, 3, in, out, 2, "Ben Cruz",
			nil, nil, "GCash", "ref-15", nil, "confirmed", 7000.0, now, now))

	body := fmt.Sprintf(`{"room_id":3,"check_in":%q,"check_out":%q,"guests":2,"guest_name":"Ben Cruz"}`, in, out)
	c, rec := newTestContext(t, http.MethodPost, "/api/room-bookings", body)
	asUser(c, 7, model.RoleUser)

	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Booking model.RoomBooking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, 7000.0, resp.Booking.TotalPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func roomBookingDetailRow(id, userID uint64, in, out string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "room_id", "check_in", "check_out", "guests", "guest_name",
		"email", "phone", "payment_method", "reference_number", "special_requests",
		"status", "total_price", "created_at", "updated_at", "name", "price",
	}).AddRow(id, userID, 3, in, out, 2, "Ben Cruz",
		nil, nil, "GCash", "ref-15", nil, "confirmed", 7000.0, now, now, "Deluxe Suite", 3500.0)
}

func TestUpdateRoomBookingExtendsOwnStay(t *testing.T) {
	h, mock := newRoomBookingHandler(t)
	in, oldOut, newOut := futureDate(7), futureDate(9), futureDate(10)

	mock.ExpectQuery(`JOIN rooms`).WithArgs(uint64(15)).
		WillReturnRows(roomBookingDetailRow(15, 7, in, oldOut))
	mock.ExpectQuery(`FROM rooms WHERE id=`).WithArgs(uint64(3)).WillReturnRows(roomRow())
	// the extended range touches the booking's current one; only other
	// bookings of the room may conflict
	mock.ExpectQuery(`AND id <> \?`).
		WithArgs(uint64(3), in, newOut, in, newOut, in, newOut, uint64(15)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`UPDATE room_bookings SET check_in=`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := fmt.Sprintf(`{"check_in":%q,"check_out":%q,"guests":2,"guest_name":"Ben Cruz"}`, in, newOut)
	c, rec := newTestContext(t, http.MethodPut, "/api/room-bookings/15", body)
	asUser(c, 7, model.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("15")

	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Booking repository.RoomBookingDetail `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, newOut, resp.Booking.CheckOut)
	assert.Equal(t, 10500.0, resp.Booking.TotalPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRoomBookingCheckOutBeforeCheckIn(t *testing.T) {
	h, mock := newRoomBookingHandler(t)

	body := fmt.Sprintf(`{"room_id":3,"check_in":%q,"check_out":%q,"guests":2,"guest_name":"Ben Cruz"}`,
		futureDate(9), futureDate(7))
	c, rec := newTestContext(t, http.MethodPost, "/api/room-bookings", body)
	asUser(c, 7, model.RoleUser)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
