package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
)

func newAdminHandler(t *testing.T) (*AdminHandler, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return NewAdminHandler(
		repository.NewUserRepo(db),
		repository.NewDashboardRepo(db),
		repository.NewCourtBookingRepo(db),
		repository.NewRoomBookingRepo(db),
		repository.NewHallBookingRepo(db),
	), mock
}

func courtDetailRowWithRef(id, userID uint64, date, slot, status, ref string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "court_id", "date", "time_slot", "customer_name", "phone",
		"payment_method", "reference_number", "status", "created_at", "updated_at",
		"name", "rate",
	}).AddRow(id, userID, 1, date, slot, "Ana Reyes", nil, "GCash", ref, status, now, now, "Court A", 300.0)
}

func TestSetCourtBookingStatusRejectsRoomOnlyStatus(t *testing.T) {
	h, mock := newAdminHandler(t)

	c, rec := newTestContext(t, http.MethodPatch, "/api/admin/court-bookings/5/status",
		`{"status":"checked_in"}`)
	asUser(c, 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.SetCourtBookingStatus(c))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Confirming one row of a multi-slot booking must price the whole
// reference group, so the handler counts the rows sharing the booking's
// reference before publishing.
func TestConfirmCourtBookingPricesReferenceGroup(t *testing.T) {
	h, mock := newAdminHandler(t)
	date := futureDate(7)

	mock.ExpectQuery(`JOIN courts`).WithArgs(uint64(5)).
		WillReturnRows(courtDetailRowWithRef(5, 7, date, "8:00 AM - 9:00 AM", "pending", "ref-multi"))
	mock.ExpectExec(`UPDATE court_bookings SET status=`).
		WithArgs(model.StatusConfirmed, uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM court_bookings WHERE reference_number`).
		WithArgs("ref-multi").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`FROM users WHERE id=`).WithArgs(uint64(7)).
		WillReturnRows(userRow("x", time.Now()))

	c, rec := newTestContext(t, http.MethodPost, "/api/admin/court-bookings/5/confirm", "")
	asUser(c, 1, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("5")

	require.NoError(t, h.ConfirmCourtBooking(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
