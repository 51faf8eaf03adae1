package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmadriaga/resort-booking-api/internal/model"
)

func newMockDB(t *testing.T) (*CourtBookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCourtBookingRepo(db), mock
}

func courtBookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "court_id", "date", "time_slot", "customer_name",
		"phone", "payment_method", "reference_number", "status", "created_at", "updated_at",
	})
}

func TestSlotAvailable(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(uint64(1), "2026-09-10", "8:00 AM - 9:00 AM").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	free, err := repo.SlotAvailable(context.Background(), 1, "2026-09-10", "8:00 AM - 9:00 AM")
	require.NoError(t, err)
	assert.True(t, free)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(uint64(1), "2026-09-10", "8:00 AM - 9:00 AM").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	free, err = repo.SlotAvailable(context.Background(), 1, "2026-09-10", "8:00 AM - 9:00 AM")
	require.NoError(t, err)
	assert.False(t, free)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateManyCommitsAndReloads(t *testing.T) {
	repo, mock := newMockDB(t)

	uid := uint64(7)
	now := time.Now()
	bookings := []*model.CourtBooking{
		{UserID: &uid, CourtID: 1, Date: "2026-09-10", TimeSlot: "8:00 AM - 9:00 AM",
			CustomerName: "Ana Reyes", PaymentMethod: "GCash", Status: model.StatusConfirmed},
		{UserID: &uid, CourtID: 1, Date: "2026-09-10", TimeSlot: "9:00 AM - 10:00 AM",
			CustomerName: "Ana Reyes", PaymentMethod: "GCash", Status: model.StatusConfirmed},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO court_bookings`).WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectExec(`INSERT INTO court_bookings`).WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectQuery(`FROM court_bookings WHERE id=`).WithArgs(uint64(41)).
		WillReturnRows(courtBookingRows().AddRow(41, 7, 1, "2026-09-10", "8:00 AM - 9:00 AM",
			"Ana Reyes", nil, "GCash", nil, "confirmed", now, now))
	mock.ExpectQuery(`FROM court_bookings WHERE id=`).WithArgs(uint64(42)).
		WillReturnRows(courtBookingRows().AddRow(42, 7, 1, "2026-09-10", "9:00 AM - 10:00 AM",
			"Ana Reyes", nil, "GCash", nil, "confirmed", now, now))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateMany(context.Background(), bookings))
	assert.Equal(t, uint64(41), bookings[0].ID)
	assert.Equal(t, uint64(42), bookings[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateManyDuplicateRollsBack(t *testing.T) {
	repo, mock := newMockDB(t)

	uid := uint64(7)
	bookings := []*model.CourtBooking{
		{UserID: &uid, CourtID: 1, Date: "2026-09-10", TimeSlot: "8:00 AM - 9:00 AM",
			CustomerName: "Ana Reyes", PaymentMethod: "GCash", Status: model.StatusConfirmed},
		{UserID: &uid, CourtID: 1, Date: "2026-09-10", TimeSlot: "9:00 AM - 10:00 AM",
			CustomerName: "Ana Reyes", PaymentMethod: "GCash", Status: model.StatusConfirmed},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO court_bookings`).WillReturnResult(sqlmock.NewResult(41, 1))
	mock.ExpectExec(`INSERT INTO court_bookings`).
		WillReturnError(errors.New("Error 1062: Duplicate entry '1-2026-09-10-9:00 AM - 10:00 AM'"))
	mock.ExpectRollback()

	err := repo.CreateMany(context.Background(), bookings)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByReference(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM court_bookings WHERE reference_number`).
		WithArgs("ref-multi").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountByReference(context.Background(), "ref-multi")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveOntoOccupiedSlot(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE court_bookings SET court_id=`).
		WillReturnError(errors.New("Error 1062: Duplicate entry"))

	err := repo.Move(context.Background(), 5, 2, "2026-09-11", "10:00 AM - 11:00 AM")
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingBooking(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM court_bookings`).WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
