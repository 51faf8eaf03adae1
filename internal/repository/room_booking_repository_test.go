package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmadriaga/resort-booking-api/internal/model"
)

func newRoomMock(t *testing.T) (*RoomBookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRoomBookingRepo(db), mock
}

func TestOverlaps(t *testing.T) {
	repo, mock := newRoomMock(t)

	mock.ExpectQuery(`check_in BETWEEN \? AND \?`).
		WithArgs(uint64(3), "2026-09-10", "2026-09-12", "2026-09-10", "2026-09-12", "2026-09-10", "2026-09-12").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.Overlaps(context.Background(), 3, "2026-09-10", "2026-09-12")
	require.NoError(t, err)
	assert.True(t, taken)

	mock.ExpectQuery(`check_in BETWEEN \? AND \?`).
		WithArgs(uint64(3), "2026-09-12", "2026-09-14", "2026-09-12", "2026-09-14", "2026-09-12", "2026-09-14").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err = repo.Overlaps(context.Background(), 3, "2026-09-12", "2026-09-14")
	require.NoError(t, err)
	assert.False(t, taken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOverlapsOtherExcludesOwnRow(t *testing.T) {
	repo, mock := newRoomMock(t)

	mock.ExpectQuery(`AND id <> \?`).
		WithArgs(uint64(3), "2026-09-10", "2026-09-13", "2026-09-10", "2026-09-13", "2026-09-10", "2026-09-13", uint64(15)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.OverlapsOther(context.Background(), 3, "2026-09-10", "2026-09-13", 15)
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The occupancy rule treats check-in and check-out days as occupied, so two
// stays conflict as soon as they share a single day.  YYYY-MM-DD strings
// compare lexicographically, which makes the rule expressible without
// parsing.
func staysConflict(aIn, aOut, bIn, bOut string) bool {
	return (bIn >= aIn && bIn <= aOut) ||
		(bOut >= aIn && bOut <= aOut) ||
		(bIn <= aIn && bOut >= aOut)
}

func TestStayConflictBoundaries(t *testing.T) {
	existing := [2]string{"2026-09-01", "2026-09-03"}

	cases := []struct {
		name     string
		in, out  string
		conflict bool
	}{
		{"disjoint before", "2026-08-28", "2026-08-31", false},
		{"disjoint after", "2026-09-04", "2026-09-06", false},
		{"new check-in on existing check-out day", "2026-09-03", "2026-09-05", true},
		{"new check-out on existing check-in day", "2026-08-30", "2026-09-01", true},
		{"straddles the start", "2026-08-30", "2026-09-02", true},
		{"contained", "2026-09-02", "2026-09-02", true},
		{"contains the whole stay", "2026-08-30", "2026-09-05", true},
		{"identical", "2026-09-01", "2026-09-03", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.conflict, staysConflict(existing[0], existing[1], tc.in, tc.out))
		})
	}
}

func TestRoomBookingCreateReloadsRow(t *testing.T) {
	repo, mock := newRoomMock(t)

	uid := uint64(9)
	now := time.Now()
	b := &model.RoomBooking{
		UserID: &uid, RoomID: 3, CheckIn: "2026-09-10", CheckOut: "2026-09-12",
		Guests: 2, GuestName: "Ben Cruz", PaymentMethod: "GCash",
		Status: model.StatusConfirmed, TotalPrice: 7000,
	}

	mock.ExpectExec(`INSERT INTO room_bookings`).WillReturnResult(sqlmock.NewResult(15, 1))
	mock.ExpectQuery(`FROM room_bookings WHERE id=`).WithArgs(uint64(15)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "room_id", "check_in", "check_out", "guests", "guest_name",
			"email", "phone", "payment_method", "reference_number", "special_requests",
			"status", "total_price", "created_at", "updated_at",
		}).AddRow(15, 9, 3, "2026-09-10", "2026-09-12", 2, "Ben Cruz",
			nil, nil, "GCash", nil, nil, "confirmed", 7000.0, now, now))

	require.NoError(t, repo.Create(context.Background(), b))
	assert.Equal(t, uint64(15), b.ID)
	assert.Equal(t, 7000.0, b.TotalPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}
