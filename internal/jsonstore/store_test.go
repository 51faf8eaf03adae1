package jsonstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bookings.json"))
	require.NoError(t, err)
	return s
}

func booking(courtID uint64, date, slot string) *model.CourtBooking {
	return &model.CourtBooking{
		CourtID:       courtID,
		Date:          date,
		TimeSlot:      slot,
		CustomerName:  "Ana Reyes",
		PaymentMethod: model.DefaultPaymentMethod,
		Status:        model.StatusConfirmed,
	}
}

func TestCreateManyAssignsIDsAndPersists(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	batch := []*model.CourtBooking{
		booking(1, "2026-09-01", "6:00 AM - 7:00 AM"),
		booking(1, "2026-09-01", "7:00 AM - 8:00 AM"),
	}
	require.NoError(t, s.CreateMany(ctx, batch))
	assert.Equal(t, uint64(1), batch[0].ID)
	assert.Equal(t, uint64(2), batch[1].ID)

	// reopen to prove the write hit the file
	s2, err := Open(s.path)
	require.NoError(t, err)
	slots, err := s2.BookedSlots(ctx, 1, "2026-09-01")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"6:00 AM - 7:00 AM", "7:00 AM - 8:00 AM"}, slots)
}

func TestCreateManyRejectsTakenSlotAtomically(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateMany(ctx, []*model.CourtBooking{
		booking(1, "2026-09-01", "8:00 AM - 9:00 AM"),
	}))

	err := s.CreateMany(ctx, []*model.CourtBooking{
		booking(1, "2026-09-01", "9:00 AM - 10:00 AM"),
		booking(1, "2026-09-01", "8:00 AM - 9:00 AM"),
	})
	assert.ErrorIs(t, err, repository.ErrSlotTaken)

	// the free slot from the failed batch must not have been written
	ok, err := s.SlotAvailable(ctx, 1, "2026-09-01", "9:00 AM - 10:00 AM")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateManyRejectsDuplicateWithinBatch(t *testing.T) {
	s := newStore(t)

	err := s.CreateMany(context.Background(), []*model.CourtBooking{
		booking(2, "2026-09-02", "6:00 AM - 7:00 AM"),
		booking(2, "2026-09-02", "6:00 AM - 7:00 AM"),
	})
	assert.ErrorIs(t, err, repository.ErrSlotTaken)
}

func TestSlotAvailabilityScopedToCourtAndDate(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateMany(ctx, []*model.CourtBooking{
		booking(1, "2026-09-01", "6:00 AM - 7:00 AM"),
	}))

	ok, err := s.SlotAvailable(ctx, 1, "2026-09-01", "6:00 AM - 7:00 AM")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.SlotAvailable(ctx, 2, "2026-09-01", "6:00 AM - 7:00 AM")
	require.NoError(t, err)
	assert.True(t, ok, "another court is unaffected")

	ok, err = s.SlotAvailable(ctx, 1, "2026-09-02", "6:00 AM - 7:00 AM")
	require.NoError(t, err)
	assert.True(t, ok, "another date is unaffected")
}

func TestDeleteFreesSlot(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	batch := []*model.CourtBooking{booking(1, "2026-09-01", "6:00 AM - 7:00 AM")}
	require.NoError(t, s.CreateMany(ctx, batch))
	require.NoError(t, s.Delete(ctx, batch[0].ID))

	ok, err := s.SlotAvailable(ctx, 1, "2026-09-01", "6:00 AM - 7:00 AM")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, s.Delete(ctx, batch[0].ID), repository.ErrNotFound)
}

func TestListFilters(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateMany(ctx, []*model.CourtBooking{
		booking(1, "2026-09-01", "6:00 AM - 7:00 AM"),
		booking(1, "2026-09-02", "6:00 AM - 7:00 AM"),
		booking(2, "2026-09-01", "6:00 AM - 7:00 AM"),
	}))

	all, err := s.List(ctx, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byCourt, err := s.List(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, byCourt, 2)

	byBoth, err := s.List(ctx, 1, "2026-09-02")
	require.NoError(t, err)
	require.Len(t, byBoth, 1)
	assert.Equal(t, "2026-09-02", byBoth[0].Date)
}
