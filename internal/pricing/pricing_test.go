package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomTotal(t *testing.T) {
	// Three nights at 5500.
	assert.Equal(t, 16500.0, RoomTotal(5500, "2026-01-10", "2026-01-13"))
	// Same-day stay still charges one night.
	assert.Equal(t, 5500.0, RoomTotal(5500, "2026-01-10", "2026-01-10"))
	// Single night.
	assert.Equal(t, 3500.0, RoomTotal(3500, "2026-01-10", "2026-01-11"))
	// Reversed range degrades to the one-night minimum rather than a
	// negative price; the handler rejects it before pricing anyway.
	assert.Equal(t, 5500.0, RoomTotal(5500, "2026-01-13", "2026-01-10"))
}

func TestNights(t *testing.T) {
	assert.Equal(t, 3, Nights("2026-01-10", "2026-01-13"))
	assert.Equal(t, 0, Nights("2026-01-10", "2026-01-10"))
	assert.Equal(t, 0, Nights("not-a-date", "2026-01-10"))
}

func TestHallTotal(t *testing.T) {
	assert.Equal(t, 15000.0, HallTotal(15000, false))
	assert.Equal(t, 20000.0, HallTotal(15000, true))
}

func TestCourtTotal(t *testing.T) {
	assert.Equal(t, 450.0, CourtTotal(150, 3))
	assert.Equal(t, 0.0, CourtTotal(150, 0))
}

func TestValidSlot(t *testing.T) {
	assert.True(t, ValidSlot("6:00 AM - 7:00 AM"))
	assert.True(t, ValidSlot("5:00 PM - 6:00 PM"))
	assert.False(t, ValidSlot("6:00 PM - 7:00 PM"))
	assert.False(t, ValidSlot(""))
	assert.Len(t, TimeSlots, 12)
}
