// Package pricing holds the stateless availability vocabulary (the fixed
// court slot grid) and the price calculators.  Everything here is a pure
// function of its inputs so the handlers and the mock store can share it.
package pricing

import "time"

// TimeSlots is the canonical list of bookable one-hour court slots.  The
// labels double as the `time_slot` column values, so they must not change
// once bookings exist.
var TimeSlots = []string{
	"6:00 AM - 7:00 AM", "7:00 AM - 8:00 AM", "8:00 AM - 9:00 AM",
	"9:00 AM - 10:00 AM", "10:00 AM - 11:00 AM", "11:00 AM - 12:00 PM",
	"12:00 PM - 1:00 PM", "1:00 PM - 2:00 PM", "2:00 PM - 3:00 PM",
	"3:00 PM - 4:00 PM", "4:00 PM - 5:00 PM", "5:00 PM - 6:00 PM",
}

// ValidSlot reports whether label is one of the canonical slots.
func ValidSlot(label string) bool {
	for _, s := range TimeSlots {
		if s == label {
			return true
		}
	}
	return false
}

// HallMiniBarSurcharge is the flat surcharge added to a hall booking when
// the mini-bar option is selected.
const HallMiniBarSurcharge = 5000.0

// DateLayout is the wire and storage format for all booking dates.
const DateLayout = "2006-01-02"

// Nights returns the whole-day difference between check-in and check-out.
// Malformed dates yield zero, which the caller treats as a same-day stay.
func Nights(checkIn, checkOut string) int {
	in, err1 := time.Parse(DateLayout, checkIn)
	out, err2 := time.Parse(DateLayout, checkOut)
	if err1 != nil || err2 != nil {
		return 0
	}
	n := int(out.Sub(in).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// RoomTotal computes the stay price: rate per night times the number of
// nights, with a same-day booking charged one full night.
func RoomTotal(rate float64, checkIn, checkOut string) float64 {
	if n := Nights(checkIn, checkOut); n > 0 {
		return rate * float64(n)
	}
	return rate
}

// HallTotal computes the event price: the flat per-4-hours rate plus the
// mini-bar surcharge when selected.
func HallTotal(pricePer4Hrs float64, availMiniBar bool) float64 {
	if availMiniBar {
		return pricePer4Hrs + HallMiniBarSurcharge
	}
	return pricePer4Hrs
}

// CourtTotal computes the court price: the hourly rate times the number of
// booked slots.
func CourtTotal(rate float64, slotCount int) float64 {
	return rate * float64(slotCount)
}
