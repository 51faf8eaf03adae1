package model

import "time"

// Booking status values.  Courts and halls progress pending -> confirmed or
// cancelled (plus a terminal completed set by staff); room bookings extend
// the chain with checked_in -> checked_out.  Cancellation is always a status
// flip, never a row deletion.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusCancelled  = "cancelled"
	StatusCompleted  = "completed"
	StatusCheckedIn  = "checked_in"
	StatusCheckedOut = "checked_out"
)

// DefaultPaymentMethod is applied when a booking request omits one.
const DefaultPaymentMethod = "GCash"

// CourtBooking mirrors the `court_bookings` table.  One row occupies one
// (court_id, date, time_slot) triple; the table carries a unique index over
// that triple which is the only storage-level double-booking guard in the
// system.
type CourtBooking struct {
	ID              uint64    `json:"id"`
	UserID          *uint64   `json:"user_id"`
	CourtID         uint64    `json:"court_id"`
	Date            string    `json:"date"` // YYYY-MM-DD
	TimeSlot        string    `json:"time_slot"`
	CustomerName    string    `json:"customer_name"`
	Phone           *string   `json:"phone"`
	PaymentMethod   string    `json:"payment_method"`
	ReferenceNumber *string   `json:"reference_number"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// RoomBooking mirrors the `room_bookings` table.  Overlap with other active
// bookings of the same room is rejected by an application-level interval
// check; there is no storage constraint backing it.
type RoomBooking struct {
	ID              uint64    `json:"id"`
	UserID          *uint64   `json:"user_id"`
	RoomID          uint64    `json:"room_id"`
	CheckIn         string    `json:"check_in"`  // YYYY-MM-DD
	CheckOut        string    `json:"check_out"` // YYYY-MM-DD
	Guests          int       `json:"guests"`
	GuestName       string    `json:"guest_name"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	PaymentMethod   string    `json:"payment_method"`
	ReferenceNumber *string   `json:"reference_number"`
	SpecialRequests *string   `json:"special_requests"`
	Status          string    `json:"status"`
	TotalPrice      float64   `json:"total_price"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// HallBooking mirrors the `hall_bookings` table.  A hall holds at most one
// active booking per event date, again enforced only in the application.
type HallBooking struct {
	ID              uint64    `json:"id"`
	UserID          *uint64   `json:"user_id"`
	FunctionHallID  uint64    `json:"function_hall_id"`
	FullName        string    `json:"full_name"`
	Phone           string    `json:"phone"`
	Email           *string   `json:"email"`
	Address         *string   `json:"address"`
	EventDate       string    `json:"event_date"` // YYYY-MM-DD
	GuestCount      int       `json:"guest_count"`
	CateringPackage *string   `json:"catering_package"`
	MainDish        *string   `json:"main_dish"`
	Appetizer       *string   `json:"appetizer"`
	Drink           *string   `json:"drink"`
	AvailMiniBar    bool      `json:"avail_mini_bar"`
	PaymentMethod   string    `json:"payment_method"`
	ReferenceNumber *string   `json:"reference_number"`
	Notes           *string   `json:"notes"`
	Status          string    `json:"status"`
	TotalPrice      float64   `json:"total_price"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
