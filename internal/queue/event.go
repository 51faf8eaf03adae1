// Package queue carries booking lifecycle events over RabbitMQ.  Admin
// confirm/cancel actions publish; a background consumer appends an audit
// line to logs/booking.log and emails the customer.
package queue

// Event kinds and the queue they travel on.
const (
	QueueName      = "booking.events"
	KindConfirmed  = "confirmed"
	KindCancelled  = "cancelled"
	ResourceCourt  = "court"
	ResourceRoom   = "room"
	ResourceHall   = "function hall"
)

// BookingEvent describes a confirmed or cancelled booking of any resource
// type.  The payload carries everything the consumer needs so it never has
// to reach back into the database.
type BookingEvent struct {
	Kind          string  `json:"kind"`     // confirmed | cancelled
	Resource      string  `json:"resource"` // court | room | function hall
	BookingID     uint64  `json:"booking_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email,omitempty"`
	Summary       string  `json:"summary"` // human-readable booking details
	TotalPrice    float64 `json:"total_price"`
	OccurredAt    string  `json:"occurred_at"` // RFC 3339
}
