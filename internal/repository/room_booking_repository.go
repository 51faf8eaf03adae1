package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kmadriaga/resort-booking-api/internal/model"
)

// RoomBookingRepo provides persistence for hotel room bookings.
type RoomBookingRepo struct{ db *sql.DB }

func NewRoomBookingRepo(db *sql.DB) *RoomBookingRepo { return &RoomBookingRepo{db: db} }

const roomBookingColumns = `id, user_id, room_id, DATE_FORMAT(check_in, '%Y-%m-%d'), DATE_FORMAT(check_out, '%Y-%m-%d'), guests, guest_name, email, phone, payment_method, reference_number, special_requests, status, total_price, created_at, updated_at`

func scanRoomBooking(s interface{ Scan(...interface{}) error }, b *model.RoomBooking) error {
	return s.Scan(&b.ID, &b.UserID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.Guests,
		&b.GuestName, &b.Email, &b.Phone, &b.PaymentMethod, &b.ReferenceNumber,
		&b.SpecialRequests, &b.Status, &b.TotalPrice, &b.CreatedAt, &b.UpdatedAt)
}

// Overlaps reports whether any occupying booking on the room intersects the
// [checkIn, checkOut] stay.  A booking counts while pending, confirmed or
// checked in; cancelled and checked-out stays free the room.  Endpoints are
// inclusive: a stay that merely touches an existing one on its check-in or
// check-out day already conflicts, so back-to-back stays on the same room
// need at least one free day between them.
func (r *RoomBookingRepo) Overlaps(ctx context.Context, roomID uint64, checkIn, checkOut string) (bool, error) {
	return r.overlaps(ctx, roomID, checkIn, checkOut, 0)
}

// OverlapsOther is Overlaps minus the booking's own row, for date edits on
// an existing stay.  Without the exclusion a guest could never extend or
// shift a booking whose new range still touches its current one.
func (r *RoomBookingRepo) OverlapsOther(ctx context.Context, roomID uint64, checkIn, checkOut string, bookingID uint64) (bool, error) {
	return r.overlaps(ctx, roomID, checkIn, checkOut, bookingID)
}

func (r *RoomBookingRepo) overlaps(ctx context.Context, roomID uint64, checkIn, checkOut string, excludeID uint64) (bool, error) {
	q := `SELECT EXISTS(
	        SELECT 1 FROM room_bookings
	        WHERE room_id = ?
	          AND status IN ('pending','confirmed','checked_in')
	          AND (check_in BETWEEN ? AND ?
	            OR check_out BETWEEN ? AND ?
	            OR (check_in <= ? AND check_out >= ?))`
	args := []interface{}{roomID, checkIn, checkOut, checkIn, checkOut, checkIn, checkOut}
	if excludeID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	q += `)`

	var taken bool
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// Create inserts a booking and reloads the stored row.  There is no unique
// index over date ranges, so the overlap pre-check is the only guard; two
// concurrent requests for the same stay can both succeed.
func (r *RoomBookingRepo) Create(ctx context.Context, b *model.RoomBooking) error {
	const q = `INSERT INTO room_bookings
	           (user_id, room_id, check_in, check_out, guests, guest_name, email, phone, payment_method, reference_number, special_requests, status, total_price)
	           VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, b.UserID, b.RoomID, b.CheckIn, b.CheckOut, b.Guests,
		b.GuestName, b.Email, b.Phone, b.PaymentMethod, b.ReferenceNumber,
		b.SpecialRequests, b.Status, b.TotalPrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return scanRoomBooking(r.db.QueryRowContext(ctx,
		`SELECT `+roomBookingColumns+` FROM room_bookings WHERE id=?`, b.ID), b)
}

// RoomBookingDetail is a booking joined with its room for API responses.
type RoomBookingDetail struct {
	model.RoomBooking
	RoomName  string  `json:"room_name"`
	RoomPrice float64 `json:"room_price"`
}

const roomBookingJoin = `SELECT b.id, b.user_id, b.room_id, DATE_FORMAT(b.check_in, '%Y-%m-%d'), DATE_FORMAT(b.check_out, '%Y-%m-%d'), b.guests,
       b.guest_name, b.email, b.phone, b.payment_method, b.reference_number, b.special_requests, b.status, b.total_price, b.created_at, b.updated_at,
       r.name, r.price
  FROM room_bookings b
  JOIN rooms r ON r.id = b.room_id`

func scanRoomBookingDetail(s interface{ Scan(...interface{}) error }, d *RoomBookingDetail) error {
	return s.Scan(&d.ID, &d.UserID, &d.RoomID, &d.CheckIn, &d.CheckOut, &d.Guests,
		&d.GuestName, &d.Email, &d.Phone, &d.PaymentMethod, &d.ReferenceNumber,
		&d.SpecialRequests, &d.Status, &d.TotalPrice, &d.CreatedAt, &d.UpdatedAt,
		&d.RoomName, &d.RoomPrice)
}

func (r *RoomBookingRepo) GetByID(ctx context.Context, id uint64) (*RoomBookingDetail, error) {
	var d RoomBookingDetail
	err := scanRoomBookingDetail(r.db.QueryRowContext(ctx, roomBookingJoin+` WHERE b.id = ?`, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *RoomBookingRepo) ListByUser(ctx context.Context, userID uint64) ([]RoomBookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, roomBookingJoin+` WHERE b.user_id = ? ORDER BY b.check_in DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RoomBookingDetail, 0)
	for rows.Next() {
		var d RoomBookingDetail
		if err := scanRoomBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateFields writes the editable booking fields.  Date or room changes go
// through the handler which re-runs the overlap check first.
func (r *RoomBookingRepo) UpdateFields(ctx context.Context, b *model.RoomBooking) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE room_bookings SET check_in=?, check_out=?, guests=?, guest_name=?, email=?, phone=?, special_requests=?, total_price=?, status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		b.CheckIn, b.CheckOut, b.Guests, b.GuestName, b.Email, b.Phone,
		b.SpecialRequests, b.TotalPrice, b.Status, b.ID)
	return err
}

func (r *RoomBookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE room_bookings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// RoomBookingPage is one page of the admin room booking listing.
type RoomBookingPage struct {
	Items   []RoomBookingDetail `json:"items"`
	Total   int                 `json:"total"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
}

// ListAdmin returns a filtered page of all room bookings across users.
func (r *RoomBookingRepo) ListAdmin(ctx context.Context, status string, roomID uint64, page, perPage int) (*RoomBookingPage, error) {
	if page < 1 {
		page = 1
	}
	where := ` WHERE 1=1`
	args := []interface{}{}
	if status != "" {
		where += ` AND b.status = ?`
		args = append(args, status)
	}
	if roomID != 0 {
		where += ` AND b.room_id = ?`
		args = append(args, roomID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM room_bookings b`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := roomBookingJoin + where + ` ORDER BY b.check_in DESC LIMIT ? OFFSET ?`
	args = append(args, perPage, (page-1)*perPage)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]RoomBookingDetail, 0)
	for rows.Next() {
		var d RoomBookingDetail
		if err := scanRoomBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &RoomBookingPage{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}
