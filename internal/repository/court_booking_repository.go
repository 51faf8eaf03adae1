package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kmadriaga/resort-booking-api/internal/model"
)

// CourtBookingStore is the contract shared by the SQL-backed repository and
// the JSON-file store behind the mock API.  Both enforce the same
// (court, date, time_slot) occupancy rule; only the SQL store has a real
// storage-level guarantee behind it.
type CourtBookingStore interface {
	SlotAvailable(ctx context.Context, courtID uint64, date, slot string) (bool, error)
	BookedSlots(ctx context.Context, courtID uint64, date string) ([]string, error)
	CreateMany(ctx context.Context, bookings []*model.CourtBooking) error
	List(ctx context.Context, courtID uint64, date string) ([]*model.CourtBooking, error)
	Delete(ctx context.Context, id uint64) error
}

// CourtBookingRepo provides persistence for pickleball court bookings.
type CourtBookingRepo struct{ db *sql.DB }

func NewCourtBookingRepo(db *sql.DB) *CourtBookingRepo { return &CourtBookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span multiple repositories.
func (r *CourtBookingRepo) DB() *sql.DB { return r.db }

const courtBookingColumns = `id, user_id, court_id, DATE_FORMAT(date, '%Y-%m-%d'), time_slot, customer_name, phone, payment_method, reference_number, status, created_at, updated_at`

func scanCourtBooking(s interface{ Scan(...interface{}) error }, b *model.CourtBooking) error {
	return s.Scan(&b.ID, &b.UserID, &b.CourtID, &b.Date, &b.TimeSlot, &b.CustomerName,
		&b.Phone, &b.PaymentMethod, &b.ReferenceNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

// SlotAvailable reports whether no pending/confirmed booking occupies the
// (court, date, slot) triple.  Cancelled and completed rows free the slot.
func (r *CourtBookingRepo) SlotAvailable(ctx context.Context, courtID uint64, date, slot string) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM court_bookings
	             WHERE court_id = ? AND date = ? AND time_slot = ?
	               AND status IN ('pending','confirmed'))`
	var taken bool
	if err := r.db.QueryRowContext(ctx, q, courtID, date, slot).Scan(&taken); err != nil {
		return false, err
	}
	return !taken, nil
}

// BookedSlots returns the slot labels occupied on a court for a given date.
func (r *CourtBookingRepo) BookedSlots(ctx context.Context, courtID uint64, date string) ([]string, error) {
	const q = `SELECT time_slot FROM court_bookings
	           WHERE court_id = ? AND date = ? AND status IN ('pending','confirmed')`
	rows, err := r.db.QueryContext(ctx, q, courtID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

// CreateMany inserts one row per requested slot inside a single transaction
// so a multi-slot request never partially persists.  A violation of the
// unique (court_id, date, time_slot) index maps to ErrSlotTaken and rolls
// everything back; this is the race-safety net behind the availability
// pre-check.
func (r *CourtBookingRepo) CreateMany(ctx context.Context, bookings []*model.CourtBooking) error {
	if len(bookings) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO court_bookings
	           (user_id, court_id, date, time_slot, customer_name, phone, payment_method, reference_number, status)
	           VALUES (?,?,?,?,?,?,?,?,?)`
	for _, b := range bookings {
		res, err := tx.ExecContext(ctx, q, b.UserID, b.CourtID, b.Date, b.TimeSlot,
			b.CustomerName, b.Phone, b.PaymentMethod, b.ReferenceNumber, b.Status)
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "1062") {
				return ErrSlotTaken
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		b.ID = uint64(id)
	}
	for _, b := range bookings {
		if err := scanCourtBooking(tx.QueryRowContext(ctx,
			`SELECT `+courtBookingColumns+` FROM court_bookings WHERE id=?`, b.ID), b); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// List returns pending/confirmed bookings, optionally narrowed to one court
// and/or one date.  The public availability display feeds off this.
func (r *CourtBookingRepo) List(ctx context.Context, courtID uint64, date string) ([]*model.CourtBooking, error) {
	q := `SELECT ` + courtBookingColumns + ` FROM court_bookings WHERE status IN ('pending','confirmed')`
	args := []interface{}{}
	if courtID != 0 {
		q += ` AND court_id = ?`
		args = append(args, courtID)
	}
	if date != "" {
		q += ` AND date = ?`
		args = append(args, date)
	}
	q += ` ORDER BY date, time_slot`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.CourtBooking, 0)
	for rows.Next() {
		b := new(model.CourtBooking)
		if err := scanCourtBooking(rows, b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Delete removes a booking row.  Only the mock store contract uses hard
// deletion; the API's DELETE endpoints go through Cancel instead.
func (r *CourtBookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM court_bookings WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CourtBookingDetail is a booking joined with its court for API responses.
type CourtBookingDetail struct {
	model.CourtBooking
	CourtName string  `json:"court_name"`
	CourtRate float64 `json:"court_rate"`
}

const courtBookingJoin = `SELECT b.id, b.user_id, b.court_id, DATE_FORMAT(b.date, '%Y-%m-%d'), b.time_slot,
       b.customer_name, b.phone, b.payment_method, b.reference_number, b.status, b.created_at, b.updated_at,
       c.name, c.rate
  FROM court_bookings b
  JOIN courts c ON c.id = b.court_id`

func scanCourtBookingDetail(s interface{ Scan(...interface{}) error }, d *CourtBookingDetail) error {
	return s.Scan(&d.ID, &d.UserID, &d.CourtID, &d.Date, &d.TimeSlot, &d.CustomerName,
		&d.Phone, &d.PaymentMethod, &d.ReferenceNumber, &d.Status, &d.CreatedAt, &d.UpdatedAt,
		&d.CourtName, &d.CourtRate)
}

// GetByID returns one booking with court details, or ErrNotFound.
func (r *CourtBookingRepo) GetByID(ctx context.Context, id uint64) (*CourtBookingDetail, error) {
	var d CourtBookingDetail
	err := scanCourtBookingDetail(r.db.QueryRowContext(ctx, courtBookingJoin+` WHERE b.id = ?`, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListByUser returns all bookings a user made, newest date first.
func (r *CourtBookingRepo) ListByUser(ctx context.Context, userID uint64) ([]CourtBookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, courtBookingJoin+` WHERE b.user_id = ? ORDER BY b.date DESC, b.time_slot`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CourtBookingDetail, 0)
	for rows.Next() {
		var d CourtBookingDetail
		if err := scanCourtBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateFields writes the editable booking fields (status, customer name,
// phone).  Status transitions are validated by the handler.
func (r *CourtBookingRepo) UpdateFields(ctx context.Context, b *model.CourtBooking) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE court_bookings SET status=?, customer_name=?, phone=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		b.Status, b.CustomerName, b.Phone, b.ID)
	return err
}

// UpdateStatus flips a booking's status.  Soft cancellation goes through
// here; rows are never removed.
func (r *CourtBookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE court_bookings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, status, id)
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

// Move reassigns a booking to another court, date or slot.  The unique
// index rejects a move onto an occupied triple with ErrSlotTaken.
func (r *CourtBookingRepo) Move(ctx context.Context, id, courtID uint64, date, slot string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE court_bookings SET court_id=?, date=?, time_slot=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		courtID, date, slot, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrSlotTaken
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// CountByReference returns how many booking rows share a reference number.
// A multi-slot request inserts one row per slot under a single reference,
// so this is the slot count of the whole booking.
func (r *CourtBookingRepo) CountByReference(ctx context.Context, ref string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM court_bookings WHERE reference_number = ?`, ref).Scan(&n)
	return n, err
}

// CourtBookingPage is one page of the admin booking listing.
type CourtBookingPage struct {
	Items   []CourtBookingDetail `json:"items"`
	Total   int                  `json:"total"`
	Page    int                  `json:"page"`
	PerPage int                  `json:"per_page"`
}

// ListAdmin returns a filtered page of all court bookings across users,
// ordered by date descending then slot ascending.
func (r *CourtBookingRepo) ListAdmin(ctx context.Context, status, date string, courtID uint64, page, perPage int) (*CourtBookingPage, error) {
	if page < 1 {
		page = 1
	}
	where := ` WHERE 1=1`
	args := []interface{}{}
	if status != "" {
		where += ` AND b.status = ?`
		args = append(args, status)
	}
	if date != "" {
		where += ` AND b.date = ?`
		args = append(args, date)
	}
	if courtID != 0 {
		where += ` AND b.court_id = ?`
		args = append(args, courtID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM court_bookings b`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := courtBookingJoin + where + ` ORDER BY b.date DESC, b.time_slot ASC LIMIT ? OFFSET ?`
	args = append(args, perPage, (page-1)*perPage)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]CourtBookingDetail, 0)
	for rows.Next() {
		var d CourtBookingDetail
		if err := scanCourtBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &CourtBookingPage{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}
