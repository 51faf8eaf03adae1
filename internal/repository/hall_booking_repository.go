package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kmadriaga/resort-booking-api/internal/model"
)

// HallBookingRepo provides persistence for function hall event bookings.
type HallBookingRepo struct{ db *sql.DB }

func NewHallBookingRepo(db *sql.DB) *HallBookingRepo { return &HallBookingRepo{db: db} }

const hallBookingColumns = `id, user_id, function_hall_id, full_name, phone, email, address, DATE_FORMAT(event_date, '%Y-%m-%d'), guest_count, catering_package, main_dish, appetizer, drink, avail_mini_bar, payment_method, reference_number, notes, status, total_price, created_at, updated_at`

func scanHallBooking(s interface{ Scan(...interface{}) error }, b *model.HallBooking) error {
	return s.Scan(&b.ID, &b.UserID, &b.FunctionHallID, &b.FullName, &b.Phone, &b.Email,
		&b.Address, &b.EventDate, &b.GuestCount, &b.CateringPackage, &b.MainDish,
		&b.Appetizer, &b.Drink, &b.AvailMiniBar, &b.PaymentMethod, &b.ReferenceNumber,
		&b.Notes, &b.Status, &b.TotalPrice, &b.CreatedAt, &b.UpdatedAt)
}

// DateTaken reports whether a pending or confirmed event already holds the
// hall on that date.  Halls book whole days only.
func (r *HallBookingRepo) DateTaken(ctx context.Context, hallID uint64, eventDate string) (bool, error) {
	const q = `SELECT EXISTS(
	             SELECT 1 FROM hall_bookings
	             WHERE function_hall_id = ? AND event_date = ?
	               AND status IN ('pending','confirmed'))`
	var taken bool
	if err := r.db.QueryRowContext(ctx, q, hallID, eventDate).Scan(&taken); err != nil {
		return false, err
	}
	return taken, nil
}

// Create inserts a booking and reloads the stored row.  Like rooms, halls
// have no storage-level uniqueness over dates; DateTaken is the only guard.
func (r *HallBookingRepo) Create(ctx context.Context, b *model.HallBooking) error {
	const q = `INSERT INTO hall_bookings
	           (user_id, function_hall_id, full_name, phone, email, address, event_date, guest_count, catering_package, main_dish, appetizer, drink, avail_mini_bar, payment_method, reference_number, notes, status, total_price)
	           VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, b.UserID, b.FunctionHallID, b.FullName, b.Phone,
		b.Email, b.Address, b.EventDate, b.GuestCount, b.CateringPackage, b.MainDish,
		b.Appetizer, b.Drink, b.AvailMiniBar, b.PaymentMethod, b.ReferenceNumber,
		b.Notes, b.Status, b.TotalPrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return scanHallBooking(r.db.QueryRowContext(ctx,
		`SELECT `+hallBookingColumns+` FROM hall_bookings WHERE id=?`, b.ID), b)
}

// HallBookingDetail is a booking joined with its hall for API responses.
type HallBookingDetail struct {
	model.HallBooking
	HallName     string  `json:"hall_name"`
	HallRate     float64 `json:"hall_rate"`
	HallCapacity int     `json:"hall_capacity"`
}

const hallBookingJoin = `SELECT b.id, b.user_id, b.function_hall_id, b.full_name, b.phone, b.email, b.address, DATE_FORMAT(b.event_date, '%Y-%m-%d'), b.guest_count,
       b.catering_package, b.main_dish, b.appetizer, b.drink, b.avail_mini_bar, b.payment_method, b.reference_number, b.notes, b.status, b.total_price, b.created_at, b.updated_at,
       h.name, h.price_per_4hrs, h.max_capacity
  FROM hall_bookings b
  JOIN function_halls h ON h.id = b.function_hall_id`

func scanHallBookingDetail(s interface{ Scan(...interface{}) error }, d *HallBookingDetail) error {
	return s.Scan(&d.ID, &d.UserID, &d.FunctionHallID, &d.FullName, &d.Phone, &d.Email,
		&d.Address, &d.EventDate, &d.GuestCount, &d.CateringPackage, &d.MainDish,
		&d.Appetizer, &d.Drink, &d.AvailMiniBar, &d.PaymentMethod, &d.ReferenceNumber,
		&d.Notes, &d.Status, &d.TotalPrice, &d.CreatedAt, &d.UpdatedAt,
		&d.HallName, &d.HallRate, &d.HallCapacity)
}

func (r *HallBookingRepo) GetByID(ctx context.Context, id uint64) (*HallBookingDetail, error) {
	var d HallBookingDetail
	err := scanHallBookingDetail(r.db.QueryRowContext(ctx, hallBookingJoin+` WHERE b.id = ?`, id), &d)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *HallBookingRepo) ListByUser(ctx context.Context, userID uint64) ([]HallBookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, hallBookingJoin+` WHERE b.user_id = ? ORDER BY b.event_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HallBookingDetail, 0)
	for rows.Next() {
		var d HallBookingDetail
		if err := scanHallBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// UpdateFields writes the editable booking fields.  A date or hall change
// is re-checked against DateTaken by the handler first.
func (r *HallBookingRepo) UpdateFields(ctx context.Context, b *model.HallBooking) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE hall_bookings SET event_date=?, guest_count=?, full_name=?, phone=?, email=?, address=?, catering_package=?, main_dish=?, appetizer=?, drink=?, avail_mini_bar=?, notes=?, total_price=?, status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		b.EventDate, b.GuestCount, b.FullName, b.Phone, b.Email, b.Address,
		b.CateringPackage, b.MainDish, b.Appetizer, b.Drink, b.AvailMiniBar,
		b.Notes, b.TotalPrice, b.Status, b.ID)
	return err
}

func (r *HallBookingRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE hall_bookings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, status, id)
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

// HallBookingPage is one page of the admin hall booking listing.
type HallBookingPage struct {
	Items   []HallBookingDetail `json:"items"`
	Total   int                 `json:"total"`
	Page    int                 `json:"page"`
	PerPage int                 `json:"per_page"`
}

// ListAdmin returns a filtered page of all hall bookings across users.
func (r *HallBookingRepo) ListAdmin(ctx context.Context, status string, hallID uint64, page, perPage int) (*HallBookingPage, error) {
	if page < 1 {
		page = 1
	}
	where := ` WHERE 1=1`
	args := []interface{}{}
	if status != "" {
		where += ` AND b.status = ?`
		args = append(args, status)
	}
	if hallID != 0 {
		where += ` AND b.function_hall_id = ?`
		args = append(args, hallID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM hall_bookings b`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := hallBookingJoin + where + ` ORDER BY b.event_date DESC LIMIT ? OFFSET ?`
	args = append(args, perPage, (page-1)*perPage)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]HallBookingDetail, 0)
	for rows.Next() {
		var d HallBookingDetail
		if err := scanHallBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &HallBookingPage{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}
