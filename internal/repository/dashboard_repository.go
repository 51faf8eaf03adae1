package repository

import (
	"context"
	"database/sql"
)

// DashboardRepo aggregates cross-table statistics for the admin overview.
type DashboardRepo struct{ db *sql.DB }

func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{db: db} }

// StatusCounts groups booking totals by lifecycle status.
type StatusCounts map[string]int

// DashboardStats is the full admin overview payload.
type DashboardStats struct {
	Users         int `json:"users"`
	Courts        int `json:"courts"`
	Rooms         int `json:"rooms"`
	FunctionHalls int `json:"function_halls"`

	CourtBookings StatusCounts `json:"court_bookings"`
	RoomBookings  StatusCounts `json:"room_bookings"`
	HallBookings  StatusCounts `json:"hall_bookings"`

	CourtRevenue float64 `json:"court_revenue"`
	RoomRevenue  float64 `json:"room_revenue"`
	HallRevenue  float64 `json:"hall_revenue"`
	TotalRevenue float64 `json:"total_revenue"`

	BookingsToday int `json:"bookings_today"`

	RecentCourtBookings []CourtBookingDetail `json:"recent_court_bookings"`
	RecentRoomBookings  []RoomBookingDetail  `json:"recent_room_bookings"`
	RecentHallBookings  []HallBookingDetail  `json:"recent_hall_bookings"`
}

func (r *DashboardRepo) count(ctx context.Context, query string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, query).Scan(&n)
	return n, err
}

func (r *DashboardRepo) statusCounts(ctx context.Context, table string) (StatusCounts, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM `+table+` GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := StatusCounts{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (r *DashboardRepo) sum(ctx context.Context, query string) (float64, error) {
	var v sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query).Scan(&v); err != nil {
		return 0, err
	}
	return v.Float64, nil
}

// Stats assembles the overview in one pass.  Court revenue joins the court
// rate since court bookings carry no stored total; room and hall revenue
// sum the totals captured at booking time.  Only bookings that were not
// cancelled count toward revenue.
func (r *DashboardRepo) Stats(ctx context.Context) (*DashboardStats, error) {
	s := &DashboardStats{}
	var err error

	if s.Users, err = r.count(ctx, `SELECT COUNT(*) FROM users WHERE role='user'`); err != nil {
		return nil, err
	}
	if s.Courts, err = r.count(ctx, `SELECT COUNT(*) FROM courts WHERE is_active=1`); err != nil {
		return nil, err
	}
	if s.Rooms, err = r.count(ctx, `SELECT COUNT(*) FROM rooms WHERE is_active=1`); err != nil {
		return nil, err
	}
	if s.FunctionHalls, err = r.count(ctx, `SELECT COUNT(*) FROM function_halls WHERE is_active=1`); err != nil {
		return nil, err
	}

	if s.CourtBookings, err = r.statusCounts(ctx, "court_bookings"); err != nil {
		return nil, err
	}
	if s.RoomBookings, err = r.statusCounts(ctx, "room_bookings"); err != nil {
		return nil, err
	}
	if s.HallBookings, err = r.statusCounts(ctx, "hall_bookings"); err != nil {
		return nil, err
	}

	if s.CourtRevenue, err = r.sum(ctx,
		`SELECT SUM(c.rate) FROM court_bookings b JOIN courts c ON c.id = b.court_id
		 WHERE b.status IN ('confirmed','completed')`); err != nil {
		return nil, err
	}
	if s.RoomRevenue, err = r.sum(ctx,
		`SELECT SUM(total_price) FROM room_bookings
		 WHERE status IN ('confirmed','checked_in','checked_out')`); err != nil {
		return nil, err
	}
	if s.HallRevenue, err = r.sum(ctx,
		`SELECT SUM(total_price) FROM hall_bookings
		 WHERE status IN ('confirmed','completed')`); err != nil {
		return nil, err
	}
	s.TotalRevenue = s.CourtRevenue + s.RoomRevenue + s.HallRevenue

	if s.BookingsToday, err = r.count(ctx,
		`SELECT (SELECT COUNT(*) FROM court_bookings WHERE DATE(created_at)=CURDATE())
		      + (SELECT COUNT(*) FROM room_bookings  WHERE DATE(created_at)=CURDATE())
		      + (SELECT COUNT(*) FROM hall_bookings  WHERE DATE(created_at)=CURDATE())`); err != nil {
		return nil, err
	}

	if s.RecentCourtBookings, err = r.recentCourt(ctx); err != nil {
		return nil, err
	}
	if s.RecentRoomBookings, err = r.recentRoom(ctx); err != nil {
		return nil, err
	}
	if s.RecentHallBookings, err = r.recentHall(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *DashboardRepo) recentCourt(ctx context.Context) ([]CourtBookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, courtBookingJoin+` ORDER BY b.created_at DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]CourtBookingDetail, 0, 5)
	for rows.Next() {
		var d CourtBookingDetail
		if err := scanCourtBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) recentRoom(ctx context.Context) ([]RoomBookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, roomBookingJoin+` ORDER BY b.created_at DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]RoomBookingDetail, 0, 5)
	for rows.Next() {
		var d RoomBookingDetail
		if err := scanRoomBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DashboardRepo) recentHall(ctx context.Context) ([]HallBookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, hallBookingJoin+` ORDER BY b.created_at DESC LIMIT 5`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]HallBookingDetail, 0, 5)
	for rows.Next() {
		var d HallBookingDetail
		if err := scanHallBookingDetail(rows, &d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
