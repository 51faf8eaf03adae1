package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kmadriaga/resort-booking-api/internal/model"
)

// RoomRepo provides CRUD for hotel rooms.
type RoomRepo struct{ db *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, name, slug, price, capacity, size, description, is_active, created_at, updated_at`

// Slugify builds a URL slug from a room or hall name when the client does
// not supply one.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func (r *RoomRepo) scan(row *sql.Row, m *model.Room) error {
	return row.Scan(&m.ID, &m.Name, &m.Slug, &m.Price, &m.Capacity, &m.Size, &m.Description, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a room, generating a slug from the name when empty, and
// reads the row back.  A duplicate slug maps to ErrConflict.
func (r *RoomRepo) Create(ctx context.Context, m *model.Room) error {
	if m.Slug == "" {
		m.Slug = Slugify(m.Name)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (name, slug, price, capacity, size, description, is_active) VALUES (?,?,?,?,?,?,?)`,
		m.Name, m.Slug, m.Price, m.Capacity, m.Size, m.Description, m.IsActive)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id=?`, m.ID), m)
}

// GetByID returns a room or ErrNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	var m model.Room
	err := r.scan(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id=?`, id), &m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListActive returns all active rooms for the public catalog.
func (r *RoomRepo) ListActive(ctx context.Context) ([]*model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Room, 0)
	for rows.Next() {
		m := new(model.Room)
		if err := rows.Scan(&m.ID, &m.Name, &m.Slug, &m.Price, &m.Capacity, &m.Size, &m.Description, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update writes the mutable fields of a room.
func (r *RoomRepo) Update(ctx context.Context, m *model.Room) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE rooms SET name=?, slug=?, price=?, capacity=?, size=?, description=?, is_active=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		m.Name, m.Slug, m.Price, m.Capacity, m.Size, m.Description, m.IsActive, m.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a room.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
