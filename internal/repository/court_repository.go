package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kmadriaga/resort-booking-api/internal/model"
)

// CourtRepo provides CRUD for pickleball courts.
type CourtRepo struct{ db *sql.DB }

func NewCourtRepo(db *sql.DB) *CourtRepo { return &CourtRepo{db: db} }

const courtColumns = `id, name, rate, location, surface, description, is_active, created_at, updated_at`

// Create inserts a court and reads the row back so defaults and timestamps
// are populated on the provided record.
func (r *CourtRepo) Create(ctx context.Context, c *model.Court) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO courts (name, rate, location, surface, description, is_active) VALUES (?,?,?,?,?,?)`,
		c.Name, c.Rate, c.Location, c.Surface, c.Description, c.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return r.db.QueryRowContext(ctx, `SELECT `+courtColumns+` FROM courts WHERE id=?`, c.ID).
		Scan(&c.ID, &c.Name, &c.Rate, &c.Location, &c.Surface, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns a court or ErrNotFound.
func (r *CourtRepo) GetByID(ctx context.Context, id uint64) (*model.Court, error) {
	var c model.Court
	err := r.db.QueryRowContext(ctx, `SELECT `+courtColumns+` FROM courts WHERE id=?`, id).
		Scan(&c.ID, &c.Name, &c.Rate, &c.Location, &c.Surface, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListActive returns all active courts for the public catalog.
func (r *CourtRepo) ListActive(ctx context.Context) ([]*model.Court, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+courtColumns+` FROM courts WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.Court, 0)
	for rows.Next() {
		c := new(model.Court)
		if err := rows.Scan(&c.ID, &c.Name, &c.Rate, &c.Location, &c.Surface, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Update writes the mutable fields of a court.  Returns ErrNotFound when
// the row does not exist.
func (r *CourtRepo) Update(ctx context.Context, c *model.Court) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE courts SET name=?, rate=?, location=?, surface=?, description=?, is_active=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`,
		c.Name, c.Rate, c.Location, c.Surface, c.Description, c.IsActive, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is zero both for a missing row and a no-op update;
		// distinguish with a lookup.
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a court.  Catalog resources are the only entities that are
// hard-deleted; bookings are always soft-cancelled.
func (r *CourtRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courts WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
