package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/kmadriaga/resort-booking-api/internal/model"
)

// HallRepo provides CRUD for function halls.
type HallRepo struct{ db *sql.DB }

func NewHallRepo(db *sql.DB) *HallRepo { return &HallRepo{db: db} }

const hallColumns = `id, name, slug, price_per_4hrs, min_capacity, max_capacity, size, description, is_premium, is_active, created_at, updated_at`

func (r *HallRepo) scan(row *sql.Row, m *model.FunctionHall) error {
	return row.Scan(&m.ID, &m.Name, &m.Slug, &m.PricePer4Hrs, &m.MinCapacity, &m.MaxCapacity,
		&m.Size, &m.Description, &m.IsPremium, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
}

// Create inserts a hall and reads the row back.  A duplicate slug maps to
// ErrConflict.
func (r *HallRepo) Create(ctx context.Context, m *model.FunctionHall) error {
	if m.Slug == "" {
		m.Slug = Slugify(m.Name)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO function_halls (name, slug, price_per_4hrs, min_capacity, max_capacity, size, description, is_premium, is_active)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		m.Name, m.Slug, m.PricePer4Hrs, m.MinCapacity, m.MaxCapacity, m.Size, m.Description, m.IsPremium, m.IsActive)
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
	return r.scan(r.db.QueryRowContext(ctx, `SELECT `+hallColumns+` FROM function_halls WHERE id=?`, m.ID), m)
}

// GetByID returns a hall or ErrNotFound.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.FunctionHall, error) {
	var m model.FunctionHall
	err := r.scan(r.db.QueryRowContext(ctx, `SELECT `+hallColumns+` FROM function_halls WHERE id=?`, id), &m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListActive returns all active halls for the public catalog.
func (r *HallRepo) ListActive(ctx context.Context) ([]*model.FunctionHall, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+hallColumns+` FROM function_halls WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*model.FunctionHall, 0)
	for rows.Next() {
		m := new(model.FunctionHall)
		if err := rows.Scan(&m.ID, &m.Name, &m.Slug, &m.PricePer4Hrs, &m.MinCapacity, &m.MaxCapacity,
			&m.Size, &m.Description, &m.IsPremium, &m.IsActive, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Update writes the mutable fields of a hall.
func (r *HallRepo) Update(ctx context.Context, m *model.FunctionHall) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE function_halls SET name=?, slug=?, price_per_4hrs=?, min_capacity=?, max_capacity=?, size=?, description=?, is_premium=?, is_active=?, updated_at=CURRENT_TIMESTAMP
		 WHERE id=?`,
		m.Name, m.Slug, m.PricePer4Hrs, m.MinCapacity, m.MaxCapacity, m.Size, m.Description, m.IsPremium, m.IsActive, m.ID)
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

// Delete removes a hall.
func (r *HallRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM function_halls WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
