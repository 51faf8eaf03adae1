package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/utils"
)

// UserRepo provides persistence for accounts and email verification state.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, name, email, phone, password_hash, role, email_verified_at, verify_token_hash, created_at, updated_at`

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash,
		&u.Role, &u.EmailVerifiedAt, &u.VerifyTokenHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// CreateTx inserts a new user inside the given transaction and returns its
// ID.  Registration wraps user creation and the verification email in one
// transaction so a failed dispatch can roll the account back.  The unique
// email index maps to ErrEmailExists.
func (r *UserRepo) CreateTx(ctx context.Context, tx *sql.Tx, name, email string, phone *string, password, role, verifyTokenHash string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (name, email, phone, password_hash, role, verify_token_hash) VALUES (?,?,?,?,?,?)",
		name, email, phone, hash, role, verifyTokenHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByVerifyHash fetches the user holding a pending verification token.
func (r *UserRepo) GetByVerifyHash(ctx context.Context, tokenHash string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE verify_token_hash=? LIMIT 1", tokenHash))
}

// MarkVerified stamps email_verified_at and clears the pending token.
func (r *UserRepo) MarkVerified(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET email_verified_at=NOW(), verify_token_hash=NULL WHERE id=?", userID)
	return err
}

// SetVerifyToken replaces the pending verification token hash, used when a
// verification email is resent.
func (r *UserRepo) SetVerifyToken(ctx context.Context, userID uint64, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET verify_token_hash=? WHERE id=?", tokenHash, userID)
	return err
}

// UserPage is one page of the admin user listing.
type UserPage struct {
	Items   []AdminUser `json:"items"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

// AdminUser is the sanitized user shape exposed to staff; password and
// token hashes never leave the repository.
type AdminUser struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns a page of users ordered newest first, optionally filtered by
// role.  Page numbers start at 1.
func (r *UserRepo) List(ctx context.Context, role string, page, perPage int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	where := ""
	args := []interface{}{}
	if role != "" {
		where = " WHERE role = ?"
		args = append(args, role)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := "SELECT id, name, email, phone, role, email_verified_at, created_at FROM users" +
		where + " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, perPage, (page-1)*perPage)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]AdminUser, 0)
	for rows.Next() {
		var u AdminUser
		var verifiedAt sql.NullTime
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &verifiedAt, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Verified = verifiedAt.Valid
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &UserPage{Items: items, Total: total, Page: page, PerPage: perPage}, nil
}
