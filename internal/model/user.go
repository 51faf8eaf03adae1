package model

import "time"

// Role values stored in users.role.  The original schema only knows two
// roles: regular customers and resort staff with full admin rights.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User mirrors the `users` table.  PasswordHash holds a bcrypt digest and
// is never serialized; handlers expose their own response shapes.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – display name of the account holder.
//  Email           – unique, normalized (lower case) email address.
//  Phone           – optional contact number.
//  PasswordHash    – bcrypt hashed password.
//  Role            – "user" or "admin".
//  EmailVerifiedAt – when the address was verified; nil until the user
//                    follows the emailed verification link.
//  VerifyTokenHash – SHA-256 hex digest of the pending verification token;
//                    nil once the address is verified.
type User struct {
	ID              uint64
	Name            string
	Email           string
	Phone           *string
	PasswordHash    string
	Role            string
	EmailVerifiedAt *time.Time
	VerifyTokenHash *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Verified reports whether the user completed email verification.
func (u *User) Verified() bool { return u.EmailVerifiedAt != nil }

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is persisted.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
