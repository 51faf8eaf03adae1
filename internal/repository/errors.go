// Package repository implements the data access layer.  Every repository is
// a thin struct around a *sql.DB handle; methods take a context and plain
// record types and return typed results or sentinel errors.  Methods whose
// name ends in Tx run inside a caller-owned *sql.Tx.
package repository

import "errors"

// ErrConflict is returned when a write cannot proceed because of existing
// state, such as booking a room over an occupied date range.  Handlers
// translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrSlotTaken is returned when a court booking insert violates the unique
// (court_id, date, time_slot) index.  That index is the final race-safety
// net behind the application-level availability check.
var ErrSlotTaken = errors.New("time slot already booked")

// ErrEmailExists is returned when user creation hits the unique email index.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is the generic missing-row sentinel for catalog resources and
// bookings.  Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")
