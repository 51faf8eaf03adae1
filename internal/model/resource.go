package model

import "time"

// Court mirrors the `courts` table.  A court is booked by the hour using
// the fixed slot labels defined in the pricing package.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – human readable label, e.g. "Court 1".
//  Rate        – price per one-hour slot, two fractional digits.
//  Location    – optional placement note ("Left Side").
//  Surface     – optional surface description.
//  Description – optional marketing text.
//  IsActive    – inactive courts are hidden from the public catalog.
type Court struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Rate        float64   `json:"rate"`
	Location    *string   `json:"location"`
	Surface     *string   `json:"surface"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Room mirrors the `rooms` table.  Rooms are booked per night over a
// [check_in, check_out) date range.
type Room struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
	Size        *string   `json:"size"`
	Description *string   `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FunctionHall mirrors the `function_halls` table.  A hall is booked for a
// whole day at a flat per-4-hours price, with the guest count bounded by
// [MinCapacity, MaxCapacity].
type FunctionHall struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	PricePer4Hrs float64   `json:"price_per_4hrs"`
	MinCapacity  int       `json:"min_capacity"`
	MaxCapacity  int       `json:"max_capacity"`
	Size         *string   `json:"size"`
	Description  *string   `json:"description"`
	IsPremium    bool      `json:"is_premium"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
