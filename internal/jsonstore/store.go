// Package jsonstore backs the mock booking API with a single JSON file
// instead of MySQL.  It implements the same court booking contract as the
// SQL repository so the two can be swapped behind one interface, but every
// operation rewrites the whole file under a process-wide lock.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
)

// Store is a file-backed CourtBookingStore.
type Store struct {
	mu   sync.Mutex
	path string
}

type fileData struct {
	NextID   uint64                `json:"next_id"`
	Bookings []*model.CourtBooking `json:"bookings"`
}

// Open prepares a store at path, creating the file with an empty booking
// list when it does not exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		if err := s.save(&fileData{NextID: 1}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() (*fileData, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	var d fileData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	if d.NextID == 0 {
		d.NextID = 1
	}
	return &d, nil
}

// save writes to a temp file and renames it over the store so a crash
// mid-write never leaves a truncated file behind.
func (s *Store) save(d *fileData) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func occupies(b *model.CourtBooking) bool {
	return b.Status == model.StatusPending || b.Status == model.StatusConfirmed
}

// SlotAvailable mirrors the SQL predicate over the in-file booking list.
func (s *Store) SlotAvailable(_ context.Context, courtID uint64, date, slot string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load()
	if err != nil {
		return false, err
	}
	for _, b := range d.Bookings {
		if b.CourtID == courtID && b.Date == date && b.TimeSlot == slot && occupies(b) {
			return false, nil
		}
	}
	return true, nil
}

// BookedSlots returns the occupied slot labels for a court and date.
func (s *Store) BookedSlots(_ context.Context, courtID uint64, date string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load()
	if err != nil {
		return nil, err
	}
	slots := make([]string, 0)
	for _, b := range d.Bookings {
		if b.CourtID == courtID && b.Date == date && occupies(b) {
			slots = append(slots, b.TimeSlot)
		}
	}
	return slots, nil
}

// CreateMany appends the bookings all-or-nothing.  Occupancy is checked
// against the file and against the batch itself, so a request that repeats
// a slot fails the same way a taken slot does.
func (s *Store) CreateMany(_ context.Context, bookings []*model.CourtBooking) error {
	if len(bookings) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load()
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, b := range d.Bookings {
		if occupies(b) {
			seen[key(b.CourtID, b.Date, b.TimeSlot)] = true
		}
	}
	for _, b := range bookings {
		k := key(b.CourtID, b.Date, b.TimeSlot)
		if seen[k] {
			return repository.ErrSlotTaken
		}
		seen[k] = true
	}

	now := time.Now().UTC()
	for _, b := range bookings {
		b.ID = d.NextID
		d.NextID++
		b.CreatedAt = now
		b.UpdatedAt = now
		d.Bookings = append(d.Bookings, b)
	}
	return s.save(d)
}

// List returns pending/confirmed bookings, optionally filtered by court
// and/or date, ordered by date then slot insertion order.
func (s *Store) List(_ context.Context, courtID uint64, date string) ([]*model.CourtBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]*model.CourtBooking, 0)
	for _, b := range d.Bookings {
		if !occupies(b) {
			continue
		}
		if courtID != 0 && b.CourtID != courtID {
			continue
		}
		if date != "" && b.Date != date {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// Delete removes a booking by id.  The mock API exposes hard deletion the
// way the real API never does.
func (s *Store) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load()
	if err != nil {
		return err
	}
	for i, b := range d.Bookings {
		if b.ID == id {
			d.Bookings = append(d.Bookings[:i], d.Bookings[i+1:]...)
			return s.save(d)
		}
	}
	return repository.ErrNotFound
}

func key(courtID uint64, date, slot string) string {
	return strconv.FormatUint(courtID, 10) + "|" + date + "|" + slot
}
