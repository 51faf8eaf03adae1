package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/pricing"
	"github.com/kmadriaga/resort-booking-api/internal/queue"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
)

// AdminHandler serves the staff dashboard, user directory and cross-user
// booking management.  Confirm/cancel actions publish booking events; the
// queue consumer turns those into customer email.
type AdminHandler struct {
	Users         *repository.UserRepo
	Dashboard     *repository.DashboardRepo
	CourtBookings *repository.CourtBookingRepo
	RoomBookings  *repository.RoomBookingRepo
	HallBookings  *repository.HallBookingRepo
}

func NewAdminHandler(users *repository.UserRepo, dash *repository.DashboardRepo,
	cb *repository.CourtBookingRepo, rb *repository.RoomBookingRepo, hb *repository.HallBookingRepo) *AdminHandler {
	return &AdminHandler{Users: users, Dashboard: dash, CourtBookings: cb, RoomBookings: rb, HallBookings: hb}
}

var (
	courtStatuses = map[string]bool{
		model.StatusPending: true, model.StatusConfirmed: true,
		model.StatusCancelled: true, model.StatusCompleted: true,
	}
	roomStatuses = map[string]bool{
		model.StatusPending: true, model.StatusConfirmed: true, model.StatusCancelled: true,
		model.StatusCheckedIn: true, model.StatusCheckedOut: true,
	}
	hallStatuses = map[string]bool{
		model.StatusPending: true, model.StatusConfirmed: true,
		model.StatusCancelled: true, model.StatusCompleted: true,
	}
)

// DashboardStats returns entity counts, per-status booking groupings,
// revenue and recent activity in one payload.
func (h *AdminHandler) DashboardStats(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	stats, err := h.Dashboard.Stats(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, stats)
}

// ListUsers returns a paginated user directory, optionally filtered by
// ?role.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, perPage := pageParams(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	result, err := h.Users.List(ctx, c.QueryParam("role"), page, perPage)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, result)
}

// ----- booking listings -----

func (h *AdminHandler) ListCourtBookings(c echo.Context) error {
	page, perPage := pageParams(c)
	ctx, cancel := dbCtx(c)
	defer cancel()

	result, err := h.CourtBookings.ListAdmin(ctx,
		c.QueryParam("status"), c.QueryParam("date"), queryUint(c, "court_id"), page, perPage)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ListRoomBookings(c echo.Context) error {
	page, perPage := pageParams(c)
	ctx, cancel := dbCtx(c)
	defer cancel()

	result, err := h.RoomBookings.ListAdmin(ctx,
		c.QueryParam("status"), queryUint(c, "room_id"), page, perPage)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ListHallBookings(c echo.Context) error {
	page, perPage := pageParams(c)
	ctx, cancel := dbCtx(c)
	defer cancel()

	result, err := h.HallBookings.ListAdmin(ctx,
		c.QueryParam("status"), queryUint(c, "function_hall_id"), page, perPage)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, result)
}

// ----- status transitions -----

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

// SetCourtBookingStatus writes an arbitrary (valid) status on a court
// booking.
func (h *AdminHandler) SetCourtBookingStatus(c echo.Context) error {
	return h.setStatus(c, courtStatuses, func(ctx context.Context, id uint64, status string) error {
		return h.CourtBookings.UpdateStatus(ctx, id, status)
	})
}

func (h *AdminHandler) SetRoomBookingStatus(c echo.Context) error {
	return h.setStatus(c, roomStatuses, func(ctx context.Context, id uint64, status string) error {
		return h.RoomBookings.UpdateStatus(ctx, id, status)
	})
}

func (h *AdminHandler) SetHallBookingStatus(c echo.Context) error {
	return h.setStatus(c, hallStatuses, func(ctx context.Context, id uint64, status string) error {
		return h.HallBookings.UpdateStatus(ctx, id, status)
	})
}

func (h *AdminHandler) setStatus(c echo.Context, allowed map[string]bool,
	write func(context.Context, uint64, string) error) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !allowed[req.Status] {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"status": "status " + req.Status + " is not valid for this booking type"},
		})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := write(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "booking not found")
		}
		return jsonError(c, http.StatusInternalServerError, "update status failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated", "status": req.Status})
}

// ----- confirm / cancel with events -----

// ConfirmCourtBooking flips a court booking to confirmed and publishes a
// booking event.  Publishing is fire-and-forget: a down broker never undoes
// the status change.
func (h *AdminHandler) ConfirmCourtBooking(c echo.Context) error {
	return h.courtTransition(c, model.StatusConfirmed, queue.KindConfirmed)
}

func (h *AdminHandler) CancelCourtBooking(c echo.Context) error {
	return h.courtTransition(c, model.StatusCancelled, queue.KindCancelled)
}

func (h *AdminHandler) courtTransition(c echo.Context, status, kind string) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.CourtBookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "booking not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if err := h.CourtBookings.UpdateStatus(ctx, id, status); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update status failed")
	}
	b.Status = status

	// Multi-slot bookings share one reference; the event carries the total
	// across all of its rows, not the rate of the row being acted on.
	slots := 1
	if b.ReferenceNumber != nil && *b.ReferenceNumber != "" {
		if n, err := h.CourtBookings.CountByReference(ctx, *b.ReferenceNumber); err == nil && n > 0 {
			slots = n
		}
	}
	total := pricing.CourtTotal(b.CourtRate, slots)

	email := h.customerEmail(ctx, b.UserID)
	go func() {
		_ = queue.Publish(context.Background(), queue.BookingEvent{
			Kind:          kind,
			Resource:      queue.ResourceCourt,
			BookingID:     b.ID,
			CustomerName:  b.CustomerName,
			CustomerEmail: email,
			Summary: fmt.Sprintf("%s on %s, %s (ref %s)",
				b.CourtName, b.Date, b.TimeSlot, strOrDash(b.ReferenceNumber)),
			TotalPrice: total,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusOK, echo.Map{"message": "booking " + status, "booking": b})
}

// ConfirmHallBooking approves a pending hall event and publishes an event.
func (h *AdminHandler) ConfirmHallBooking(c echo.Context) error {
	return h.hallTransition(c, model.StatusConfirmed, queue.KindConfirmed)
}

func (h *AdminHandler) CancelHallBooking(c echo.Context) error {
	return h.hallTransition(c, model.StatusCancelled, queue.KindCancelled)
}

func (h *AdminHandler) hallTransition(c echo.Context, status, kind string) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.HallBookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "booking not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if err := h.HallBookings.UpdateStatus(ctx, id, status); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update status failed")
	}
	b.Status = status

	email := ""
	if b.Email != nil {
		email = *b.Email
	} else {
		email = h.customerEmail(ctx, b.UserID)
	}
	go func() {
		_ = queue.Publish(context.Background(), queue.BookingEvent{
			Kind:          kind,
			Resource:      queue.ResourceHall,
			BookingID:     b.ID,
			CustomerName:  b.FullName,
			CustomerEmail: email,
			Summary: fmt.Sprintf("%s on %s for %d guests (ref %s)",
				b.HallName, b.EventDate, b.GuestCount, strOrDash(b.ReferenceNumber)),
			TotalPrice: b.TotalPrice,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusOK, echo.Map{"message": "booking " + status, "booking": b})
}

// MoveCourtBooking reassigns a booking to another court, date or slot.  The
// target triple must be free; the unique index reports the conflict.
func (h *AdminHandler) MoveCourtBooking(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	var req struct {
		CourtID  uint64 `json:"court_id" validate:"required"`
		Date     string `json:"date" validate:"required,datetime=2006-01-02"`
		TimeSlot string `json:"time_slot" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}
	if !pricing.ValidSlot(req.TimeSlot) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"time_slot": "time slot " + req.TimeSlot + " is not a valid slot"},
		})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	ok, err := h.CourtBookings.SlotAvailable(ctx, req.CourtID, req.Date, req.TimeSlot)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":             "target slot is not available",
			"unavailable_slots": []string{req.TimeSlot},
		})
	}

	if err := h.CourtBookings.Move(ctx, id, req.CourtID, req.Date, req.TimeSlot); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":             "target slot is not available",
				"unavailable_slots": []string{req.TimeSlot},
			})
		case errors.Is(err, repository.ErrNotFound):
			return jsonError(c, http.StatusNotFound, "booking not found")
		}
		return jsonError(c, http.StatusInternalServerError, "move booking failed")
	}

	b, err := h.CourtBookings.GetByID(ctx, id)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking moved", "booking": b})
}

// customerEmail resolves the account email behind a booking, empty when the
// booking has no owning user.
func (h *AdminHandler) customerEmail(ctx context.Context, userID *uint64) string {
	if userID == nil {
		return ""
	}
	u, err := h.Users.GetByID(ctx, *userID)
	if err != nil {
		return ""
	}
	return u.Email
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
