package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/pricing"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
)

// CourtBookingHandler covers the customer-facing court booking lifecycle:
// multi-slot creation, listing, inspection, edits and soft cancellation.
type CourtBookingHandler struct {
	Courts   *repository.CourtRepo
	Bookings *repository.CourtBookingRepo
}

func NewCourtBookingHandler(courts *repository.CourtRepo, bookings *repository.CourtBookingRepo) *CourtBookingHandler {
	return &CourtBookingHandler{Courts: courts, Bookings: bookings}
}

type createCourtBookingReq struct {
	CourtID         uint64   `json:"court_id" validate:"required"`
	Date            string   `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlots       []string `json:"time_slots" validate:"required,min=1"`
	CustomerName    string   `json:"customer_name" validate:"required,max=255"`
	Phone           *string  `json:"phone"`
	PaymentMethod   string   `json:"payment_method"`
	ReferenceNumber *string  `json:"reference_number"`
}

type updateCourtBookingReq struct {
	CustomerName string  `json:"customer_name" validate:"required,max=255"`
	Phone        *string `json:"phone"`
}

// Create books one or more slots on a court for one date.  Every requested
// slot must be free; otherwise the request fails as a whole with the list
// of unavailable slots.  The insert itself runs in one transaction and the
// unique index catches races the pre-check missed.
func (h *CourtBookingHandler) Create(c echo.Context) error {
	var req createCourtBookingReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}

	for _, s := range req.TimeSlots {
		if !pricing.ValidSlot(s) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"errors": map[string]string{"time_slots": "time slot " + s + " is not a valid slot"},
			})
		}
	}
	if beforeToday(req.Date) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"date": "date must be today or later"},
		})
	}
	// duplicates inside the request count as unavailable too
	seen := map[string]bool{}
	for _, s := range req.TimeSlots {
		if seen[s] {
			return c.JSON(http.StatusConflict, echo.Map{
				"error":             "some slots are not available",
				"unavailable_slots": []string{s},
			})
		}
		seen[s] = true
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	court, err := h.Courts.GetByID(ctx, req.CourtID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "court not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	unavailable, err := h.unavailableSlots(c, req.CourtID, req.Date, req.TimeSlots)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if len(unavailable) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":             "some slots are not available",
			"unavailable_slots": unavailable,
		})
	}

	uid := authUserID(c)
	payment := req.PaymentMethod
	if payment == "" {
		payment = model.DefaultPaymentMethod
	}
	ref := req.ReferenceNumber
	if ref == nil {
		generated := uuid.NewString()
		ref = &generated
	}

	bookings := make([]*model.CourtBooking, 0, len(req.TimeSlots))
	for _, slot := range req.TimeSlots {
		bookings = append(bookings, &model.CourtBooking{
			UserID:          &uid,
			CourtID:         req.CourtID,
			Date:            req.Date,
			TimeSlot:        slot,
			CustomerName:    req.CustomerName,
			Phone:           req.Phone,
			PaymentMethod:   payment,
			ReferenceNumber: ref,
			Status:          model.StatusConfirmed,
		})
	}

	if err := h.Bookings.CreateMany(ctx, bookings); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			// lost the race; report whatever is taken now
			unavailable, qerr := h.unavailableSlots(c, req.CourtID, req.Date, req.TimeSlots)
			if qerr != nil || len(unavailable) == 0 {
				unavailable = req.TimeSlots
			}
			return c.JSON(http.StatusConflict, echo.Map{
				"error":             "some slots are not available",
				"unavailable_slots": unavailable,
			})
		}
		return jsonError(c, http.StatusInternalServerError, "create booking failed")
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"bookings":   bookings,
		"total_cost": pricing.CourtTotal(court.Rate, len(bookings)),
	})
}

func (h *CourtBookingHandler) unavailableSlots(c echo.Context, courtID uint64, date string, requested []string) ([]string, error) {
	ctx, cancel := dbCtx(c)
	defer cancel()

	booked, err := h.Bookings.BookedSlots(ctx, courtID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, s := range booked {
		taken[s] = true
	}
	out := make([]string, 0)
	for _, s := range requested {
		if taken[s] {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListOwn returns the caller's court bookings.
func (h *CourtBookingHandler) ListOwn(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	items, err := h.Bookings.ListByUser(ctx, authUserID(c))
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// ListAll is the public availability feed: active bookings optionally
// narrowed by ?court_id and ?date.
func (h *CourtBookingHandler) ListAll(c echo.Context) error {
	courtID := queryUint(c, "court_id")
	date := c.QueryParam("date")
	if date != "" {
		if _, err := time.Parse(pricing.DateLayout, date); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"errors": map[string]string{"date": "date must be a date in YYYY-MM-DD format"},
			})
		}
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	items, err := h.Bookings.List(ctx, courtID, date)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// Get shows one booking to its owner or an admin.
func (h *CourtBookingHandler) Get(c echo.Context) error {
	b, ok := h.authorized(c)
	if !ok {
		return nil // response already written
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Update lets the owner or an admin edit contact details.
func (h *CourtBookingHandler) Update(c echo.Context) error {
	b, ok := h.authorized(c)
	if !ok {
		return nil
	}
	var req updateCourtBookingReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	b.CustomerName = req.CustomerName
	b.Phone = req.Phone
	if err := h.Bookings.UpdateFields(ctx, &b.CourtBooking); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update booking failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Cancel soft-cancels a booking; the row stays for history and reporting.
func (h *CourtBookingHandler) Cancel(c echo.Context) error {
	b, ok := h.authorized(c)
	if !ok {
		return nil
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Bookings.UpdateStatus(ctx, b.ID, model.StatusCancelled); err != nil {
		return jsonError(c, http.StatusInternalServerError, "cancel booking failed")
	}
	b.Status = model.StatusCancelled
	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled", "booking": b})
}

// authorized loads the booking behind :id and enforces the owner-or-admin
// rule, writing the error response itself on failure.
func (h *CourtBookingHandler) authorized(c echo.Context) (*repository.CourtBookingDetail, bool) {
	id, err := paramID(c)
	if err != nil {
		_ = jsonError(c, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = jsonError(c, http.StatusNotFound, "booking not found")
		} else {
			_ = jsonError(c, http.StatusInternalServerError, "query failed")
		}
		return nil, false
	}
	if !canAccessBooking(authUserID(c), authRole(c), b.UserID) {
		_ = jsonError(c, http.StatusForbidden, "forbidden")
		return nil, false
	}
	return b, true
}
