package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/pricing"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
)

// RoomBookingHandler covers the room booking lifecycle.
type RoomBookingHandler struct {
	Rooms    *repository.RoomRepo
	Bookings *repository.RoomBookingRepo
}

func NewRoomBookingHandler(rooms *repository.RoomRepo, bookings *repository.RoomBookingRepo) *RoomBookingHandler {
	return &RoomBookingHandler{Rooms: rooms, Bookings: bookings}
}

type createRoomBookingReq struct {
	RoomID          uint64  `json:"room_id" validate:"required"`
	CheckIn         string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests          int     `json:"guests" validate:"required,gt=0"`
	GuestName       string  `json:"guest_name" validate:"required,max=255"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Phone           *string `json:"phone"`
	PaymentMethod   string  `json:"payment_method"`
	ReferenceNumber *string `json:"reference_number"`
	SpecialRequests *string `json:"special_requests"`
}

type updateRoomBookingReq struct {
	CheckIn         string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	Guests          int     `json:"guests" validate:"required,gt=0"`
	GuestName       string  `json:"guest_name" validate:"required,max=255"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Phone           *string `json:"phone"`
	SpecialRequests *string `json:"special_requests"`
}

// Create books a room for a date range.  The stay must not overlap any
// pending, confirmed or checked-in booking of the same room; that check is
// the only guard, a concurrent identical request can slip through.
func (h *RoomBookingHandler) Create(c echo.Context) error {
	var req createRoomBookingReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}
	if beforeToday(req.CheckIn) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"check_in": "check_in must be today or later"},
		})
	}
	if req.CheckOut < req.CheckIn {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"check_out": "check_out must be on or after check_in"},
		})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "room not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if req.Guests > room.Capacity {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{
				"guests": fmt.Sprintf("guests may not be greater than the room capacity of %d", room.Capacity),
			},
		})
	}

	taken, err := h.Bookings.Overlaps(ctx, req.RoomID, req.CheckIn, req.CheckOut)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if taken {
		return jsonError(c, http.StatusConflict, "room is not available for the selected dates")
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

	b := &model.RoomBooking{
		UserID:          &uid,
		RoomID:          req.RoomID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		GuestName:       req.GuestName,
		Email:           req.Email,
		Phone:           req.Phone,
		PaymentMethod:   payment,
		ReferenceNumber: ref,
		SpecialRequests: req.SpecialRequests,
		Status:          model.StatusConfirmed,
		TotalPrice:      pricing.RoomTotal(room.Price, req.CheckIn, req.CheckOut),
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		return jsonError(c, http.StatusInternalServerError, "create booking failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// ListOwn returns the caller's room bookings.
func (h *RoomBookingHandler) ListOwn(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	items, err := h.Bookings.ListByUser(ctx, authUserID(c))
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

func (h *RoomBookingHandler) Get(c echo.Context) error {
	b, ok := h.authorized(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Update edits stay details.  A changed date range re-runs the overlap
// check against every other booking of the room before anything is
// written; the quoted total follows the range.
func (h *RoomBookingHandler) Update(c echo.Context) error {
	b, ok := h.authorized(c)
	if !ok {
		return nil
	}
	var req updateRoomBookingReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}
	if req.CheckOut < req.CheckIn {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"check_out": "check_out must be on or after check_in"},
		})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, b.RoomID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if req.Guests > room.Capacity {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{
				"guests": fmt.Sprintf("guests may not be greater than the room capacity of %d", room.Capacity),
			},
		})
	}

	if req.CheckIn != b.CheckIn || req.CheckOut != b.CheckOut {
		taken, err := h.Bookings.OverlapsOther(ctx, b.RoomID, req.CheckIn, req.CheckOut, b.ID)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, "query failed")
		}
		if taken {
			return jsonError(c, http.StatusConflict, "room is not available for the selected dates")
		}
	}

	b.CheckIn = req.CheckIn
	b.CheckOut = req.CheckOut
	b.Guests = req.Guests
	b.GuestName = req.GuestName
	b.Email = req.Email
	b.Phone = req.Phone
	b.SpecialRequests = req.SpecialRequests
	b.TotalPrice = pricing.RoomTotal(room.Price, req.CheckIn, req.CheckOut)
	if err := h.Bookings.UpdateFields(ctx, &b.RoomBooking); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update booking failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Cancel soft-cancels a booking.
func (h *RoomBookingHandler) Cancel(c echo.Context) error {
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

func (h *RoomBookingHandler) authorized(c echo.Context) (*repository.RoomBookingDetail, bool) {
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
