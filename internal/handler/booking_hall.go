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

// HallBookingHandler covers the function hall booking lifecycle.  Hall
// bookings start pending and wait for staff confirmation.
type HallBookingHandler struct {
	Halls    *repository.HallRepo
	Bookings *repository.HallBookingRepo
}

func NewHallBookingHandler(halls *repository.HallRepo, bookings *repository.HallBookingRepo) *HallBookingHandler {
	return &HallBookingHandler{Halls: halls, Bookings: bookings}
}

type createHallBookingReq struct {
	FunctionHallID  uint64  `json:"function_hall_id" validate:"required"`
	FullName        string  `json:"full_name" validate:"required,max=255"`
	Phone           string  `json:"phone" validate:"required,max=32"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Address         *string `json:"address"`
	EventDate       string  `json:"event_date" validate:"required,datetime=2006-01-02"`
	GuestCount      int     `json:"guest_count" validate:"required,gt=0"`
	CateringPackage *string `json:"catering_package"`
	MainDish        *string `json:"main_dish"`
	Appetizer       *string `json:"appetizer"`
	Drink           *string `json:"drink"`
	AvailMiniBar    bool    `json:"avail_mini_bar"`
	PaymentMethod   string  `json:"payment_method"`
	ReferenceNumber *string `json:"reference_number"`
	Notes           *string `json:"notes"`
}

type updateHallBookingReq struct {
	FullName        string  `json:"full_name" validate:"required,max=255"`
	Phone           string  `json:"phone" validate:"required,max=32"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Address         *string `json:"address"`
	EventDate       string  `json:"event_date" validate:"required,datetime=2006-01-02"`
	GuestCount      int     `json:"guest_count" validate:"required,gt=0"`
	CateringPackage *string `json:"catering_package"`
	MainDish        *string `json:"main_dish"`
	Appetizer       *string `json:"appetizer"`
	Drink           *string `json:"drink"`
	AvailMiniBar    bool    `json:"avail_mini_bar"`
	Notes           *string `json:"notes"`
}

// guestCountError builds the 422 body echoing the hall's capacity bounds.
func guestCountError(c echo.Context, hall *model.FunctionHall) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{
		"errors": map[string]string{
			"guest_count": fmt.Sprintf("guest_count must be between %d and %d for this hall",
				hall.MinCapacity, hall.MaxCapacity),
		},
		"min_capacity": hall.MinCapacity,
		"max_capacity": hall.MaxCapacity,
	})
}

// Create books a hall for a whole day.  Guest count must sit inside the
// hall's capacity bounds and the date must be free of other pending or
// confirmed events.
func (h *HallBookingHandler) Create(c echo.Context) error {
	var req createHallBookingReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}
	if beforeToday(req.EventDate) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"event_date": "event_date must be today or later"},
		})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	hall, err := h.Halls.GetByID(ctx, req.FunctionHallID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "function hall not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if req.GuestCount < hall.MinCapacity || req.GuestCount > hall.MaxCapacity {
		return guestCountError(c, hall)
	}

	taken, err := h.Bookings.DateTaken(ctx, req.FunctionHallID, req.EventDate)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if taken {
		return jsonError(c, http.StatusConflict, "function hall is not available on the selected date")
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

	b := &model.HallBooking{
		UserID:          &uid,
		FunctionHallID:  req.FunctionHallID,
		FullName:        req.FullName,
		Phone:           req.Phone,
		Email:           req.Email,
		Address:         req.Address,
		EventDate:       req.EventDate,
		GuestCount:      req.GuestCount,
		CateringPackage: req.CateringPackage,
		MainDish:        req.MainDish,
		Appetizer:       req.Appetizer,
		Drink:           req.Drink,
		AvailMiniBar:    req.AvailMiniBar,
		PaymentMethod:   payment,
		ReferenceNumber: ref,
		Notes:           req.Notes,
		Status:          model.StatusPending,
		TotalPrice:      pricing.HallTotal(hall.PricePer4Hrs, req.AvailMiniBar),
	}
	if err := h.Bookings.Create(ctx, b); err != nil {
		return jsonError(c, http.StatusInternalServerError, "create booking failed")
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": b})
}

// ListOwn returns the caller's hall bookings.
func (h *HallBookingHandler) ListOwn(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	items, err := h.Bookings.ListByUser(ctx, authUserID(c))
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

func (h *HallBookingHandler) Get(c echo.Context) error {
	b, ok := h.authorized(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Update edits event details.  A changed date re-runs the availability
// check; guest count is re-validated against the hall's bounds.
func (h *HallBookingHandler) Update(c echo.Context) error {
	b, ok := h.authorized(c)
	if !ok {
		return nil
	}
	var req updateHallBookingReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	hall, err := h.Halls.GetByID(ctx, b.FunctionHallID)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	if req.GuestCount < hall.MinCapacity || req.GuestCount > hall.MaxCapacity {
		return guestCountError(c, hall)
	}

	if req.EventDate != b.EventDate {
		taken, err := h.Bookings.DateTaken(ctx, b.FunctionHallID, req.EventDate)
		if err != nil {
			return jsonError(c, http.StatusInternalServerError, "query failed")
		}
		if taken {
			return jsonError(c, http.StatusConflict, "function hall is not available on the selected date")
		}
	}

	b.FullName = req.FullName
	b.Phone = req.Phone
	b.Email = req.Email
	b.Address = req.Address
	b.EventDate = req.EventDate
	b.GuestCount = req.GuestCount
	b.CateringPackage = req.CateringPackage
	b.MainDish = req.MainDish
	b.Appetizer = req.Appetizer
	b.Drink = req.Drink
	b.AvailMiniBar = req.AvailMiniBar
	b.Notes = req.Notes
	b.TotalPrice = pricing.HallTotal(hall.PricePer4Hrs, req.AvailMiniBar)
	if err := h.Bookings.UpdateFields(ctx, &b.HallBooking); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update booking failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Cancel soft-cancels a booking.
func (h *HallBookingHandler) Cancel(c echo.Context) error {
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

func (h *HallBookingHandler) authorized(c echo.Context) (*repository.HallBookingDetail, bool) {
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
