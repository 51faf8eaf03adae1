package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kmadriaga/resort-booking-api/internal/middleware"
	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/pricing"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
)

// courtsRoute is the registered path of the cached public listing.
const courtsRoute = "/api/courts"

// CourtHandler serves the pickleball court catalog and per-day slot
// availability.
type CourtHandler struct {
	Courts   *repository.CourtRepo
	Bookings *repository.CourtBookingRepo
	Cache    *middleware.CatalogCache
}

func NewCourtHandler(courts *repository.CourtRepo, bookings *repository.CourtBookingRepo, cache *middleware.CatalogCache) *CourtHandler {
	return &CourtHandler{Courts: courts, Bookings: bookings, Cache: cache}
}

type courtReq struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Rate        float64 `json:"rate" validate:"required,gt=0"`
	Location    *string `json:"location"`
	Surface     *string `json:"surface"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// List returns active courts.  Public; sits behind the response cache.
func (h *CourtHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	courts, err := h.Courts.ListActive(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"courts": courts})
}

// Get returns one court by id.
func (h *CourtHandler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	court, err := h.Courts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "court not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"court": court})
}

// Availability returns, for ?date=YYYY-MM-DD, every canonical slot with an
// availability flag so the front end can render the day grid in one call.
func (h *CourtHandler) Availability(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	date := c.QueryParam("date")
	if _, err := time.Parse(pricing.DateLayout, date); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"date": "date must be a date in YYYY-MM-DD format"},
		})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Courts.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "court not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	booked, err := h.Bookings.BookedSlots(ctx, id, date)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	taken := make(map[string]bool, len(booked))
	for _, s := range booked {
		taken[s] = true
	}

	type slotInfo struct {
		TimeSlot  string `json:"time_slot"`
		Available bool   `json:"available"`
	}
	slots := make([]slotInfo, 0, len(pricing.TimeSlots))
	for _, s := range pricing.TimeSlots {
		slots = append(slots, slotInfo{TimeSlot: s, Available: !taken[s]})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"court_id":     id,
		"date":         date,
		"slots":        slots,
		"booked_slots": booked,
	})
}

// Create adds a court (admin).
func (h *CourtHandler) Create(c echo.Context) error {
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	court := &model.Court{
		Name: req.Name, Rate: req.Rate, Location: req.Location,
		Surface: req.Surface, Description: req.Description, IsActive: active,
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Courts.Create(ctx, court); err != nil {
		return jsonError(c, http.StatusInternalServerError, "create court failed")
	}
	h.Cache.Invalidate(ctx, courtsRoute)
	return c.JSON(http.StatusCreated, echo.Map{"court": court})
}

// Update rewrites a court's fields (admin).
func (h *CourtHandler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	var req courtReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	court, err := h.Courts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "court not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	court.Name = req.Name
	court.Rate = req.Rate
	court.Location = req.Location
	court.Surface = req.Surface
	court.Description = req.Description
	if req.IsActive != nil {
		court.IsActive = *req.IsActive
	}
	if err := h.Courts.Update(ctx, court); err != nil {
		return jsonError(c, http.StatusInternalServerError, "update court failed")
	}
	h.Cache.Invalidate(ctx, courtsRoute)
	return c.JSON(http.StatusOK, echo.Map{"court": court})
}

// Delete removes a court from the catalog (admin).  Catalog resources are
// hard-deleted, unlike bookings which only ever flip status.
func (h *CourtHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Courts.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "court not found")
		}
		return jsonError(c, http.StatusInternalServerError, "delete court failed")
	}
	h.Cache.Invalidate(ctx, courtsRoute)
	return c.JSON(http.StatusOK, echo.Map{"message": "court deleted"})
}
