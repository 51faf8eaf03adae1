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

// hallsRoute is the registered path of the cached public listing.
const hallsRoute = "/api/function-halls"

// HallHandler serves the function hall catalog and whole-day availability.
type HallHandler struct {
	Halls    *repository.HallRepo
	Bookings *repository.HallBookingRepo
	Cache    *middleware.CatalogCache
}

func NewHallHandler(halls *repository.HallRepo, bookings *repository.HallBookingRepo, cache *middleware.CatalogCache) *HallHandler {
	return &HallHandler{Halls: halls, Bookings: bookings, Cache: cache}
}

type hallReq struct {
	Name         string  `json:"name" validate:"required,max=255"`
	PricePer4Hrs float64 `json:"price_per_4hrs" validate:"required,gt=0"`
	MinCapacity  int     `json:"min_capacity" validate:"required,gt=0"`
	MaxCapacity  int     `json:"max_capacity" validate:"required,gtefield=MinCapacity"`
	Size         *string `json:"size"`
	Description  *string `json:"description"`
	IsPremium    *bool   `json:"is_premium"`
	IsActive     *bool   `json:"is_active"`
}

// List returns active halls.  Public; sits behind the response cache.
func (h *HallHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	halls, err := h.Halls.ListActive(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"function_halls": halls})
}

func (h *HallHandler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "function hall not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"function_hall": hall})
}

// Availability reports whether ?event_date is free for the hall.
func (h *HallHandler) Availability(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	date := c.QueryParam("event_date")
	if _, err := time.Parse(pricing.DateLayout, date); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"errors": map[string]string{"event_date": "event_date must be a date in YYYY-MM-DD format"},
		})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if _, err := h.Halls.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "function hall not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	taken, err := h.Bookings.DateTaken(ctx, id, date)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"function_hall_id": id,
		"event_date":       date,
		"available":        !taken,
	})
}

// Create adds a hall (admin).
func (h *HallHandler) Create(c echo.Context) error {
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}

	active, premium := true, false
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if req.IsPremium != nil {
		premium = *req.IsPremium
	}
	hall := &model.FunctionHall{
		Name: req.Name, PricePer4Hrs: req.PricePer4Hrs,
		MinCapacity: req.MinCapacity, MaxCapacity: req.MaxCapacity,
		Size: req.Size, Description: req.Description,
		IsPremium: premium, IsActive: active,
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Halls.Create(ctx, hall); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return jsonError(c, http.StatusConflict, "a function hall with this name already exists")
		}
		return jsonError(c, http.StatusInternalServerError, "create function hall failed")
	}
	h.Cache.Invalidate(ctx, hallsRoute)
	return c.JSON(http.StatusCreated, echo.Map{"function_hall": hall})
}

func (h *HallHandler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "function hall not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	hall.Name = req.Name
	hall.PricePer4Hrs = req.PricePer4Hrs
	hall.MinCapacity = req.MinCapacity
	hall.MaxCapacity = req.MaxCapacity
	hall.Size = req.Size
	hall.Description = req.Description
	if req.IsPremium != nil {
		hall.IsPremium = *req.IsPremium
	}
	if req.IsActive != nil {
		hall.IsActive = *req.IsActive
	}
	if err := h.Halls.Update(ctx, hall); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return jsonError(c, http.StatusConflict, "a function hall with this name already exists")
		}
		return jsonError(c, http.StatusInternalServerError, "update function hall failed")
	}
	h.Cache.Invalidate(ctx, hallsRoute)
	return c.JSON(http.StatusOK, echo.Map{"function_hall": hall})
}

func (h *HallHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Halls.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "function hall not found")
		}
		return jsonError(c, http.StatusInternalServerError, "delete function hall failed")
	}
	h.Cache.Invalidate(ctx, hallsRoute)
	return c.JSON(http.StatusOK, echo.Map{"message": "function hall deleted"})
}
