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

// roomsRoute is the registered path of the cached public listing.
const roomsRoute = "/api/rooms"

// RoomHandler serves the hotel room catalog and date-range availability.
type RoomHandler struct {
	Rooms    *repository.RoomRepo
	Bookings *repository.RoomBookingRepo
	Cache    *middleware.CatalogCache
}

func NewRoomHandler(rooms *repository.RoomRepo, bookings *repository.RoomBookingRepo, cache *middleware.CatalogCache) *RoomHandler {
	return &RoomHandler{Rooms: rooms, Bookings: bookings, Cache: cache}
}

type roomReq struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Capacity    int     `json:"capacity" validate:"required,gt=0"`
	Size        *string `json:"size"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// List returns active rooms.  Public; sits behind the response cache.
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	rooms, err := h.Rooms.ListActive(ctx)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "room not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"room": room})
}

// Availability checks ?check_in&check_out against existing stays and quotes
// the total for the range.
func (h *RoomHandler) Availability(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	checkIn, checkOut := c.QueryParam("check_in"), c.QueryParam("check_out")
	msgs := map[string]string{}
	if _, err := time.Parse(pricing.DateLayout, checkIn); err != nil {
		msgs["check_in"] = "check_in must be a date in YYYY-MM-DD format"
	}
	if _, err := time.Parse(pricing.DateLayout, checkOut); err != nil {
		msgs["check_out"] = "check_out must be a date in YYYY-MM-DD format"
	}
	if len(msgs) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": msgs})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "room not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	taken, err := h.Bookings.Overlaps(ctx, id, checkIn, checkOut)
	if err != nil {
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"room_id":     id,
		"check_in":    checkIn,
		"check_out":   checkOut,
		"available":   !taken,
		"nights":      pricing.Nights(checkIn, checkOut),
		"total_price": pricing.RoomTotal(room.Price, checkIn, checkOut),
	})
}

// Create adds a room (admin).  The slug derives from the name; a duplicate
// slug is a 409.
func (h *RoomHandler) Create(c echo.Context) error {
	var req roomReq
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
	room := &model.Room{
		Name: req.Name, Price: req.Price, Capacity: req.Capacity,
		Size: req.Size, Description: req.Description, IsActive: active,
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Rooms.Create(ctx, room); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return jsonError(c, http.StatusConflict, "a room with this name already exists")
		}
		return jsonError(c, http.StatusInternalServerError, "create room failed")
	}
	h.Cache.Invalidate(ctx, roomsRoute)
	return c.JSON(http.StatusCreated, echo.Map{"room": room})
}

func (h *RoomHandler) Update(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid body")
	}
	if !validate(c, &req) {
		return nil
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	room, err := h.Rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "room not found")
		}
		return jsonError(c, http.StatusInternalServerError, "query failed")
	}

	room.Name = req.Name
	room.Price = req.Price
	room.Capacity = req.Capacity
	room.Size = req.Size
	room.Description = req.Description
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}
	if err := h.Rooms.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return jsonError(c, http.StatusConflict, "a room with this name already exists")
		}
		return jsonError(c, http.StatusInternalServerError, "update room failed")
	}
	h.Cache.Invalidate(ctx, roomsRoute)
	return c.JSON(http.StatusOK, echo.Map{"room": room})
}

func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "room not found")
		}
		return jsonError(c, http.StatusInternalServerError, "delete room failed")
	}
	h.Cache.Invalidate(ctx, roomsRoute)
	return c.JSON(http.StatusOK, echo.Map{"message": "room deleted"})
}
