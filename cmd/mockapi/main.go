// mockapi is a disposable stand-in for the booking API used while
// prototyping the front end.  It persists court bookings to a single JSON
// file through the same store contract the real server implements over
// MySQL, so the two expose identical occupancy behavior for courts.
package main

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kmadriaga/resort-booking-api/internal/jsonstore"
	"github.com/kmadriaga/resort-booking-api/internal/model"
	"github.com/kmadriaga/resort-booking-api/internal/pricing"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
)

type mockServer struct {
	store repository.CourtBookingStore
	user  string
	pass  string
}

type mockBookingReq struct {
	CourtID      uint64   `json:"court_id"`
	Date         string   `json:"date"`
	TimeSlots    []string `json:"time_slots"`
	CustomerName string   `json:"customer_name"`
	Phone        *string  `json:"phone"`
}

func (s *mockServer) login(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil || req.Email != s.user || req.Password != s.pass {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	// opaque token; the mock trusts everyone who logged in once
	return c.JSON(http.StatusOK, echo.Map{"token": uuid.NewString()})
}

func (s *mockServer) list(c echo.Context) error {
	courtID, _ := strconv.ParseUint(c.QueryParam("court_id"), 10, 64)
	items, err := s.store.List(c.Request().Context(), courtID, c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store read failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

func (s *mockServer) create(c echo.Context) error {
	var req mockBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.CourtID == 0 || req.Date == "" || len(req.TimeSlots) == 0 || req.CustomerName == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": "court_id, date, time_slots and customer_name are required",
		})
	}
	for _, slot := range req.TimeSlots {
		if !pricing.ValidSlot(slot) {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{
				"error": "time slot " + slot + " is not a valid slot",
			})
		}
	}

	ref := uuid.NewString()
	bookings := make([]*model.CourtBooking, 0, len(req.TimeSlots))
	for _, slot := range req.TimeSlots {
		bookings = append(bookings, &model.CourtBooking{
			CourtID:         req.CourtID,
			Date:            req.Date,
			TimeSlot:        slot,
			CustomerName:    req.CustomerName,
			Phone:           req.Phone,
			PaymentMethod:   model.DefaultPaymentMethod,
			ReferenceNumber: &ref,
			Status:          model.StatusConfirmed,
		})
	}

	if err := s.store.CreateMany(c.Request().Context(), bookings); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			unavailable := make([]string, 0, len(req.TimeSlots))
			for _, slot := range req.TimeSlots {
				free, ferr := s.store.SlotAvailable(c.Request().Context(), req.CourtID, req.Date, slot)
				if ferr == nil && !free {
					unavailable = append(unavailable, slot)
				}
			}
			return c.JSON(http.StatusConflict, echo.Map{
				"error":             "some slots are not available",
				"unavailable_slots": unavailable,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store write failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"bookings": bookings})
}

func (s *mockServer) delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := s.store.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store write failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking deleted"})
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	store, err := jsonstore.Open(env("MOCK_STORE_PATH", "data/mock-bookings.json"))
	if err != nil {
		log.Fatalf("jsonstore: %v", err)
	}

	s := &mockServer{
		store: store,
		user:  env("MOCK_USER", "demo@resort.local"),
		pass:  env("MOCK_PASS", "password"),
	}

	e := echo.New()
	e.HideBanner = true
	e.POST("/api/auth/login", s.login)
	e.GET("/api/bookings", s.list)
	e.POST("/api/bookings", s.create)
	e.DELETE("/api/bookings/:id", s.delete)

	addr := ":" + env("MOCK_PORT", "3001")
	log.Printf("mock booking api listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
