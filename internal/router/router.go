// Package router wires handlers to routes.  The surface splits into four
// tiers: public catalog/availability reads (cached), auth endpoints,
// JWT-protected booking routes and the admin group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/kmadriaga/resort-booking-api/internal/config"
	"github.com/kmadriaga/resort-booking-api/internal/handler"
	"github.com/kmadriaga/resort-booking-api/internal/middleware"
	"github.com/kmadriaga/resort-booking-api/internal/model"
)

// Handlers collects every handler the server mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	Courts        *handler.CourtHandler
	Rooms         *handler.RoomHandler
	Halls         *handler.HallHandler
	CourtBookings *handler.CourtBookingHandler
	RoomBookings  *handler.RoomBookingHandler
	HallBookings  *handler.HallBookingHandler
	Admin         *handler.AdminHandler
}

// Register mounts all routes.  rdb may be nil; the cache and rate limiter
// then degrade to pass-throughs.  The limiter counts in three scopes:
// coarse default on everything, a tight bucket on the auth endpoints and a
// booking bucket on booking creation.
func Register(e *echo.Echo, h Handlers, catalog *middleware.CatalogCache, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	rl := config.LoadRateLimitConfig()
	authLimit := middleware.RateLimit(rl, rdb, config.ScopeAuth)
	bookingLimit := middleware.RateLimit(rl, rdb, config.ScopeBooking)

	api := e.Group("/api")
	api.Use(middleware.RateLimit(rl, rdb, config.ScopeDefault))

	// public catalog, cached
	cached := api.Group("", catalog.Middleware())
	cached.GET("/courts", h.Courts.List)
	cached.GET("/rooms", h.Rooms.List)
	cached.GET("/function-halls", h.Halls.List)

	// public availability display feed
	api.GET("/court-bookings/all", h.CourtBookings.ListAll)

	// auth
	api.POST("/register", h.Auth.Register, authLimit)
	api.POST("/login", h.Auth.Login, authLimit)
	api.POST("/refresh", h.Auth.Refresh, authLimit)
	api.GET("/email/verify", h.Auth.VerifyEmail)

	// authenticated
	auth := api.Group("")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)
	auth.POST("/email/resend", h.Auth.ResendVerification, authLimit)

	auth.GET("/courts/:id", h.Courts.Get)
	auth.GET("/courts/:id/availability", h.Courts.Availability)
	auth.GET("/rooms/:id", h.Rooms.Get)
	auth.GET("/rooms/:id/availability", h.Rooms.Availability)
	auth.GET("/function-halls/:id", h.Halls.Get)
	auth.GET("/function-halls/:id/availability", h.Halls.Availability)

	auth.GET("/court-bookings", h.CourtBookings.ListOwn)
	auth.POST("/court-bookings", h.CourtBookings.Create, bookingLimit)
	auth.GET("/court-bookings/:id", h.CourtBookings.Get)
	auth.PUT("/court-bookings/:id", h.CourtBookings.Update)
	auth.DELETE("/court-bookings/:id", h.CourtBookings.Cancel)

	auth.GET("/room-bookings", h.RoomBookings.ListOwn)
	auth.POST("/room-bookings", h.RoomBookings.Create, bookingLimit)
	auth.GET("/room-bookings/:id", h.RoomBookings.Get)
	auth.PUT("/room-bookings/:id", h.RoomBookings.Update)
	auth.DELETE("/room-bookings/:id", h.RoomBookings.Cancel)

	auth.GET("/hall-bookings", h.HallBookings.ListOwn)
	auth.POST("/hall-bookings", h.HallBookings.Create, bookingLimit)
	auth.GET("/hall-bookings/:id", h.HallBookings.Get)
	auth.PUT("/hall-bookings/:id", h.HallBookings.Update)
	auth.DELETE("/hall-bookings/:id", h.HallBookings.Cancel)

	// admin
	admin := auth.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	admin.GET("/dashboard", h.Admin.DashboardStats)
	admin.GET("/users", h.Admin.ListUsers)

	admin.POST("/courts", h.Courts.Create)
	admin.PUT("/courts/:id", h.Courts.Update)
	admin.DELETE("/courts/:id", h.Courts.Delete)
	admin.POST("/rooms", h.Rooms.Create)
	admin.PUT("/rooms/:id", h.Rooms.Update)
	admin.DELETE("/rooms/:id", h.Rooms.Delete)
	admin.POST("/function-halls", h.Halls.Create)
	admin.PUT("/function-halls/:id", h.Halls.Update)
	admin.DELETE("/function-halls/:id", h.Halls.Delete)

	admin.GET("/court-bookings", h.Admin.ListCourtBookings)
	admin.PATCH("/court-bookings/:id/status", h.Admin.SetCourtBookingStatus)
	admin.POST("/court-bookings/:id/confirm", h.Admin.ConfirmCourtBooking)
	admin.POST("/court-bookings/:id/cancel", h.Admin.CancelCourtBooking)
	admin.PUT("/court-bookings/:id/move", h.Admin.MoveCourtBooking)

	admin.GET("/room-bookings", h.Admin.ListRoomBookings)
	admin.PATCH("/room-bookings/:id/status", h.Admin.SetRoomBookingStatus)

	admin.GET("/hall-bookings", h.Admin.ListHallBookings)
	admin.PATCH("/hall-bookings/:id/status", h.Admin.SetHallBookingStatus)
	admin.POST("/hall-bookings/:id/confirm", h.Admin.ConfirmHallBooking)
	admin.POST("/hall-bookings/:id/cancel", h.Admin.CancelHallBooking)
}
