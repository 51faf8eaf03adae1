package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kmadriaga/resort-booking-api/internal/config"
	"github.com/kmadriaga/resort-booking-api/internal/database"
	"github.com/kmadriaga/resort-booking-api/internal/handler"
	"github.com/kmadriaga/resort-booking-api/internal/mail"
	"github.com/kmadriaga/resort-booking-api/internal/middleware"
	"github.com/kmadriaga/resort-booking-api/internal/queue"
	"github.com/kmadriaga/resort-booking-api/internal/repository"
	"github.com/kmadriaga/resort-booking-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	mailer, err := mail.New(&cfg)
	if err != nil {
		log.Fatalf("mail: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is absent; features degrade
	catalog := middleware.NewCatalogCache(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	courts := repository.NewCourtRepo(db)
	rooms := repository.NewRoomRepo(db)
	halls := repository.NewHallRepo(db)
	courtBookings := repository.NewCourtBookingRepo(db)
	roomBookings := repository.NewRoomBookingRepo(db)
	hallBookings := repository.NewHallBookingRepo(db)
	dashboard := repository.NewDashboardRepo(db)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	router.Register(e, router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users, tokens, mailer),
		Courts:        handler.NewCourtHandler(courts, courtBookings, catalog),
		Rooms:         handler.NewRoomHandler(rooms, roomBookings, catalog),
		Halls:         handler.NewHallHandler(halls, hallBookings, catalog),
		CourtBookings: handler.NewCourtBookingHandler(courts, courtBookings),
		RoomBookings:  handler.NewRoomBookingHandler(rooms, roomBookings),
		HallBookings:  handler.NewHallBookingHandler(halls, hallBookings),
		Admin:         handler.NewAdminHandler(users, dashboard, courtBookings, roomBookings, hallBookings),
	}, catalog, cfg, rdb)

	// booking events -> audit log + customer email
	go queue.StartConsumer(mailer)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
