package main

import (
	"log"

	"github.com/labstack/echo/v4"

	"github.com/dfquintero/recreo/internal/config"
	"github.com/dfquintero/recreo/internal/database"
	"github.com/dfquintero/recreo/internal/handler"
	"github.com/dfquintero/recreo/internal/middleware"
	"github.com/dfquintero/recreo/internal/queue"
	"github.com/dfquintero/recreo/internal/repository"
	"github.com/dfquintero/recreo/internal/router"
)

func main() {
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	elementRepo := repository.NewElementRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	registerRepo := repository.NewRegisterRepo(db)

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	elementHandler := handler.NewElementHandler(elementRepo)
	roomHandler := handler.NewRoomHandler(roomRepo, elementRepo)
	reservationHandler := handler.NewReservationHandler(roomRepo, reservationRepo, registerRepo)
	registerHandler := handler.NewRegisterHandler(roomRepo, reservationRepo, registerRepo, elementRepo)

	// Background consumer appending finalized reservations to
	// logs/register.log. Runs its own reconnect loop.
	go func() {
		if err := queue.StartRegisterConsumer(); err != nil {
			log.Printf("register consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, roomHandler, elementHandler, rateMW, cacheMW)
	router.RegisterBooking(e, reservationHandler, cfg.JWTSecret)
	router.RegisterAdmin(e, roomHandler, elementHandler, registerHandler, reservationHandler, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
