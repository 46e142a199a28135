package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	logrus "github.com/sirupsen/logrus"

	"github.com/driveease/car-rental-api/internal/config"
	"github.com/driveease/car-rental-api/internal/database"
	"github.com/driveease/car-rental-api/internal/handler"
	"github.com/driveease/car-rental-api/internal/logger"
	"github.com/driveease/car-rental-api/internal/mailer"
	"github.com/driveease/car-rental-api/internal/queue"
	"github.com/driveease/car-rental-api/internal/repository"
	"github.com/driveease/car-rental-api/internal/router"
)

func main() {
	_ = godotenv.Load()
	logger.Setup()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis carries booking holds and OTP parking, not just middleware
	// state, so starting without it would silently break the booking flow.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis: connection failed; holds and OTP flows require it")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	cars := repository.NewCarRepo(db)
	bookings := repository.NewBookingRepo(db)
	holds := repository.NewHoldRepo(rdb, cfg.HoldTTL)
	otps := repository.NewOTPRepo(rdb, cfg.OTPTTL)
	notifs := repository.NewNotificationRepo(db)
	settings := repository.NewSiteSettingRepo(db)

	mail := mailer.NewFromEnv()

	h := router.Handlers{
		Auth:     handler.NewAuthHandler(cfg, users, tokens, otps, mail),
		Catalog:  handler.NewCatalogHandler(cars, bookings, settings),
		Booking:  handler.NewBookingHandler(cfg, cars, bookings, holds, notifs),
		Notifs:   handler.NewNotificationHandler(notifs),
		AdminCar: handler.NewAdminCarHandler(cars),
		Admin:    handler.NewAdminHandler(users, cars, bookings, notifs, settings),
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, h, rdb)

	go func() {
		if err := queue.StartBookingConsumer(notifs); err != nil {
			logrus.WithError(err).Error("booking consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("server starting")
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
