package main

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/example/zenko/internal/config"
	"github.com/example/zenko/internal/database"
	"github.com/example/zenko/internal/handlers"
	"github.com/example/zenko/internal/routes"
	"github.com/example/zenko/internal/services"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	authService := services.NewAuthService(db)
	if err := authService.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal().Err(err).Msg("admin seed failed")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Zenko Backend",
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	routes.Register(app, db, cfg)

	go purgeOTPLoop(db, cfg)

	log.Info().Str("port", cfg.AppPort).Msg("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("fiber.Listen error")
	}
}

// purgeOTPLoop sweeps expired one-time codes on a fixed interval.
func purgeOTPLoop(db *gorm.DB, cfg *config.Config) {
	otpService := services.NewOTPService(db, services.NewSMSService(cfg.SMSGatewayURL, cfg.SMSGatewayToken, cfg.SMSSender, cfg.SMSQuietMode))

	ticker := time.NewTicker(cfg.OTPPurgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		if _, err := otpService.PurgeExpired(); err != nil {
			log.Error().Err(err).Msg("otp purge failed")
		}
	}
}
