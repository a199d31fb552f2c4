package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/fnf/internal/config"
	"github.com/example/fnf/internal/database"
	"github.com/example/fnf/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	app := fiber.New(fiber.Config{
		AppName: "FNF Backend",
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	verification := routes.Register(app, db, cfg)

	if !verification.GatewayConfigured() {
		log.Printf("SMS provider %q missing credentials; codes will not be delivered", cfg.SMSProvider)
	}

	// Sweep expired OTP challenges so verification lookups stay cheap.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if purged, err := verification.PurgeExpired(context.Background()); err != nil {
				log.Printf("challenge purge failed: %v", err)
			} else if purged > 0 {
				log.Printf("purged %d expired OTP challenges", purged)
			}
		}
	}()

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
