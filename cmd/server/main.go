package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/waveriff/waveriff/internal/router"
	"github.com/waveriff/waveriff/pkg/config"
	"github.com/waveriff/waveriff/pkg/logger"
	"github.com/waveriff/waveriff/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logg := logger.New(logger.Config{
		Environment: cfg.Env,
		Level:       logger.ParseLevel(cfg.LogLevel),
	})

	// Initialize backing stores
	stores, err := config.InitStores(cfg, logg)
	if err != nil {
		log.Fatalf("Failed to initialize stores: %v", err)
	}
	defer stores.Close()

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, stores, cfg, logg); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
