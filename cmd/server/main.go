package main

import (
	"context"
	"log"

	"github.com/connectify/backend/internal/router"
	"github.com/connectify/backend/internal/ws"
	"github.com/connectify/backend/pkg/config"
	"github.com/connectify/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Real-time relay hub: one per process, torn down on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Mongo, hub)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
