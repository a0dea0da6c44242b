package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/roshan-ds-tech/shreshta-backend-final/config"
	"github.com/roshan-ds-tech/shreshta-backend-final/database"
	"github.com/roshan-ds-tech/shreshta-backend-final/handlers"
	"github.com/roshan-ds-tech/shreshta-backend-final/routes"
	"github.com/roshan-ds-tech/shreshta-backend-final/worker"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Connect to MongoDB
	if err := database.ConnectDB(); err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Provider clients (Shiprocket, Razorpay, WhatsApp)
	handlers.InitClients()

	// Sweep for orders whose pickup scheduling is still pending
	if config.GetEnv("PICKUP_WORKER_ENABLED", "true") == "true" {
		interval := time.Duration(config.GetEnvInt("PICKUP_WORKER_INTERVAL_MINUTES", 30)) * time.Minute
		pickupWorker := worker.NewPickupWorker(database.DB, handlers.Shiprocket, interval)
		go pickupWorker.Run(context.Background())
	}

	// Setup routes
	routes.SetupRoutes(e)

	// Start the server
	port := config.GetEnv("PORT", "8000")
	log.WithField("port", port).Info("Server starting")
	e.Logger.Fatal(e.Start(":" + port))
}
