// Package main implements the entry point for the TaskBoard API server,
// which serves the task-tracking REST endpoints and the WebSocket
// live-update layer.
package main

import (
	"context"
	"log"

	"github.com/taskboard/taskboard-api/internal/config"
	"github.com/taskboard/taskboard-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run loads configuration, wires all application components, and starts the
// HTTP server. It returns only when the server has shut down.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Set up structured logging using the configured log level
	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return err
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	// Establish database connection
	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	// Apply pending schema migrations before serving traffic
	if err := runMigrations(db, appLogger); err != nil {
		return err
	}

	// Wire application dependencies
	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return err
	}

	// Start serving
	router := app.setupRouter()
	return app.startHTTPServer(context.Background(), router)
}
