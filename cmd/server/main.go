package main

import (
	"fmt"
	"os"

	"github.com/clubdesk/console/internal/app"
	"github.com/clubdesk/console/internal/config"
	"github.com/clubdesk/console/internal/logger"
	"github.com/clubdesk/console/internal/notify"
	"github.com/clubdesk/console/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.GetLogger()

	notices := notify.NewQueue(100, log)
	a, err := app.New(cfg, notices, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire application")
	}
	defer a.Close()

	// Create server
	srv, err := server.New(cfg, a, notices, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().Str("version", version).Str("api", cfg.API.URL()).Msg("Starting club console...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Error().Err(err).Msg("Server failed")
		os.Exit(1)
	}
}
