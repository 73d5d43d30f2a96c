package main

import (
	"context"

	"ppv-gate/pkg/config"
	"ppv-gate/pkg/logger"
	"ppv-gate/service-api/internal/app"
)

func main() {
	// Initialize configuration
	cfg := config.Load(context.Background())

	// Initialize logger
	logger.InitLogger(cfg)

	// Create and start the application server
	server := app.NewAppServer(cfg)
	server.Serve()
}
