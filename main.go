package main

import (
	"go.uber.org/zap"

	"neuroscreen/internal/config"
	"neuroscreen/internal/database"
	"neuroscreen/internal/llm"
	logger "neuroscreen/internal/logging"
	"neuroscreen/internal/models"
	"neuroscreen/internal/realtime"
	"neuroscreen/internal/router"
	"neuroscreen/internal/services"
)

func main() {
	// A plain development logger carries us until the configured one is up.
	bootLog, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize bootstrap logger: " + err.Error())
	}

	store, err := config.Load(".", bootLog)
	if err != nil {
		bootLog.Fatal("Failed to load configuration", zap.Error(err))
	}
	cfg := store.Get()

	log, err := logger.Init(cfg.Logging)
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer log.Sync()

	// Initialize Database
	database.Init(cfg.Database, log)

	// Load static test items at startup
	bank, err := models.LoadItemBank("config/items.yaml")
	if err != nil {
		log.Fatal("Failed to load item bank", zap.Error(err))
	}

	// LLM gateway: live completion when a key is configured, deterministic
	// fallback otherwise.
	gateway := llm.NewGateway(cfg.LLM, log)

	// Session relay channel
	hub := realtime.NewHub(log)
	go hub.Run()

	// Telemetry retention
	services.NewRetentionSweeper(log, cfg.Retention.TelemetryDays).Start()

	// Setup router, passing the logger to it
	r := router.Setup(log, cfg, bank, gateway, hub)

	// Start the Gin server
	port := ":" + cfg.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		log.Fatal("Failed to run Gin server", zap.Error(err))
	}
}
