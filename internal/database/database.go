package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"neuroscreen/internal/config"
	logging "neuroscreen/internal/logging"
	"neuroscreen/internal/models"
)

var DB *gorm.DB

func Init(cfg config.DatabaseConfig, log *zap.Logger) {
	var err error
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.DBName, cfg.Port)

	// Create our custom GORM logger
	gormLogger := logging.NewGormZapLogger(log)
	gormLogger.LogLevel = gormlogger.Info

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})

	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	log.Info("Database connection established successfully.")
	runMigrations(log)
}

func runMigrations(log *zap.Logger) {
	// GORM's AutoMigrate will create tables, columns, and foreign keys.
	// It will NOT create custom indexes, so we handle that separately.
	err := DB.AutoMigrate(
		&models.ScreeningSession{},
		&models.TelemetryEvent{},
	)
	if err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}
	log.Info("Database migrations completed successfully.")

	telemetryIndex := `CREATE INDEX IF NOT EXISTS idx_telemetry_query ON telemetry_events (session_id, event_type, created_at DESC);`
	if err := DB.Exec(telemetryIndex).Error; err != nil {
		log.Fatal("Failed to create custom index on telemetry table", zap.Error(err))
	}
	log.Info("Custom indexes ensured successfully.")
}
