package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/volunteerhub/rewards_service/internal/config"
	"github.com/volunteerhub/rewards_service/internal/database"
	"github.com/volunteerhub/rewards_service/pkg/logger"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting rewards schema migration...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Validate production security settings
	if cfg.AppEnv == "production" {
		if err := cfg.ValidateProductionSecurity(); err != nil {
			logger.Fatal("Production security validation failed", err)
		}
		logger.Info("Production security validation passed")
	}

	// Connect to database with TLS
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed the default badge catalog
	if err := database.SeedBadges(db); err != nil {
		logger.Warn("Failed to seed badges", "error", err)
	}

	logger.Info("Migration completed", "env", cfg.AppEnv)
}
