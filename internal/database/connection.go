package database

import (
	"fmt"
	"time"

	"github.com/volunteerhub/rewards_service/internal/config"
	"github.com/volunteerhub/rewards_service/internal/models"
	"github.com/volunteerhub/rewards_service/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		// Unique violations must surface as gorm.ErrDuplicatedKey: the
		// claim, award and roster dedup keys all rely on it.
		TranslateError:         true,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(200)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("Database connected successfully")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Account{},
		&models.CoinTransaction{},
		&models.ClaimRecord{},
		&models.RegistrationBonus{},
		&models.Badge{},
		&models.UserBadge{},
		&models.PointAward{},
		&models.Event{},
		&models.EventParticipant{},
	)

	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// SeedBadges inserts the default badge catalog. Existing rows are left
// untouched so re-running migrations never mutates a live catalog.
func SeedBadges(db *gorm.DB) error {
	logger.Info("Checking badge catalog...")

	for _, badge := range models.DefaultBadges {
		var existing models.Badge
		err := db.Where("code = ?", badge.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&badge).Error; err != nil {
				return fmt.Errorf("failed to seed badge %s: %w", badge.Code, err)
			}
			logger.Info("Seeded badge", "code", badge.Code, "threshold", badge.PointThreshold)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to check badge %s: %w", badge.Code, err)
		}
	}

	return nil
}
