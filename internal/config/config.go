package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Security
	// IdentitySecret verifies JWTs issued by the identity collaborator.
	IdentitySecret string

	// Application
	AppEnv   string
	AppPort  string
	LogLevel string

	// Ledger
	WelcomeBonusCoins int64

	// Progression
	LevelSize      int64
	StreakCapDays  int
	MaxSpendAmount int64
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "rewards"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "rewards_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		IdentitySecret: getEnv("IDENTITY_JWT_SECRET", ""),

		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		WelcomeBonusCoins: getEnvInt64("WELCOME_BONUS_COINS", 100),

		LevelSize:      getEnvInt64("LEVEL_SIZE_POINTS", 100),
		StreakCapDays:  getEnvInt("STREAK_CAP_DAYS", 365),
		MaxSpendAmount: getEnvInt64("MAX_SPEND_AMOUNT", 100000),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.IdentitySecret == "" {
		return fmt.Errorf("IDENTITY_JWT_SECRET is required")
	}
	if len(c.IdentitySecret) < 32 {
		return fmt.Errorf("IDENTITY_JWT_SECRET must be at least 32 characters")
	}
	if c.WelcomeBonusCoins < 0 {
		return fmt.Errorf("WELCOME_BONUS_COINS must not be negative")
	}
	if c.LevelSize <= 0 {
		return fmt.Errorf("LEVEL_SIZE_POINTS must be positive")
	}
	if c.StreakCapDays <= 0 {
		return fmt.Errorf("STREAK_CAP_DAYS must be positive")
	}
	return nil
}

func (c *Config) ValidateProductionSecurity() error {
	if c.AppEnv != "production" {
		return nil
	}

	if c.DBSSLMode != "require" {
		return fmt.Errorf("DB_SSLMODE must be 'require' in production")
	}
	if c.IdentitySecret == "your_identity_secret_minimum_32_chars_change_this" {
		return fmt.Errorf("IDENTITY_JWT_SECRET must be changed from default in production")
	}

	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
