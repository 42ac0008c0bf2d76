package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the whole application configuration.
// Populated from environment variables (.env is loaded by cmd/* before Load).
type Config struct {
	App   AppConfig
	Redis RedisConfig
	Auth  AuthConfig
	Jobs  JobsConfig
	Loan  LoanConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, test, staging, production
	Port        string
	Version     string
	AutoMigrate bool // apply pending migrations on startup
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

// =====================================================
// AUTH CONFIGURATION
// =====================================================

type AuthConfig struct {
	Enabled bool
	// JWT
	Secret      string
	TokenExpiry int // minutes
	// Single librarian account
	Username     string
	PasswordHash string // bcrypt
}

// =====================================================
// JOBS CONFIGURATION
// =====================================================

type JobsConfig struct {
	OverdueScanCron string
	LedgerAuditCron string
	Concurrency     int
}

type LoanConfig struct {
	DefaultPeriodDays int
	ActivitiesLimit   int
	MaxActivities     int
}

const defaultJWTSecret = "change-me-in-production"

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "School Library API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Enabled:      getEnvBool("AUTH_ENABLED", false),
			Secret:       getEnv("JWT_SECRET", defaultJWTSecret),
			TokenExpiry:  getEnvInt("JWT_EXPIRY_MINUTES", 8*60),
			Username:     getEnv("LIBRARIAN_USERNAME", "librarian"),
			PasswordHash: getEnv("LIBRARIAN_PASSWORD_HASH", ""),
		},
		Jobs: JobsConfig{
			OverdueScanCron: getEnv("JOB_OVERDUE_SCAN_CRON", "0 8 * * *"),
			LedgerAuditCron: getEnv("JOB_LEDGER_AUDIT_CRON", "30 2 * * *"),
			Concurrency:     getEnvInt("WORKER_CONCURRENCY", 5),
		},
		Loan: LoanConfig{
			DefaultPeriodDays: getEnvInt("LOAN_DEFAULT_PERIOD_DAYS", 14),
			ActivitiesLimit:   getEnvInt("RECENT_ACTIVITIES_LIMIT", 10),
			MaxActivities:     getEnvInt("RECENT_ACTIVITIES_MAX", 100),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the config is usable
func (c *Config) Validate() error {
	if c.Loan.DefaultPeriodDays < 1 {
		return fmt.Errorf("LOAN_DEFAULT_PERIOD_DAYS must be >= 1")
	}
	if c.Loan.ActivitiesLimit < 1 || c.Loan.ActivitiesLimit > c.Loan.MaxActivities {
		return fmt.Errorf("RECENT_ACTIVITIES_LIMIT must be between 1 and %d", c.Loan.MaxActivities)
	}

	if c.Auth.Enabled {
		if c.Auth.PasswordHash == "" {
			return fmt.Errorf("LIBRARIAN_PASSWORD_HASH must be set when AUTH_ENABLED=true")
		}
		if c.App.Environment == "production" && c.Auth.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
