package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	sqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InMemory is the SQLite path that keeps the database in memory,
// used by tests
const InMemory = ":memory:"

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file, created on first use
	Path string
	// LogLevel controls SQL statement logging ("debug" prints queries)
	LogLevel string
}

// New opens the SQLite database, creating parent directories as needed
func New(config Config) (*gorm.DB, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	if config.Path != InMemory {
		if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(config.Path), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(config.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", config.Path, err)
	}

	log.Debug().Str("path", config.Path).Msg("Database opened")
	return db, nil
}

// gormLogLevel maps the application log level onto gorm's SQL logger.
// Queries are only worth printing when the user asked for debug output.
func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "debug", "trace":
		return logger.Info
	case "warn", "warning":
		return logger.Warn
	default:
		return logger.Silent
	}
}

// HealthCheck verifies the database connection is alive
func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Close closes the database connection
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
