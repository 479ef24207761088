// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// APIBaseURL is the report service base URL. When set, reports come
	// pre-aggregated from the server; when empty, RecordsPath drives
	// client-side aggregation.
	APIBaseURL string

	// RecordsPath is the local consignment records JSON file used when no
	// API base URL is configured.
	RecordsPath string

	// DatabasePath is the SQLite cache for fetched reports and offices.
	DatabasePath string

	// LogPath receives structured logs while the TUI owns the terminal.
	LogPath string

	// OnTimeThreshold is the injected on-time cutoff for client-side
	// aggregation: a delivery this much after schedule still counts on time.
	OnTimeThreshold time.Duration

	// RequestTimeout bounds each report or office-directory request.
	RequestTimeout time.Duration

	// View is an optional startup view query string, same format the report
	// request uses.
	View string
}

// Default values
const (
	defaultOnTimeThreshold = 24 * time.Hour
	defaultRequestTimeout  = 15 * time.Second
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIBaseURL:      getEnvString("API_BASE_URL", ""),
		RecordsPath:     getEnvString("RECORDS_PATH", getDefaultRecordsPath()),
		DatabasePath:    getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		LogPath:         getEnvString("LOG_PATH", ""),
		OnTimeThreshold: getEnvDuration("ON_TIME_THRESHOLD", defaultOnTimeThreshold),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		View:            getEnvString("VIEW", ""),
	}

	if cfg.OnTimeThreshold <= 0 {
		return nil, fmt.Errorf("ON_TIME_THRESHOLD must be positive, got %s", cfg.OnTimeThreshold)
	}

	if cfg.APIBaseURL == "" && cfg.RecordsPath == "" {
		return nil, fmt.Errorf("either API_BASE_URL or RECORDS_PATH is required")
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "delivery-insight", ".env"),
		)
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite cache.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "reports.db"
	}
	return filepath.Join(home, ".config", "delivery-insight", "reports.db")
}

// getDefaultRecordsPath returns the default path for the consignments file.
func getDefaultRecordsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "consignments.json"
	}
	return filepath.Join(home, ".config", "delivery-insight", "consignments.json")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the
// default. Accepts values like "30s", "1m", "24h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as hours if no unit specified
		if hours, err := strconv.Atoi(value); err == nil {
			return time.Duration(hours) * time.Hour
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
