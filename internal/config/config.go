// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Ephemeris
	EphemerisSource string // embedded or database
	DatabasePath    string // Path to SQLite file holding imported solar terms

	// Authentication
	APIKey string // API key for authenticated endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Presentation
	Locale    string // Catalog used for display strings (zh, en)
	LocaleDir string // Optional directory overriding the embedded catalogs

	// Engines
	OfficerLookbackDays  int // Days replayed before a day-officer query
	StarAnchorWindowDays int // Days searched for the 甲子 day after a day-star anchor term
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Ephemeris sources
const (
	EphemerisEmbedded = "embedded"
	EphemerisDatabase = "database"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	// This is a no-op in production where env vars are set directly
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Ephemeris
	cfg.EphemerisSource = getEnv("EPHEMERIS_SOURCE", EphemerisEmbedded)
	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/almanac.db")

	// Authentication
	cfg.APIKey = getEnv("API_KEY", "")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Presentation
	cfg.Locale = getEnv("LOCALE", "zh")
	cfg.LocaleDir = getEnv("LOCALE_DIR", "")

	// Engines
	cfg.OfficerLookbackDays = getEnvInt("OFFICER_LOOKBACK_DAYS", 30)
	cfg.StarAnchorWindowDays = getEnvInt("STAR_ANCHOR_WINDOW_DAYS", 200)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	// Validate port range
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	// Validate environment
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	// Validate ephemeris source; the database path only matters when it is used
	switch c.EphemerisSource {
	case EphemerisEmbedded:
	case EphemerisDatabase:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("DATABASE_PATH is required when EPHEMERIS_SOURCE is database"))
		}
	default:
		errs = append(errs, fmt.Errorf("EPHEMERIS_SOURCE must be one of: embedded, database; got %q", c.EphemerisSource))
	}

	// API key is required in production
	if c.IsProduction() && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	// Warn in development if API key is default/empty
	// (We don't error, just let it be for easier local dev)

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	// Validate log format
	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if c.Locale == "" {
		errs = append(errs, errors.New("LOCALE is required"))
	}

	// Lookback must reach at least one reset; a lunar month never exceeds 30 days
	if c.OfficerLookbackDays < 12 || c.OfficerLookbackDays > 366 {
		errs = append(errs, fmt.Errorf("OFFICER_LOOKBACK_DAYS must be between 12 and 366, got %d", c.OfficerLookbackDays))
	}
	if c.StarAnchorWindowDays < 60 || c.StarAnchorWindowDays > 366 {
		errs = append(errs, fmt.Errorf("STAR_ANCHOR_WINDOW_DAYS must be between 60 and 366, got %d", c.StarAnchorWindowDays))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// UsesDatabase returns true if solar terms are read from the SQLite store.
func (c *Config) UsesDatabase() bool {
	return c.EphemerisSource == EphemerisDatabase
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
