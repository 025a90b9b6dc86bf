// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"github.com/joho/godotenv"

	"github.com/zapponejosh/zmanim-schedule/internal/astronomy"
	"github.com/zapponejosh/zmanim-schedule/internal/calendar"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Cache
	DatabasePath string // Path to SQLite file; empty disables the cache

	// Authentication
	AdminAPIKey string // Key for the cache admin endpoints

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Location
	Latitude  float64
	Longitude float64
	TimeZone  string         // IANA zone id
	Location  *time.Location // loaded from TimeZone by Validate
	Mode      astronomy.Mode // basic, extended
	InIsrael  bool           // Israel reading schedule

	// Observation window
	StartDate string // YYYY-MM-DD
	Months    int
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Defaults for the shul's location and schedule window.
const (
	DefaultLatitude  = 39.35833
	DefaultLongitude = -76.683611
	DefaultTimeZone  = "America/New_York"
	DefaultStartDate = "2022-10-19"
	DefaultMonths    = 6
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// No-op in production where env vars are set directly
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Cache
	cfg.DatabasePath = getEnv("DATABASE_PATH", "")

	// Authentication
	cfg.AdminAPIKey = getEnv("ADMIN_API_KEY", "")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Location
	cfg.Latitude = getEnvFloat("LATITUDE", DefaultLatitude)
	cfg.Longitude = getEnvFloat("LONGITUDE", DefaultLongitude)
	cfg.TimeZone = getEnv("TIMEZONE", DefaultTimeZone)
	cfg.Mode = astronomy.Mode(getEnv("ZMANIM_MODE", string(astronomy.ModeBasic)))
	cfg.InIsrael = getEnvBool("IN_ISRAEL", false)

	// Observation window
	cfg.StartDate = getEnv("START_DATE", DefaultStartDate)
	cfg.Months = getEnvInt("MONTHS", DefaultMonths)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
// It also loads Location from TimeZone.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	// Admin endpoints are open in development only
	if c.Env == EnvProduction && c.AdminAPIKey == "" {
		errs = append(errs, errors.New("ADMIN_API_KEY is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if c.Latitude < -90 || c.Latitude > 90 {
		errs = append(errs, fmt.Errorf("LATITUDE must be between -90 and 90, got %v", c.Latitude))
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		errs = append(errs, fmt.Errorf("LONGITUDE must be between -180 and 180, got %v", c.Longitude))
	}

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil || c.TimeZone == "" {
		errs = append(errs, fmt.Errorf("TIMEZONE must be an IANA zone id, got %q", c.TimeZone))
	} else {
		c.Location = loc
	}

	if !c.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("ZMANIM_MODE must be one of: basic, extended; got %q", c.Mode))
	}

	if _, err := calendar.ParseDay(c.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("START_DATE must be YYYY-MM-DD, got %q", c.StartDate))
	}

	if c.Months < 1 || c.Months > 24 {
		errs = append(errs, fmt.Errorf("MONTHS must be between 1 and 24, got %d", c.Months))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Window returns the configured observation window.
// Call only on a validated config.
func (c *Config) Window() (calendar.Day, calendar.Day) {
	start, _ := calendar.ParseDay(c.StartDate)
	return calendar.Window(start, c.Months)
}

// Astronomy returns the astronomy service configuration.
func (c *Config) Astronomy() astronomy.Config {
	return astronomy.Config{
		TimeZone:  c.Location,
		Latitude:  c.Latitude,
		Longitude: c.Longitude,
		Mode:      c.Mode,
	}
}

// CacheEnabled reports whether a cache database is configured.
func (c *Config) CacheEnabled() bool {
	return c.DatabasePath != ""
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
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

// getEnvFloat reads an environment variable as a float with a default fallback.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool reads an environment variable as a bool with a default fallback.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
