package config

import (
	"os"
	"testing"

	"github.com/zapponejosh/zmanim-schedule/internal/astronomy"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any existing env vars that might interfere
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.Latitude != DefaultLatitude || cfg.Longitude != DefaultLongitude {
		t.Errorf("location = %v,%v, want %v,%v", cfg.Latitude, cfg.Longitude, DefaultLatitude, DefaultLongitude)
	}
	if cfg.Location == nil || cfg.Location.String() != DefaultTimeZone {
		t.Errorf("Location = %v, want %s", cfg.Location, DefaultTimeZone)
	}
	if cfg.Mode != astronomy.ModeBasic {
		t.Errorf("Mode = %q, want %q", cfg.Mode, astronomy.ModeBasic)
	}
	if cfg.CacheEnabled() {
		t.Error("CacheEnabled() = true, want false by default")
	}

	start, end := cfg.Window()
	if start.String() != "2022-10-19" || end.String() != "2023-04-19" {
		t.Errorf("Window() = %s..%s, want 2022-10-19..2023-04-19", start, end)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv()

	os.Setenv("PORT", "3000")
	os.Setenv("ENV", "production")
	os.Setenv("DATABASE_PATH", "/data/test.db")
	os.Setenv("ADMIN_API_KEY", "secret-key-123")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	os.Setenv("LATITUDE", "31.7683")
	os.Setenv("LONGITUDE", "35.2137")
	os.Setenv("TIMEZONE", "Asia/Jerusalem")
	os.Setenv("ZMANIM_MODE", "extended")
	os.Setenv("IN_ISRAEL", "true")
	os.Setenv("START_DATE", "2023-10-08")
	os.Setenv("MONTHS", "3")
	defer clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.DatabasePath != "/data/test.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/test.db")
	}
	if cfg.AdminAPIKey != "secret-key-123" {
		t.Errorf("AdminAPIKey = %q, want %q", cfg.AdminAPIKey, "secret-key-123")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}

	astro := cfg.Astronomy()
	if astro.Latitude != 31.7683 || astro.Longitude != 35.2137 {
		t.Errorf("Astronomy() location = %v,%v", astro.Latitude, astro.Longitude)
	}
	if astro.TimeZone.String() != "Asia/Jerusalem" {
		t.Errorf("Astronomy() zone = %s", astro.TimeZone)
	}
	if astro.Mode != astronomy.ModeExtended {
		t.Errorf("Astronomy() mode = %q", astro.Mode)
	}
	if !cfg.InIsrael {
		t.Error("InIsrael = false, want true")
	}

	start, end := cfg.Window()
	if start.String() != "2023-10-08" || end.String() != "2024-01-08" {
		t.Errorf("Window() = %s..%s", start, end)
	}
}

func validConfig() Config {
	return Config{
		Port:      8080,
		Env:       EnvDevelopment,
		LogLevel:  "info",
		LogFormat: "text",
		Latitude:  DefaultLatitude,
		Longitude: DefaultLongitude,
		TimeZone:  DefaultTimeZone,
		Mode:      astronomy.ModeBasic,
		StartDate: DefaultStartDate,
		Months:    DefaultMonths,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid development config", func(*Config) {}, false},
		{"valid production config", func(c *Config) {
			c.Env = EnvProduction
			c.AdminAPIKey = "required-in-prod"
		}, false},
		{"production requires admin key", func(c *Config) { c.Env = EnvProduction }, true},
		{"invalid port - too low", func(c *Config) { c.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Port = 70000 }, true},
		{"invalid environment", func(c *Config) { c.Env = "invalid" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"latitude out of range", func(c *Config) { c.Latitude = 91 }, true},
		{"longitude out of range", func(c *Config) { c.Longitude = -181 }, true},
		{"unknown time zone", func(c *Config) { c.TimeZone = "America/Baltimore_Nowhere" }, true},
		{"empty time zone", func(c *Config) { c.TimeZone = "" }, true},
		{"invalid mode", func(c *Config) { c.Mode = "complex" }, true},
		{"malformed start date", func(c *Config) { c.StartDate = "10/19/2022" }, true},
		{"zero months", func(c *Config) { c.Months = 0 }, true},
		{"empty database path disables cache", func(c *Config) { c.DatabasePath = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateLoadsLocation(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Location == nil || cfg.Location.String() != DefaultTimeZone {
		t.Errorf("Location = %v, want %s", cfg.Location, DefaultTimeZone)
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: EnvDevelopment}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.Env = EnvProduction
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.Env = EnvDevelopment
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}

// clearEnv removes all config-related environment variables
func clearEnv() {
	vars := []string{
		"PORT", "ENV", "DATABASE_PATH", "ADMIN_API_KEY",
		"LOG_LEVEL", "LOG_FORMAT",
		"LATITUDE", "LONGITUDE", "TIMEZONE", "ZMANIM_MODE", "IN_ISRAEL",
		"START_DATE", "MONTHS",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
