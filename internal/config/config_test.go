package config

import (
	"os"
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear any existing env vars that might interfere
	clearEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	// Check defaults are applied
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.EphemerisSource != EphemerisEmbedded {
		t.Errorf("EphemerisSource = %q, want %q", cfg.EphemerisSource, EphemerisEmbedded)
	}
	if cfg.Locale != "zh" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "zh")
	}
	if cfg.OfficerLookbackDays != 30 {
		t.Errorf("OfficerLookbackDays = %d, want 30", cfg.OfficerLookbackDays)
	}
	if cfg.StarAnchorWindowDays != 200 {
		t.Errorf("StarAnchorWindowDays = %d, want 200", cfg.StarAnchorWindowDays)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.UsesDatabase() {
		t.Error("UsesDatabase() = true, want false")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv()

	// Set custom values
	os.Setenv("PORT", "3000")
	os.Setenv("ENV", "production")
	os.Setenv("EPHEMERIS_SOURCE", "database")
	os.Setenv("DATABASE_PATH", "/data/test.db")
	os.Setenv("API_KEY", "secret-key-123")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	os.Setenv("LOCALE", "en")
	os.Setenv("LOCALE_DIR", "/etc/almanac/lang")
	os.Setenv("OFFICER_LOOKBACK_DAYS", "45")
	os.Setenv("STAR_ANCHOR_WINDOW_DAYS", "120")
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
	if !cfg.UsesDatabase() {
		t.Error("UsesDatabase() = false, want true")
	}
	if cfg.DatabasePath != "/data/test.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/test.db")
	}
	if cfg.APIKey != "secret-key-123" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret-key-123")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
	if cfg.Locale != "en" || cfg.LocaleDir != "/etc/almanac/lang" {
		t.Errorf("Locale = %q / %q", cfg.Locale, cfg.LocaleDir)
	}
	if cfg.OfficerLookbackDays != 45 || cfg.StarAnchorWindowDays != 120 {
		t.Errorf("engine settings = %d / %d, want 45 / 120", cfg.OfficerLookbackDays, cfg.StarAnchorWindowDays)
	}
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv()
	os.Setenv("EPHEMERIS_SOURCE", "network")
	os.Setenv("OFFICER_LOOKBACK_DAYS", "5")
	defer clearEnv()

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded, want error")
	}
	// errors.Join reports every problem at once
	for _, want := range []string{"EPHEMERIS_SOURCE", "OFFICER_LOOKBACK_DAYS"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

// validConfig returns a development config that passes validation.
func validConfig() Config {
	return Config{
		Port:                 8080,
		Env:                  EnvDevelopment,
		EphemerisSource:      EphemerisEmbedded,
		DatabasePath:         "./data/test.db",
		LogLevel:             "info",
		LogFormat:            "text",
		Locale:               "zh",
		OfficerLookbackDays:  30,
		StarAnchorWindowDays: 200,
	}
}

func TestConfig_Validate(t *testing.T) {
	// Table-driven tests for validation
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid development config",
			modify:  func(c *Config) { c.APIKey = "" }, // OK in development
			wantErr: false,
		},
		{
			name: "valid production config",
			modify: func(c *Config) {
				c.Env = EnvProduction
				c.APIKey = "required-in-prod"
				c.LogFormat = "json"
			},
			wantErr: false,
		},
		{
			name:    "production requires API key",
			modify:  func(c *Config) { c.Env = EnvProduction },
			wantErr: true,
		},
		{
			name:    "invalid port - too low",
			modify:  func(c *Config) { c.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid port - too high",
			modify:  func(c *Config) { c.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "invalid environment",
			modify:  func(c *Config) { c.Env = "invalid" },
			wantErr: true,
		},
		{
			name:    "invalid log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			modify:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: true,
		},
		{
			name:    "embedded source ignores database path",
			modify:  func(c *Config) { c.DatabasePath = "" },
			wantErr: false,
		},
		{
			name: "database source requires a path",
			modify: func(c *Config) {
				c.EphemerisSource = EphemerisDatabase
				c.DatabasePath = ""
			},
			wantErr: true,
		},
		{
			name:    "unknown ephemeris source",
			modify:  func(c *Config) { c.EphemerisSource = "network" },
			wantErr: true,
		},
		{
			name:    "empty locale",
			modify:  func(c *Config) { c.Locale = "" },
			wantErr: true,
		},
		{
			name:    "lookback too short",
			modify:  func(c *Config) { c.OfficerLookbackDays = 11 },
			wantErr: true,
		},
		{
			name:    "anchor window too short",
			modify:  func(c *Config) { c.StarAnchorWindowDays = 59 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
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
		"PORT", "ENV", "EPHEMERIS_SOURCE", "DATABASE_PATH", "API_KEY",
		"LOG_LEVEL", "LOG_FORMAT", "LOCALE", "LOCALE_DIR",
		"OFFICER_LOOKBACK_DAYS", "STAR_ANCHOR_WINDOW_DAYS",
	}
	for _, v := range vars {
		os.Unsetenv(v)
	}
}
