// Command almanac prints almanac facts for a date as JSON.
//
// Usage:
//
//	almanac day 2025-01-29 --time 10:00
//	almanac stars hour 2025-01-29T10:00
//	almanac officer 2025-02-01 --to 2025-02-28
//	almanac ziwei 1990-06-15 --hour 8 --year 2025
//	almanac terms 2025 --locale en
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/almanac-api/internal/almanac"
	"github.com/zapponejosh/almanac-api/internal/config"
	"github.com/zapponejosh/almanac-api/internal/logger"
)

// Flags shared by every command; empty values keep the environment's setting.
var (
	localeName string
	source     string
	dbPath     string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "almanac",
		Short:        "Lunisolar dates, pillars, flying stars, day officers and Zi Wei charts",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&localeName, "locale", "", "display locale (zh, en)")
	rootCmd.PersistentFlags().StringVar(&source, "ephemeris", "", "solar-term source (embedded, database)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database holding imported solar terms")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log to stderr")

	rootCmd.AddCommand(dayCmd())
	rootCmd.AddCommand(lunarCmd())
	rootCmd.AddCommand(pillarsCmd())
	rootCmd.AddCommand(starsCmd())
	rootCmd.AddCommand(officerCmd())
	rootCmd.AddCommand(ziweiCmd())
	rootCmd.AddCommand(solarCmd())
	rootCmd.AddCommand(termsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if localeName != "" {
		cfg.Locale = localeName
	}
	if source != "" {
		cfg.EphemerisSource = source
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// withService opens a Service for the duration of fn.
func withService(ctx context.Context, fn func(*almanac.Service) (any, error), out io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	ctx = logger.NewContext(ctx, logger.New(os.Stderr, level, "text"))

	svc, db, err := almanac.Open(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	v, err := fn(svc)
	if err != nil {
		return err
	}
	return printJSON(out, v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
