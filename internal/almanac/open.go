package almanac

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zapponejosh/almanac-api/internal/calendar"
	"github.com/zapponejosh/almanac-api/internal/config"
	"github.com/zapponejosh/almanac-api/internal/database"
	"github.com/zapponejosh/almanac-api/internal/ephemeris"
	"github.com/zapponejosh/almanac-api/internal/locale"
	"github.com/zapponejosh/almanac-api/internal/logger"
)

// Open builds a Service from configuration, logging through the context's
// logger. With the database ephemeris it also returns the open database,
// which the caller must close; otherwise the returned *database.DB is nil.
func Open(ctx context.Context, cfg *config.Config) (*Service, *database.DB, error) {
	var opts []locale.Option
	if cfg.LocaleDir != "" {
		opts = append(opts, locale.WithDir(cfg.LocaleDir))
	}
	text, err := locale.Load(cfg.Locale, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("load locale: %w", err)
	}

	var (
		src calendar.SolarTermSource
		db  *database.DB
	)
	switch {
	case cfg.UsesDatabase():
		db, err = database.Open(database.DefaultConfig(cfg.DatabasePath), logger.FromContext(ctx))
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if _, err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}

		cov, err := db.Coverage(ctx)
		if err != nil {
			db.Close()
			if database.IsNotFound(err) {
				return nil, nil, fmt.Errorf("database %s holds no solar terms; run cmd/import first", cfg.DatabasePath)
			}
			return nil, nil, fmt.Errorf("read coverage: %w", err)
		}
		if len(cov.Gaps) > 0 {
			logger.Warn(ctx, "database ephemeris has incomplete years", slog.Any("gaps", cov.Gaps))
		}
		logger.Info(ctx, "using database ephemeris",
			slog.String("path", cfg.DatabasePath),
			logger.YearRange(cov.Years.First, cov.Years.Last),
		)
		src = ephemeris.NewCache(database.NewTermSource(db))

	default:
		table, err := ephemeris.Embedded()
		if err != nil {
			return nil, nil, fmt.Errorf("load embedded ephemeris: %w", err)
		}
		first, last := table.Range()
		logger.Info(ctx, "using embedded ephemeris", logger.YearRange(first, last))
		src = table
	}

	svc := New(src, text,
		WithOfficerLookback(cfg.OfficerLookbackDays),
		WithAnchorWindow(cfg.StarAnchorWindowDays),
	)
	return svc, db, nil
}
