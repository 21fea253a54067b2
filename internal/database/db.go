// Package database provides SQLite storage for imported solar-term ephemerides.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// DB is the ephemeris store.
type DB struct {
	*sql.DB
	path   string
	logger *slog.Logger
}

// Config holds database configuration options.
type Config struct {
	Path            string        // SQLite file, or ":memory:"
	MaxOpenConns    int           // 1: SQLite allows a single writer
	MaxIdleConns    int           // default 1
	ConnMaxLifetime time.Duration // default 1 hour
}

// DefaultConfig returns the settings used by the server and the import tool.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}
}

// dsn adds the pragmas the store relies on: WAL so readers never block on the
// import, and a busy timeout for the single writer.
func (c Config) dsn() string {
	q := url.Values{}
	q.Set("_journal_mode", "WAL")
	q.Set("_busy_timeout", "5000")
	q.Set("_foreign_keys", "on")
	return c.Path + "?" + q.Encode()
}

// Open connects to the store at cfg.Path, creating its directory if needed.
// The caller must Close the returned DB.
func Open(cfg Config, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Debug("ephemeris store opened", slog.String("path", cfg.Path))
	return &DB{DB: sqlDB, path: cfg.Path, logger: logger}, nil
}

// Close closes the store.
func (db *DB) Close() error {
	db.logger.Debug("ephemeris store closed", slog.String("path", db.path))
	return db.DB.Close()
}

// ErrIncomplete is returned by Health when stored years lack terms.
var ErrIncomplete = errors.New("ephemeris incomplete")

// Coverage describes which years the store can answer for.
type Coverage struct {
	Years YearRange `json:"years"`
	Terms int       `json:"terms"`
	// Gaps lists years inside Years that do not hold all 24 terms.
	Gaps []int `json:"gaps,omitempty"`
}

// Coverage reports the stored year range and any incomplete years in it.
// Returns ErrNotFound if nothing is stored.
func (db *DB) Coverage(ctx context.Context) (Coverage, error) {
	rows, err := db.QueryContext(ctx, `SELECT year, COUNT(*) FROM solar_terms GROUP BY year ORDER BY year`)
	if err != nil {
		return Coverage{}, fmt.Errorf("query coverage: %w", err)
	}
	defer rows.Close()

	counts := make(map[int]int)
	var cov Coverage
	for rows.Next() {
		var year, n int
		if err := rows.Scan(&year, &n); err != nil {
			return Coverage{}, fmt.Errorf("scan coverage: %w", err)
		}
		if len(counts) == 0 {
			cov.Years.First = year
		}
		cov.Years.Last = year
		cov.Terms += n
		counts[year] = n
	}
	if err := rows.Err(); err != nil {
		return Coverage{}, fmt.Errorf("iterate coverage: %w", err)
	}
	if len(counts) == 0 {
		return Coverage{}, ErrNotFound
	}

	for year := cov.Years.First; year <= cov.Years.Last; year++ {
		if counts[year] != calendar.TermsPerYear {
			cov.Gaps = append(cov.Gaps, year)
		}
	}
	return cov, nil
}

// Health checks the connection and that the stored ephemeris has no gaps.
func (db *DB) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	cov, err := db.Coverage(ctx)
	if err != nil {
		return fmt.Errorf("ephemeris coverage: %w", err)
	}
	if len(cov.Gaps) > 0 {
		return fmt.Errorf("%w: years %v", ErrIncomplete, cov.Gaps)
	}
	return nil
}

// Migrate applies the pending migrations of migrationsSQL in version order,
// all in one transaction, and returns how many ran.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return 0, fmt.Errorf("create schema_migrations table: %w", err)
	}

	applied, err := appliedVersions(ctx, tx)
	if err != nil {
		return 0, err
	}

	versions := make([]int, 0, len(migrationsSQL))
	for v := range migrationsSQL {
		versions = append(versions, v)
	}
	slices.Sort(versions)

	count := 0
	for _, v := range versions {
		if applied[v] {
			continue
		}
		if _, err := tx.ExecContext(ctx, migrationsSQL[v]); err != nil {
			return count, fmt.Errorf("execute migration %d: %w", v, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, v); err != nil {
			return count, fmt.Errorf("record migration %d: %w", v, err)
		}
		db.logger.Info("applied migration", slog.Int("version", v))
		count++
	}

	if err := tx.Commit(); err != nil {
		return count, fmt.Errorf("commit migrations: %w", err)
	}
	return count, nil
}

func appliedVersions(ctx context.Context, tx *Tx) (map[int]bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// Tx is a store transaction.
type Tx struct {
	*sql.Tx
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{tx}, nil
}

// WithTx runs fn in a transaction, committing on success and rolling back
// when fn fails.
func (db *DB) WithTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
