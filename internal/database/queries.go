package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrNotFound is returned when a requested record doesn't exist
	ErrNotFound = errors.New("not found")
)

// IsNotFound checks if an error is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// =============================================================================
// Helper Functions
// =============================================================================

// termTimeLayout is the layout of occurs_at.
const termTimeLayout = "2006-01-02 15:04:05"

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}

	// Try RFC3339 format first (with timezone)
	t, err := time.Parse(time.RFC3339, ns.String)
	if err == nil {
		return &t
	}

	// Try SQLite datetime format (no timezone)
	t, err = time.Parse(termTimeLayout, ns.String)
	if err == nil {
		return &t
	}

	// If all fail, return nil
	return nil
}

// =============================================================================
// Solar Term Queries
// =============================================================================

// UpsertSolarTerms inserts or replaces terms in a single transaction.
//
// This is IDEMPOTENT - re-importing the same ephemeris changes nothing.
func (db *DB) UpsertSolarTerms(ctx context.Context, rows []SolarTermRow) error {
	query := `
		INSERT INTO solar_terms (year, term_index, name, occurs_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(year, term_index) DO UPDATE SET
			name = excluded.name,
			occurs_at = excluded.occurs_at
	`

	return db.WithTx(ctx, func(tx *Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		for _, r := range rows {
			if _, err := stmt.ExecContext(ctx, r.Year, r.Index, r.Name, r.OccursAt.Format(termTimeLayout)); err != nil {
				return fmt.Errorf("upsert term %d/%d: %w", r.Year, r.Index, err)
			}
		}
		return nil
	})
}

// GetSolarTermsByYear returns the terms of a year ordered by index.
// Returns ErrNotFound if the year has no terms.
func (db *DB) GetSolarTermsByYear(ctx context.Context, year int) ([]SolarTermRow, error) {
	query := `
		SELECT year, term_index, name, occurs_at, created_at
		FROM solar_terms
		WHERE year = ?
		ORDER BY term_index
	`

	rows, err := db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("query solar terms: %w", err)
	}
	defer rows.Close()

	var terms []SolarTermRow
	for rows.Next() {
		var (
			r         SolarTermRow
			occursAt  string
			createdAt sql.NullString
		)
		if err := rows.Scan(&r.Year, &r.Index, &r.Name, &occursAt, &createdAt); err != nil {
			return nil, fmt.Errorf("scan solar term: %w", err)
		}

		r.OccursAt, err = time.Parse(termTimeLayout, occursAt)
		if err != nil {
			return nil, fmt.Errorf("parse occurs_at %q: %w", occursAt, err)
		}
		if t := parseTimestamp(createdAt); t != nil {
			r.CreatedAt = *t
		}
		terms = append(terms, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate solar terms: %w", err)
	}

	if len(terms) == 0 {
		return nil, ErrNotFound
	}
	return terms, nil
}

// GetYearRange returns the smallest and largest stored years.
// Returns ErrNotFound if the table is empty.
func (db *DB) GetYearRange(ctx context.Context) (YearRange, error) {
	var first, last sql.NullInt64
	err := db.QueryRowContext(ctx, `SELECT MIN(year), MAX(year) FROM solar_terms`).Scan(&first, &last)
	if err != nil {
		return YearRange{}, fmt.Errorf("query year range: %w", err)
	}
	if !first.Valid || !last.Valid {
		return YearRange{}, ErrNotFound
	}
	return YearRange{First: int(first.Int64), Last: int(last.Int64)}, nil
}

// CountSolarTerms returns the number of stored terms.
func (db *DB) CountSolarTerms(ctx context.Context) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solar_terms`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count solar terms: %w", err)
	}
	return n, nil
}

// DeleteSolarTermsByYear removes a year's terms.
// Returns ErrNotFound if the year has no terms.
func (db *DB) DeleteSolarTermsByYear(ctx context.Context, year int) error {
	result, err := db.ExecContext(ctx, `DELETE FROM solar_terms WHERE year = ?`, year)
	if err != nil {
		return fmt.Errorf("delete solar terms: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// PruneYears deletes every stored year outside keep and returns the years
// removed, in order.
func (db *DB) PruneYears(ctx context.Context, keep YearRange) ([]int, error) {
	stored, err := db.GetYearRange(ctx)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var pruned []int
	for year := stored.First; year <= stored.Last; year++ {
		if keep.Contains(year) {
			continue
		}
		switch err := db.DeleteSolarTermsByYear(ctx, year); {
		case err == nil:
			pruned = append(pruned, year)
		case IsNotFound(err):
			// gap year
		default:
			return pruned, fmt.Errorf("prune %d: %w", year, err)
		}
	}
	return pruned, nil
}

// =============================================================================
// Import Audit
// =============================================================================

// RecordImport stores an import run and sets its ID.
func (db *DB) RecordImport(ctx context.Context, run *ImportRun) error {
	query := `
		INSERT INTO ephemeris_imports (source, first_year, last_year, term_count)
		VALUES (?, ?, ?, ?)
	`

	result, err := db.ExecContext(ctx, query, run.Source, run.FirstYear, run.LastYear, run.TermCount)
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}

	run.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get import id: %w", err)
	}
	return nil
}

// GetLatestImport returns the most recent import run.
// Returns ErrNotFound if nothing was imported yet.
func (db *DB) GetLatestImport(ctx context.Context) (*ImportRun, error) {
	query := `
		SELECT id, source, first_year, last_year, term_count, imported_at
		FROM ephemeris_imports
		ORDER BY id DESC
		LIMIT 1
	`

	var (
		run        ImportRun
		importedAt sql.NullString
	)
	err := db.QueryRowContext(ctx, query).Scan(
		&run.ID, &run.Source, &run.FirstYear, &run.LastYear, &run.TermCount, &importedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query latest import: %w", err)
	}

	if t := parseTimestamp(importedAt); t != nil {
		run.ImportedAt = *t
	}
	return &run, nil
}
