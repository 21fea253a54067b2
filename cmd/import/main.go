// Command import loads a solar-term ephemeris CSV into the SQLite database.
//
// Usage:
//
//	go run ./cmd/import -db data/almanac.db
//	go run ./cmd/import -csv terms.csv -db data/almanac.db -from 1990 -to 2030 -prune
//
// This tool:
// 1. Parses the CSV (the embedded ephemeris when -csv is empty)
// 2. Creates/opens the SQLite database and runs migrations
// 3. Upserts every complete year in a single transaction
// 4. With -prune, deletes stored years outside -from..-to
// 5. Records the run in ephemeris_imports and verifies coverage
//
// The import is idempotent: re-running it overwrites the same rows.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/almanac-api/internal/database"
	"github.com/zapponejosh/almanac-api/internal/ephemeris"
	"github.com/zapponejosh/almanac-api/internal/logger"
)

func main() {
	// Parse command line flags
	csvPath := flag.String("csv", "", "Path to solar-term CSV (default: embedded ephemeris)")
	dbPath := flag.String("db", "data/almanac.db", "Path to SQLite database")
	from := flag.Int("from", 0, "First year to import (default: first year in the CSV)")
	to := flag.Int("to", 0, "Last year to import (default: last year in the CSV)")
	prune := flag.Bool("prune", false, "Delete stored years outside -from..-to")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	ctx := logger.NewContext(context.Background(), logger.New(os.Stdout, level, "text"))

	if err := run(ctx, *csvPath, *dbPath, *from, *to, *prune); err != nil {
		logger.Error(ctx, "import failed", err)
		os.Exit(1)
	}

	logger.Info(ctx, "import complete")
}

func run(ctx context.Context, csvPath, dbPath string, from, to int, prune bool) error {
	log := logger.FromContext(ctx)
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and parse CSV
	// =========================================================================
	source := "embedded"
	var r io.Reader = ephemeris.EmbeddedCSV()
	if csvPath != "" {
		log.Info("reading CSV file", slog.String("path", csvPath))
		f, err := os.Open(csvPath)
		if err != nil {
			return fmt.Errorf("open CSV file: %w", err)
		}
		defer f.Close()
		r, source = f, csvPath
	}

	records, err := ephemeris.Parse(r)
	if err != nil {
		return fmt.Errorf("parse CSV: %w", err)
	}
	table, err := ephemeris.NewTable(records)
	if err != nil {
		return fmt.Errorf("build table: %w", err)
	}

	first, last := table.Range()
	if from == 0 {
		from = first
	}
	if to == 0 {
		to = last
	}
	if from < first || to > last || from > to {
		return fmt.Errorf("years %d..%d outside CSV range %d..%d", from, to, first, last)
	}

	log.Info("parsed CSV",
		slog.String("source", source),
		slog.Int("records", len(records)),
		slog.Int("first_year", from),
		slog.Int("last_year", to),
	)

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	log.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Info("migrations complete", slog.Int("applied", migrated))

	prev, err := db.GetLatestImport(ctx)
	switch {
	case err == nil:
		log.Info("previous import",
			slog.Int64("run_id", prev.ID),
			slog.String("source", prev.Source),
			logger.YearRange(prev.FirstYear, prev.LastYear),
			slog.Time("imported_at", prev.ImportedAt),
		)
	case database.IsNotFound(err):
		log.Info("no previous import")
	default:
		return fmt.Errorf("latest import: %w", err)
	}

	// =========================================================================
	// Step 3: Import terms in a transaction
	// =========================================================================
	before, err := db.CountSolarTerms(ctx)
	if err != nil {
		return fmt.Errorf("count terms: %w", err)
	}
	log.Info("starting import", slog.Int("stored_terms", before))

	var rows []database.SolarTermRow
	for year := from; year <= to; year++ {
		terms, err := table.TermsForYear(year)
		if err != nil {
			return fmt.Errorf("terms for %d: %w", year, err)
		}
		rows = append(rows, database.RowsFromTerms(year, terms)...)
		log.Debug("prepared year", slog.Int("year", year))
	}

	if err := db.UpsertSolarTerms(ctx, rows); err != nil {
		return fmt.Errorf("import terms: %w", err)
	}

	var pruned []int
	if prune {
		pruned, err = db.PruneYears(ctx, database.YearRange{First: from, Last: to})
		if err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		log.Info("pruned years", slog.Any("years", pruned))
	}

	rec := &database.ImportRun{
		Source:    source,
		FirstYear: from,
		LastYear:  to,
		TermCount: len(rows),
	}
	if err := db.RecordImport(ctx, rec); err != nil {
		return err
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	cov, err := db.Coverage(ctx)
	if err != nil {
		return fmt.Errorf("coverage: %w", err)
	}

	elapsed := time.Since(startTime)

	log.Info("import verified",
		slog.Int64("run_id", rec.ID),
		slog.Int("imported_terms", len(rows)),
		slog.Int("total_terms", cov.Terms),
		slog.Int("net_change", cov.Terms-before),
		logger.YearRange(cov.Years.First, cov.Years.Last),
		slog.Duration("elapsed", elapsed),
	)
	if len(cov.Gaps) > 0 {
		log.Warn("stored ephemeris has incomplete years", slog.Any("gaps", cov.Gaps))
	}

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Source:              %s\n", source)
	fmt.Printf("Years imported:      %d..%d\n", from, to)
	fmt.Printf("Terms imported:      %d\n", len(rows))
	if prune {
		fmt.Printf("Years pruned:        %v\n", pruned)
	}
	fmt.Printf("Stored year range:   %d..%d\n", cov.Years.First, cov.Years.Last)
	fmt.Printf("Total terms stored:  %d\n", cov.Terms)
	if len(cov.Gaps) > 0 {
		fmt.Printf("Incomplete years:    %v\n", cov.Gaps)
	}
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}
