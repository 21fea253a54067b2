package database

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/zapponejosh/almanac-api/internal/calendar"
	"github.com/zapponejosh/almanac-api/internal/ephemeris"
	"github.com/zapponejosh/almanac-api/internal/logger"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	db, err := Open(cfg, logger.New(io.Discard, "error", "text"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	// Run migrations
	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedYears copies years from the embedded ephemeris into db.
func seedYears(t *testing.T, db *DB, years ...int) {
	t.Helper()

	table, err := ephemeris.Embedded()
	if err != nil {
		t.Fatalf("load ephemeris: %v", err)
	}

	var rows []SolarTermRow
	for _, y := range years {
		terms, err := table.TermsForYear(y)
		if err != nil {
			t.Fatalf("terms for %d: %v", y, err)
		}
		rows = append(rows, RowsFromTerms(y, terms)...)
	}
	if err := db.UpsertSolarTerms(context.Background(), rows); err != nil {
		t.Fatalf("seed solar terms: %v", err)
	}
}

func TestOpen(t *testing.T) {
	db := testDB(t)

	if err := db.PingContext(context.Background()); err != nil {
		t.Errorf("PingContext() error = %v", err)
	}
	if got := db.path; got != ":memory:" {
		t.Errorf("path = %q, want :memory:", got)
	}
}

func TestConfig_DSN(t *testing.T) {
	got := DefaultConfig("data/almanac.db").dsn()
	want := "data/almanac.db?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL"
	if got != want {
		t.Errorf("dsn() = %q, want %q", got, want)
	}
}

func TestCoverage(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.Coverage(ctx); !IsNotFound(err) {
		t.Errorf("Coverage() on empty table error = %v, want ErrNotFound", err)
	}

	seedYears(t, db, 2023, 2025)
	cov, err := db.Coverage(ctx)
	if err != nil {
		t.Fatalf("Coverage() error = %v", err)
	}
	want := Coverage{Years: YearRange{First: 2023, Last: 2025}, Terms: 48, Gaps: []int{2024}}
	if diff := cmp.Diff(want, cov); diff != "" {
		t.Errorf("Coverage() mismatch (-want +got):\n%s", diff)
	}
}

func TestHealth(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Nothing imported yet
	if err := db.Health(ctx); !IsNotFound(err) {
		t.Errorf("Health() on empty store error = %v, want ErrNotFound", err)
	}

	seedYears(t, db, 2024, 2025)
	if err := db.Health(ctx); err != nil {
		t.Errorf("Health() error = %v", err)
	}

	// A year losing a term makes the store unhealthy
	if _, err := db.ExecContext(ctx, `DELETE FROM solar_terms WHERE year = 2025 AND term_index = 23`); err != nil {
		t.Fatalf("delete term: %v", err)
	}
	if err := db.Health(ctx); !errors.Is(err, ErrIncomplete) {
		t.Errorf("Health() error = %v, want ErrIncomplete", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Migrations should have run (in testDB)
	// Running again should be a no-op
	count, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

// -----------------------------------------------------------------
// Solar term tests
// -----------------------------------------------------------------

func TestUpsertSolarTerms(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	seedYears(t, db, 2024, 2025)

	n, err := db.CountSolarTerms(ctx)
	if err != nil {
		t.Fatalf("CountSolarTerms() error = %v", err)
	}
	if n != 48 {
		t.Errorf("CountSolarTerms() = %d, want 48", n)
	}

	// Re-importing is idempotent
	seedYears(t, db, 2025)
	n, err = db.CountSolarTerms(ctx)
	if err != nil {
		t.Fatalf("CountSolarTerms() error = %v", err)
	}
	if n != 48 {
		t.Errorf("CountSolarTerms() after re-import = %d, want 48", n)
	}
}

func TestGetSolarTermsByYear(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedYears(t, db, 2025)

	rows, err := db.GetSolarTermsByYear(ctx, 2025)
	if err != nil {
		t.Fatalf("GetSolarTermsByYear() error = %v", err)
	}
	if len(rows) != calendar.TermsPerYear {
		t.Fatalf("got %d rows, want %d", len(rows), calendar.TermsPerYear)
	}

	lichun := rows[calendar.LiChun]
	if lichun.Name != "立春" {
		t.Errorf("rows[2].Name = %q, want 立春", lichun.Name)
	}
	want := time.Date(2025, time.February, 3, 22, 10, 13, 0, time.UTC)
	if !lichun.OccursAt.Equal(want) {
		t.Errorf("立春 OccursAt = %v, want %v", lichun.OccursAt, want)
	}
	if lichun.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestGetSolarTermsByYear_NotFound(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	_, err := db.GetSolarTermsByYear(ctx, 1800)
	if !IsNotFound(err) {
		t.Errorf("GetSolarTermsByYear() error = %v, want ErrNotFound", err)
	}
}

func TestGetYearRange(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.GetYearRange(ctx); !IsNotFound(err) {
		t.Errorf("GetYearRange() on empty table error = %v, want ErrNotFound", err)
	}

	seedYears(t, db, 2023, 2024, 2025)
	r, err := db.GetYearRange(ctx)
	if err != nil {
		t.Fatalf("GetYearRange() error = %v", err)
	}
	if r != (YearRange{First: 2023, Last: 2025}) {
		t.Errorf("GetYearRange() = %+v, want 2023..2025", r)
	}
	if !r.Contains(2024) || r.Contains(2026) {
		t.Error("Contains() mismatch")
	}
}

func TestDeleteSolarTermsByYear(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	seedYears(t, db, 2025)

	if err := db.DeleteSolarTermsByYear(ctx, 2025); err != nil {
		t.Fatalf("DeleteSolarTermsByYear() error = %v", err)
	}
	if err := db.DeleteSolarTermsByYear(ctx, 2025); !IsNotFound(err) {
		t.Errorf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestPruneYears(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	pruned, err := db.PruneYears(ctx, YearRange{First: 2024, Last: 2024})
	if err != nil || pruned != nil {
		t.Fatalf("PruneYears() on empty table = %v, %v", pruned, err)
	}

	seedYears(t, db, 2021, 2023, 2024, 2025)
	pruned, err = db.PruneYears(ctx, YearRange{First: 2023, Last: 2024})
	if err != nil {
		t.Fatalf("PruneYears() error = %v", err)
	}
	if diff := cmp.Diff([]int{2021, 2025}, pruned); diff != "" {
		t.Errorf("PruneYears() (-want +got):\n%s", diff)
	}

	cov, err := db.Coverage(ctx)
	if err != nil {
		t.Fatalf("Coverage() error = %v", err)
	}
	if cov.Years != (YearRange{First: 2023, Last: 2024}) || cov.Terms != 48 {
		t.Errorf("Coverage() after prune = %+v", cov)
	}
}

// -----------------------------------------------------------------
// TermSource tests
// -----------------------------------------------------------------

func TestTermSource(t *testing.T) {
	db := testDB(t)
	seedYears(t, db, 2024, 2025)

	src := NewTermSource(db)

	terms, err := src.TermsForMonth(2025, 12)
	if err != nil {
		t.Fatalf("TermsForMonth() error = %v", err)
	}
	if terms[0].Name != "大雪" || terms[1].Name != "冬至" {
		t.Errorf("TermsForMonth(2025, 12) = %s, %s", terms[0].Name, terms[1].Name)
	}

	_, err = src.TermsForYear(2030)
	if !errors.Is(err, calendar.ErrUnsupportedYear) {
		t.Errorf("TermsForYear(2030) error = %v, want UnsupportedYear", err)
	}

	// The database source agrees with the embedded table
	calc := calendar.NewCalculator(ephemeris.NewCache(src))
	p, err := calc.MonthPillar(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("MonthPillar() error = %v", err)
	}
	if p.String() != "戊寅" {
		t.Errorf("MonthPillar() = %s, want 戊寅", p)
	}
}

func TestTermSource_IncompleteYear(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rows := []SolarTermRow{{Year: 2025, Index: 0, Name: "小寒", OccursAt: time.Date(2025, 1, 5, 10, 32, 31, 0, time.UTC)}}
	if err := db.UpsertSolarTerms(ctx, rows); err != nil {
		t.Fatalf("UpsertSolarTerms() error = %v", err)
	}

	_, err := NewTermSource(db).TermsForYear(2025)
	if !calendar.IsKind(err, calendar.KindUnsupportedYear) {
		t.Errorf("TermsForYear() error = %v, want unsupported_year", err)
	}
}

// -----------------------------------------------------------------
// Import audit tests
// -----------------------------------------------------------------

func TestRecordImport(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.GetLatestImport(ctx); !IsNotFound(err) {
		t.Errorf("GetLatestImport() on empty table error = %v, want ErrNotFound", err)
	}

	for _, src := range []string{"embedded", "terms.csv"} {
		run := &ImportRun{Source: src, FirstYear: 1911, LastYear: 2040, TermCount: 3120}
		if err := db.RecordImport(ctx, run); err != nil {
			t.Fatalf("RecordImport() error = %v", err)
		}
		if run.ID == 0 {
			t.Error("RecordImport() did not set ID")
		}
	}

	latest, err := db.GetLatestImport(ctx)
	if err != nil {
		t.Fatalf("GetLatestImport() error = %v", err)
	}
	if latest.Source != "terms.csv" || latest.TermCount != 3120 {
		t.Errorf("GetLatestImport() = %+v", latest)
	}
}

// -----------------------------------------------------------------
// Transaction tests
// -----------------------------------------------------------------

func TestWithTx_Rollback(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Failed transaction should rollback
	err := db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO solar_terms (year, term_index, name, occurs_at) VALUES (2025, 0, '小寒', '2025-01-05 10:32:31')`)
		if err != nil {
			return err
		}
		// Force error to trigger rollback
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Fatalf("WithTx() rollback case error = %v, want ErrNotFound", err)
	}

	// Verify term was NOT created
	_, err = db.GetSolarTermsByYear(ctx, 2025)
	if err != ErrNotFound {
		t.Errorf("term should not exist after rollback, got error: %v", err)
	}
}

func TestUpsertSolarTerms_RejectsBadIndex(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rows := []SolarTermRow{
		{Year: 2025, Index: 0, Name: "小寒", OccursAt: time.Now()},
		{Year: 2025, Index: 24, Name: "bad", OccursAt: time.Now()},
	}
	if err := db.UpsertSolarTerms(ctx, rows); err == nil {
		t.Fatal("UpsertSolarTerms() succeeded with index 24")
	}

	// The whole batch is rolled back
	if n, _ := db.CountSolarTerms(ctx); n != 0 {
		t.Errorf("CountSolarTerms() = %d after failed batch, want 0", n)
	}
}
