package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
// Each migration should be idempotent (safe to run multiple times).
var migrationsSQL = map[int]string{
	1: migrationV1SolarTerms,
	2: migrationV2EphemerisImports,
}

// migrationV1SolarTerms creates the solar-term table.
//
// One row per (year, term index). Times are China Standard Time wall clock
// stored as "YYYY-MM-DD HH:MM:SS" text without a zone, the same layout the
// CSV ephemeris uses.
const migrationV1SolarTerms = `
-- Migration 001: Solar terms

CREATE TABLE IF NOT EXISTS solar_terms (
    year INTEGER NOT NULL,

    -- 0 = 小寒 ... 23 = 冬至
    term_index INTEGER NOT NULL CHECK (term_index BETWEEN 0 AND 23),
    name TEXT NOT NULL,
    occurs_at TEXT NOT NULL,

    created_at TEXT NOT NULL DEFAULT (datetime('now')),

    PRIMARY KEY (year, term_index)
);

-- Range queries over instants (e.g. "latest solstice before")
CREATE INDEX IF NOT EXISTS idx_solar_terms_occurs_at
    ON solar_terms(occurs_at);
`

// migrationV2EphemerisImports records each import run so operators can see
// where the stored terms came from.
const migrationV2EphemerisImports = `
-- Migration 002: Import audit

CREATE TABLE IF NOT EXISTS ephemeris_imports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    first_year INTEGER NOT NULL,
    last_year INTEGER NOT NULL,
    term_count INTEGER NOT NULL,
    imported_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
