package database

import (
	"time"
)

// SolarTermRow is a stored solar term.
type SolarTermRow struct {
	Year      int       `json:"year"`
	Index     int       `json:"index"`
	Name      string    `json:"name"`
	OccursAt  time.Time `json:"occurs_at"` // China Standard Time wall clock, no zone
	CreatedAt time.Time `json:"created_at"`
}

// ImportRun records one ephemeris import.
type ImportRun struct {
	ID         int64     `json:"id"`
	Source     string    `json:"source"`
	FirstYear  int       `json:"first_year"`
	LastYear   int       `json:"last_year"`
	TermCount  int       `json:"term_count"`
	ImportedAt time.Time `json:"imported_at"`
}

// YearRange is the span of years holding a complete set of terms.
type YearRange struct {
	First int `json:"first"`
	Last  int `json:"last"`
}

// Contains reports whether year falls in the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.First && year <= r.Last
}
