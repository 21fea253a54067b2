package database

import (
	"context"
	"fmt"
	"time"

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// DefaultQueryTimeout bounds each lookup made through TermSource.
const DefaultQueryTimeout = 3 * time.Second

// TermSource serves solar terms from the database. The calendar engines call
// it without a context, so each lookup runs under its own timeout. Wrap it in
// an ephemeris.Cache to avoid a query per calculation.
type TermSource struct {
	db      *DB
	timeout time.Duration
}

var _ calendar.SolarTermSource = (*TermSource)(nil)

// NewTermSource creates a source reading from db.
func NewTermSource(db *DB) *TermSource {
	return &TermSource{db: db, timeout: DefaultQueryTimeout}
}

// TermsForYear returns the 24 terms of year. Missing years fail with an
// UnsupportedYear error.
func (s *TermSource) TermsForYear(year int) ([]calendar.SolarTerm, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	rows, err := s.db.GetSolarTermsByYear(ctx, year)
	if err != nil {
		if IsNotFound(err) {
			return nil, calendar.NewError("database.terms_for_year", calendar.KindUnsupportedYear, "no solar terms stored for %d", year)
		}
		return nil, fmt.Errorf("load solar terms for %d: %w", year, err)
	}
	if len(rows) != calendar.TermsPerYear {
		return nil, calendar.NewError("database.terms_for_year", calendar.KindUnsupportedYear,
			"year %d has %d of %d solar terms", year, len(rows), calendar.TermsPerYear)
	}

	terms := make([]calendar.SolarTerm, len(rows))
	for i, r := range rows {
		terms[i] = calendar.SolarTerm{Index: r.Index, Name: r.Name, Time: r.OccursAt}
	}
	return terms, nil
}

// TermsForMonth returns the two terms of a Gregorian month.
func (s *TermSource) TermsForMonth(year, month int) ([2]calendar.SolarTerm, error) {
	if month < 1 || month > 12 {
		return [2]calendar.SolarTerm{}, calendar.NewError("database.terms_for_month", calendar.KindInvalidInput, "month %d out of range 1..12", month)
	}
	terms, err := s.TermsForYear(year)
	if err != nil {
		return [2]calendar.SolarTerm{}, err
	}
	i := (month - 1) * 2
	return [2]calendar.SolarTerm{terms[i], terms[i+1]}, nil
}

// RowsFromTerms converts a year's terms for storage.
func RowsFromTerms(year int, terms []calendar.SolarTerm) []SolarTermRow {
	rows := make([]SolarTermRow, len(terms))
	for i, t := range terms {
		rows[i] = SolarTermRow{Year: year, Index: t.Index, Name: t.Name, OccursAt: t.Time}
	}
	return rows
}
