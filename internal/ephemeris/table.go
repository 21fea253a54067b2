// Package ephemeris supplies solar-term instants to the calendar engines.
//
// The default source is a table compiled into the binary. A Cache can front
// any slower source (such as the sqlite store) and memoizes it per year.
package ephemeris

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// TimeLayout is the timestamp layout used by the CSV and the database.
const TimeLayout = "2006-01-02 15:04:05"

//go:embed data/solar_terms.csv
var embeddedCSV []byte

// Table is an in-memory, read-only solar-term source covering a contiguous
// range of Gregorian years.
type Table struct {
	first int
	years [][calendar.TermsPerYear]calendar.SolarTerm
}

var _ calendar.SolarTermSource = (*Table)(nil)

// Embedded returns the table compiled into the binary. It is parsed once.
var Embedded = sync.OnceValues(func() (*Table, error) {
	terms, err := Parse(bytes.NewReader(embeddedCSV))
	if err != nil {
		return nil, fmt.Errorf("parse embedded ephemeris: %w", err)
	}
	return NewTable(terms)
})

// EmbeddedCSV returns the raw embedded CSV, for import tooling.
func EmbeddedCSV() io.Reader {
	return bytes.NewReader(embeddedCSV)
}

// Record is one parsed CSV row.
type Record struct {
	Year int
	calendar.SolarTerm
}

// Parse reads "year,index,name,time" rows. The header row is required.
func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 4

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if header[0] != "year" || header[1] != "index" || header[2] != "name" || header[3] != "time" {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (Record, error) {
	year, err := strconv.Atoi(row[0])
	if err != nil {
		return Record{}, fmt.Errorf("year %q: %w", row[0], err)
	}
	index, err := strconv.Atoi(row[1])
	if err != nil {
		return Record{}, fmt.Errorf("index %q: %w", row[1], err)
	}
	if index < 0 || index >= calendar.TermsPerYear {
		return Record{}, fmt.Errorf("index %d out of range", index)
	}
	if calendar.TermNames[index] != row[2] {
		return Record{}, fmt.Errorf("term %d is %s, got %q", index, calendar.TermNames[index], row[2])
	}
	at, err := time.Parse(TimeLayout, row[3])
	if err != nil {
		return Record{}, fmt.Errorf("time %q: %w", row[3], err)
	}

	return Record{
		Year:      year,
		SolarTerm: calendar.SolarTerm{Index: index, Name: row[2], Time: at},
	}, nil
}

// NewTable indexes records. Every year between the smallest and largest year
// must carry all 24 terms.
func NewTable(records []Record) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("no solar terms")
	}

	first, last := records[0].Year, records[0].Year
	for _, r := range records {
		first = min(first, r.Year)
		last = max(last, r.Year)
	}

	t := &Table{
		first: first,
		years: make([][calendar.TermsPerYear]calendar.SolarTerm, last-first+1),
	}
	seen := make([][calendar.TermsPerYear]bool, len(t.years))
	for _, r := range records {
		i := r.Year - first
		if seen[i][r.Index] {
			return nil, fmt.Errorf("duplicate term %d for %d", r.Index, r.Year)
		}
		seen[i][r.Index] = true
		t.years[i][r.Index] = r.SolarTerm
	}

	for i := range seen {
		for idx, ok := range seen[i] {
			if !ok {
				return nil, fmt.Errorf("missing term %s for %d", calendar.TermNames[idx], first+i)
			}
		}
	}
	return t, nil
}

// Range returns the first and last covered years.
func (t *Table) Range() (first, last int) {
	return t.first, t.first + len(t.years) - 1
}

func (t *Table) year(op string, year int) (*[calendar.TermsPerYear]calendar.SolarTerm, error) {
	i := year - t.first
	if i < 0 || i >= len(t.years) {
		first, last := t.Range()
		return nil, calendar.NewError(op, calendar.KindUnsupportedYear, "year %d outside ephemeris range %d..%d", year, first, last)
	}
	return &t.years[i], nil
}

// TermsForMonth returns the two terms of a Gregorian month.
func (t *Table) TermsForMonth(year, month int) ([2]calendar.SolarTerm, error) {
	if month < 1 || month > 12 {
		return [2]calendar.SolarTerm{}, calendar.NewError("ephemeris.terms_for_month", calendar.KindInvalidInput, "month %d out of range 1..12", month)
	}
	terms, err := t.year("ephemeris.terms_for_month", year)
	if err != nil {
		return [2]calendar.SolarTerm{}, err
	}
	i := (month - 1) * 2
	return [2]calendar.SolarTerm{terms[i], terms[i+1]}, nil
}

// TermsForYear returns the 24 terms of a Gregorian year.
func (t *Table) TermsForYear(year int) ([]calendar.SolarTerm, error) {
	terms, err := t.year("ephemeris.terms_for_year", year)
	if err != nil {
		return nil, err
	}
	out := make([]calendar.SolarTerm, calendar.TermsPerYear)
	copy(out, terms[:])
	return out, nil
}
