package ephemeris

import (
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// Cache memoizes the per-year terms of a slower source. Concurrent misses for
// the same year share one load; failed loads are not cached.
type Cache struct {
	src   calendar.SolarTermSource
	group singleflight.Group

	mu    sync.RWMutex
	years map[int][]calendar.SolarTerm
}

var _ calendar.SolarTermSource = (*Cache)(nil)

// NewCache wraps src.
func NewCache(src calendar.SolarTermSource) *Cache {
	return &Cache{
		src:   src,
		years: make(map[int][]calendar.SolarTerm),
	}
}

// TermsForYear returns the 24 terms of year, loading them on first use.
func (c *Cache) TermsForYear(year int) ([]calendar.SolarTerm, error) {
	terms, err := c.load(year)
	if err != nil {
		return nil, err
	}
	out := make([]calendar.SolarTerm, len(terms))
	copy(out, terms)
	return out, nil
}

// TermsForMonth returns the two terms of a Gregorian month.
func (c *Cache) TermsForMonth(year, month int) ([2]calendar.SolarTerm, error) {
	if month < 1 || month > 12 {
		return [2]calendar.SolarTerm{}, calendar.NewError("ephemeris.terms_for_month", calendar.KindInvalidInput, "month %d out of range 1..12", month)
	}
	terms, err := c.load(year)
	if err != nil {
		return [2]calendar.SolarTerm{}, err
	}
	i := (month - 1) * 2
	return [2]calendar.SolarTerm{terms[i], terms[i+1]}, nil
}

// size returns the number of cached years.
func (c *Cache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.years)
}

func (c *Cache) load(year int) ([]calendar.SolarTerm, error) {
	c.mu.RLock()
	terms, ok := c.years[year]
	c.mu.RUnlock()
	if ok {
		return terms, nil
	}

	v, err, _ := c.group.Do(strconv.Itoa(year), func() (any, error) {
		terms, err := c.src.TermsForYear(year)
		if err != nil {
			return nil, err
		}
		if len(terms) != calendar.TermsPerYear {
			return nil, fmt.Errorf("year %d: expected %d terms, got %d", year, calendar.TermsPerYear, len(terms))
		}

		c.mu.Lock()
		c.years[year] = terms
		c.mu.Unlock()
		return terms, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]calendar.SolarTerm), nil
}
