package calendar

import (
	"time"
)

// dayEpoch is a 甲子 day; day pillars count civil days from it.
var dayEpoch = time.Date(1900, time.February, 20, 0, 0, 0, 0, time.UTC)

// startStemByDayStem gives the stem of the 子 hour for each day stem (五鼠遁).
var startStemByDayStem = [StemCount]int{0, 2, 4, 6, 8, 0, 2, 4, 6, 8}

// FourPillars holds the year, month, day and hour pillars of an instant.
type FourPillars struct {
	Year  Pillar `json:"year"`
	Month Pillar `json:"month"`
	Day   Pillar `json:"day"`
	Hour  Pillar `json:"hour"`
}

// SolarMonth describes the solar (節) month an instant falls in.
type SolarMonth struct {
	// Year and Month identify the Gregorian month whose first term opened the solar month.
	Year      int
	Month     int
	FirstTerm SolarTerm
	// GanzhiYear is the year whose 立春 precedes the month.
	GanzhiYear int
	// Offset counts months from 寅 (0) to 丑 (11).
	Offset int
}

// Branch returns the month's Earthly Branch.
func (m SolarMonth) Branch() Branch {
	return Branch(Mod(m.Offset+2, BranchCount))
}

// Calculator derives lunisolar dates and sexagenary pillars.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	terms SolarTermSource
}

// NewCalculator creates a calculator backed by the given solar-term source.
func NewCalculator(terms SolarTermSource) *Calculator {
	return &Calculator{terms: terms}
}

// Terms returns the calculator's solar-term source.
func (c *Calculator) Terms() SolarTermSource {
	return c.terms
}

// ToLunisolar converts a civil date to the lunisolar calendar.
// Dates outside the ephemeris coverage fail with UnsupportedYear.
func (c *Calculator) ToLunisolar(t time.Time) (LunarDate, error) {
	if _, err := c.terms.TermsForMonth(t.Year(), int(t.Month())); err != nil {
		return LunarDate{}, err
	}
	return solarToLunar(CivilDate(t))
}

// YearPillar returns the pillar of a lunar (or ganzhi) year.
func (c *Calculator) YearPillar(year int) Pillar {
	return YearPillar(year)
}

// YearPillar returns the pillar of a year; 4 CE was 甲子.
func YearPillar(year int) Pillar {
	return mustPillar(year-4, year-4)
}

// DayPillar returns the pillar of t's civil date.
func (c *Calculator) DayPillar(t time.Time) Pillar {
	return DayPillar(t)
}

// DayPillar returns the pillar of t's civil date.
func DayPillar(t time.Time) Pillar {
	n := DaysBetween(dayEpoch, t)
	return mustPillar(n, n)
}

// SolarMonthOf locates the solar month containing t. The month begins on the
// date of the first term of a Gregorian month; earlier dates belong to the
// previous month.
func (c *Calculator) SolarMonthOf(t time.Time) (SolarMonth, error) {
	date := CivilDate(t)
	year, month := date.Year(), int(date.Month())

	first, err := FirstTermOf(c.terms, year, month)
	if err != nil {
		return SolarMonth{}, err
	}
	if date.Before(first.Date()) {
		month--
		if month == 0 {
			month = 12
			year--
		}
		if first, err = FirstTermOf(c.terms, year, month); err != nil {
			return SolarMonth{}, err
		}
	}

	lichun, err := FirstTermOf(c.terms, year, 2)
	if err != nil {
		return SolarMonth{}, err
	}
	ganzhiYear := year
	if lichun.Date().After(first.Date()) {
		ganzhiYear--
	}

	return SolarMonth{
		Year:       year,
		Month:      month,
		FirstTerm:  first,
		GanzhiYear: ganzhiYear,
		Offset:     Mod(year*12+month-(ganzhiYear*12+2), 12),
	}, nil
}

// MonthPillar returns the pillar of the solar month containing t.
func (c *Calculator) MonthPillar(t time.Time) (Pillar, error) {
	sm, err := c.SolarMonthOf(t)
	if err != nil {
		return 0, err
	}
	return monthPillar(sm), nil
}

func monthPillar(sm SolarMonth) Pillar {
	yearStem := int(YearPillar(sm.GanzhiYear).Stem())
	return mustPillar(yearStem*2+sm.Offset+2, sm.Offset+2)
}

// HourBranch maps a clock hour to its double-hour branch. 子 spans 23:00-00:59.
func (c *Calculator) HourBranch(hour int) (Branch, error) {
	return HourBranch(hour)
}

// HourBranch maps a clock hour to its double-hour branch. 子 spans 23:00-00:59.
func HourBranch(hour int) (Branch, error) {
	if hour < 0 || hour > 23 {
		return 0, NewError("calendar.hour_branch", KindInvalidInput, "hour %d out of range 0..23", hour)
	}
	return Branch(((hour + 1) / 2) % BranchCount), nil
}

// HourPillar returns the pillar of a clock hour on a day with the given pillar.
// The day is not advanced for the late 子 hour.
func (c *Calculator) HourPillar(day Pillar, hour int) (Pillar, error) {
	b, err := HourBranch(hour)
	if err != nil {
		return 0, err
	}
	return mustPillar(startStemByDayStem[day.Stem()]+int(b), int(b)), nil
}

// FourPillars computes all four pillars of t. The year pillar follows the
// lunar year.
func (c *Calculator) FourPillars(t time.Time) (FourPillars, error) {
	lunar, err := c.ToLunisolar(t)
	if err != nil {
		return FourPillars{}, err
	}
	month, err := c.MonthPillar(t)
	if err != nil {
		return FourPillars{}, err
	}

	day := DayPillar(t)
	hour, err := c.HourPillar(day, t.Hour())
	if err != nil {
		return FourPillars{}, err
	}

	return FourPillars{
		Year:  YearPillar(lunar.Year),
		Month: month,
		Day:   day,
		Hour:  hour,
	}, nil
}

// IsFirstTermDay reports whether t's civil date carries the first solar term
// of its Gregorian month.
func (c *Calculator) IsFirstTermDay(t time.Time) (bool, error) {
	first, err := FirstTermOf(c.terms, t.Year(), int(t.Month()))
	if err != nil {
		return false, err
	}
	return first.Date().Equal(CivilDate(t)), nil
}

// TermOn returns the solar term falling on t's civil date, if any.
func (c *Calculator) TermOn(t time.Time) (SolarTerm, bool, error) {
	terms, err := c.terms.TermsForMonth(t.Year(), int(t.Month()))
	if err != nil {
		return SolarTerm{}, false, err
	}
	date := CivilDate(t)
	for _, term := range terms {
		if term.Date().Equal(date) {
			return term, true, nil
		}
	}
	return SolarTerm{}, false, nil
}
