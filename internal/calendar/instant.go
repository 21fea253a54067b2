package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Instant is a Gregorian civil date with an optional hour and minute.
// It carries no time zone: all calendar facts are computed on wall-clock values.
type Instant struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

// Date layouts accepted by ParseInstant.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

// InstantOf returns the wall-clock fields of t.
func InstantOf(t time.Time) Instant {
	return Instant{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}
}

// ParseInstant parses "YYYY-MM-DD" or "YYYY-MM-DDTHH:MM".
func ParseInstant(s string) (Instant, error) {
	s = strings.TrimSpace(s)
	layout := DateLayout
	if strings.Contains(s, "T") {
		layout = DateTimeLayout
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return Instant{}, NewError("calendar.parse_instant", KindInvalidInput, "parse %q: %v", s, err)
	}
	return InstantOf(t), nil
}

// WithClock returns a copy of i with hour and minute taken from "HH:MM".
// An empty clock leaves i unchanged.
func (i Instant) WithClock(clock string) (Instant, error) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return i, nil
	}

	t, err := time.Parse("15:04", clock)
	if err != nil {
		return i, NewError("calendar.parse_clock", KindInvalidInput, "parse %q: %v", clock, err)
	}
	i.Hour = t.Hour()
	i.Minute = t.Minute()
	return i, nil
}

// Validate checks the fields describe a real date and clock time.
func (i Instant) Validate() error {
	if i.Month < 1 || i.Month > 12 {
		return NewError("calendar.validate", KindInvalidInput, "month %d out of range 1..12", i.Month)
	}
	if i.Day < 1 || i.Day > daysIn(i.Year, time.Month(i.Month)) {
		return NewError("calendar.validate", KindInvalidInput, "day %d out of range for %04d-%02d", i.Day, i.Year, i.Month)
	}
	if i.Hour < 0 || i.Hour > 23 {
		return NewError("calendar.validate", KindInvalidInput, "hour %d out of range 0..23", i.Hour)
	}
	if i.Minute < 0 || i.Minute > 59 {
		return NewError("calendar.validate", KindInvalidInput, "minute %d out of range 0..59", i.Minute)
	}
	return nil
}

// Time returns the instant as a UTC time carrying the same wall clock.
func (i Instant) Time() time.Time {
	return time.Date(i.Year, time.Month(i.Month), i.Day, i.Hour, i.Minute, 0, 0, time.UTC)
}

// Date returns midnight of the instant's civil date.
func (i Instant) Date() time.Time {
	return time.Date(i.Year, time.Month(i.Month), i.Day, 0, 0, 0, 0, time.UTC)
}

func (i Instant) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d", i.Year, i.Month, i.Day, i.Hour, i.Minute)
}

// Civil strips the location from t, keeping its wall clock.
func Civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// CivilDate returns midnight of t's wall-clock date.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayNumber returns the Julian day number of t's wall-clock date.
func DayNumber(t time.Time) int {
	year := t.Year()
	month := int(t.Month())
	day := t.Day()

	a := (14 - month) / 12
	y := year + 4800 - a
	m := month + 12*a - 3

	return day + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
}

// DaysBetween returns the signed number of civil days from a to b.
func DaysBetween(a, b time.Time) int {
	return DayNumber(b) - DayNumber(a)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
