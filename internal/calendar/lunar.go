package calendar

import (
	"fmt"
	"time"
)

// Coverage of the packed lunar-year table.
const (
	MinLunarYear = 1900
	MaxLunarYear = 2050
)

// lunarEpoch is the Gregorian date of lunar 1900-01-01.
var lunarEpoch = time.Date(1900, time.January, 31, 0, 0, 0, 0, time.UTC)

// lunarInfo packs one lunar year per entry:
// bits 0-3 leap month (0 = none), bits 4-15 big (30-day) months 12..1,
// bit 16 big leap month.
var lunarInfo = [MaxLunarYear - MinLunarYear + 1]int{
	0x04bd8, 0x04ae0, 0x0a570, 0x054d5, 0x0d260, 0x0d950, 0x16554, 0x056a0, 0x09ad0, 0x055d2, // 1900
	0x04ae0, 0x0a5b6, 0x0a4d0, 0x0d250, 0x1d255, 0x0b540, 0x0d6a0, 0x0ada2, 0x095b0, 0x14977, // 1910
	0x04970, 0x0a4b0, 0x0b4b5, 0x06a50, 0x06d40, 0x1ab54, 0x02b60, 0x09570, 0x052f2, 0x04970, // 1920
	0x06566, 0x0d4a0, 0x0ea50, 0x16a95, 0x05ad0, 0x02b60, 0x186e3, 0x092e0, 0x1c8d7, 0x0c950, // 1930
	0x0d4a0, 0x1d8a6, 0x0b550, 0x056a0, 0x1a5b4, 0x025d0, 0x092d0, 0x0d2b2, 0x0a950, 0x0b557, // 1940
	0x06ca0, 0x0b550, 0x15355, 0x04da0, 0x0a5b0, 0x14573, 0x052b0, 0x0a9a8, 0x0e950, 0x06aa0, // 1950
	0x0aea6, 0x0ab50, 0x04b60, 0x0aae4, 0x0a570, 0x05260, 0x0f263, 0x0d950, 0x05b57, 0x056a0, // 1960
	0x096d0, 0x04dd5, 0x04ad0, 0x0a4d0, 0x0d4d4, 0x0d250, 0x0d558, 0x0b540, 0x0b6a0, 0x195a6, // 1970
	0x095b0, 0x049b0, 0x0a974, 0x0a4b0, 0x0b27a, 0x06a50, 0x06d40, 0x0af46, 0x0ab60, 0x09570, // 1980
	0x04af5, 0x04970, 0x064b0, 0x074a3, 0x0ea50, 0x06b58, 0x05ac0, 0x0ab60, 0x096d5, 0x092e0, // 1990
	0x0c960, 0x0d954, 0x0d4a0, 0x0da50, 0x07552, 0x056a0, 0x0abb7, 0x025d0, 0x092d0, 0x0cab5, // 2000
	0x0a950, 0x0b4a0, 0x0baa4, 0x0ad50, 0x055d9, 0x04ba0, 0x0a5b0, 0x15176, 0x052b0, 0x0a930, // 2010
	0x07954, 0x06aa0, 0x0ad50, 0x05b52, 0x04b60, 0x0a6e6, 0x0a4e0, 0x0d260, 0x0ea65, 0x0d530, // 2020
	0x05aa0, 0x076a3, 0x096d0, 0x04afb, 0x04ad0, 0x0a4d0, 0x1d0b6, 0x0d250, 0x0d520, 0x0dd45, // 2030
	0x0b5a0, 0x056d0, 0x055b2, 0x049b0, 0x0a577, 0x0a4b0, 0x0aa50, 0x1b255, 0x06d20, 0x0ada0, // 2040
	0x14b63,                                                                                  // 2050
}

// LunarDate is a date in the Chinese lunisolar calendar. Month is the real
// month 1..12; a leap month carries the number of the month it follows.
type LunarDate struct {
	Year        int  `json:"year"`
	Month       int  `json:"month"`
	Day         int  `json:"day"`
	IsLeapMonth bool `json:"is_leap_month"`
}

func (d LunarDate) String() string {
	leap := ""
	if d.IsLeapMonth {
		leap = "leap "
	}
	return fmt.Sprintf("%04d/%s%02d/%02d", d.Year, leap, d.Month, d.Day)
}

// LeapMonth returns the leap month of a lunar year, or 0.
func LeapMonth(year int) int {
	if year < MinLunarYear || year > MaxLunarYear {
		return 0
	}
	return lunarInfo[year-MinLunarYear] & 0xf
}

func leapMonthDays(year int) int {
	if LeapMonth(year) == 0 {
		return 0
	}
	if lunarInfo[year-MinLunarYear]&0x10000 != 0 {
		return 30
	}
	return 29
}

func regularMonthDays(year, month int) int {
	if lunarInfo[year-MinLunarYear]&(0x10000>>month) != 0 {
		return 30
	}
	return 29
}

func lunarYearDays(year int) int {
	total := 348
	info := lunarInfo[year-MinLunarYear]
	for bit := 0x8000; bit > 0x8; bit >>= 1 {
		if info&bit != 0 {
			total++
		}
	}
	return total + leapMonthDays(year)
}

// monthSlot resolves a raw month index of a lunar year (1-based, the leap
// month occupying its own slot) into a real month number.
func monthSlot(year, raw int) (month int, leap bool, days int, err error) {
	lm := LeapMonth(year)
	slots := 12
	if lm > 0 {
		slots = 13
	}
	if raw < 1 || raw > slots {
		return 0, false, 0, NewError("calendar.month_slot", KindInvalidLunarIndex,
			"raw month %d out of range 1..%d for lunar year %d", raw, slots, year)
	}

	switch {
	case lm == 0 || raw <= lm:
		return raw, false, regularMonthDays(year, raw), nil
	case raw == lm+1:
		return lm, true, leapMonthDays(year), nil
	default:
		return raw - 1, false, regularMonthDays(year, raw-1), nil
	}
}

// MonthDays returns the length of a lunar month. leap selects the leap month
// that follows month; asking for a leap month the year does not have fails
// with InvalidLunarIndex.
func MonthDays(year, month int, leap bool) (int, error) {
	if year < MinLunarYear || year > MaxLunarYear {
		return 0, NewError("calendar.month_days", KindUnsupportedYear, "lunar year %d outside %d..%d", year, MinLunarYear, MaxLunarYear)
	}
	if month < 1 || month > 12 {
		return 0, NewError("calendar.month_days", KindInvalidLunarIndex, "month %d out of range 1..12", month)
	}
	if leap {
		if LeapMonth(year) != month {
			return 0, NewError("calendar.month_days", KindInvalidLunarIndex, "lunar year %d has no leap month %d", year, month)
		}
		return leapMonthDays(year), nil
	}
	return regularMonthDays(year, month), nil
}

// solarToLunar walks the lunar table from the epoch to date.
func solarToLunar(date time.Time) (LunarDate, error) {
	offset := DaysBetween(lunarEpoch, date)
	if offset < 0 {
		return LunarDate{}, NewError("calendar.to_lunisolar", KindUnsupportedYear, "%s precedes the lunar table", date.Format(DateLayout))
	}

	year := MinLunarYear
	for ; year <= MaxLunarYear; year++ {
		n := lunarYearDays(year)
		if offset < n {
			break
		}
		offset -= n
	}
	if year > MaxLunarYear {
		return LunarDate{}, NewError("calendar.to_lunisolar", KindUnsupportedYear, "%s is beyond the lunar table", date.Format(DateLayout))
	}

	for raw := 1; ; raw++ {
		month, leap, days, err := monthSlot(year, raw)
		if err != nil {
			return LunarDate{}, err
		}
		if offset < days {
			return LunarDate{Year: year, Month: month, Day: offset + 1, IsLeapMonth: leap}, nil
		}
		offset -= days
	}
}

// LunarToSolar converts a lunar date back to its Gregorian civil date.
func LunarToSolar(d LunarDate) (time.Time, error) {
	days, err := MonthDays(d.Year, d.Month, d.IsLeapMonth)
	if err != nil {
		return time.Time{}, err
	}
	if d.Day < 1 || d.Day > days {
		return time.Time{}, NewError("calendar.lunar_to_solar", KindInvalidLunarIndex, "day %d out of range 1..%d", d.Day, days)
	}

	offset := 0
	for y := MinLunarYear; y < d.Year; y++ {
		offset += lunarYearDays(y)
	}
	for raw := 1; ; raw++ {
		month, leap, n, err := monthSlot(d.Year, raw)
		if err != nil {
			return time.Time{}, err
		}
		if month == d.Month && leap == d.IsLeapMonth {
			break
		}
		offset += n
	}
	return lunarEpoch.AddDate(0, 0, offset+d.Day-1), nil
}
