package calendar_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/zapponejosh/almanac-api/internal/calendar"
	"github.com/zapponejosh/almanac-api/internal/ephemeris"
)

func testCalculator(t *testing.T) *calendar.Calculator {
	t.Helper()

	table, err := ephemeris.Embedded()
	if err != nil {
		t.Fatalf("load ephemeris: %v", err)
	}
	return calendar.NewCalculator(table)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestToLunisolar(t *testing.T) {
	calc := testCalculator(t)

	tests := []struct {
		name string
		in   time.Time
		want calendar.LunarDate
	}{
		{"new year 2025", date(2025, 1, 29), calendar.LunarDate{Year: 2025, Month: 1, Day: 1}},
		{"last day of 2023 lunar year", date(2024, 2, 9), calendar.LunarDate{Year: 2023, Month: 12, Day: 30}},
		{"new year 2024", date(2024, 2, 10), calendar.LunarDate{Year: 2024, Month: 1, Day: 1}},
		{"new year 1984", date(1984, 2, 2), calendar.LunarDate{Year: 1984, Month: 1, Day: 1}},
		{"leap second month", date(2023, 3, 22), calendar.LunarDate{Year: 2023, Month: 2, Day: 1, IsLeapMonth: true}},
		{"leap fourth month", date(2020, 5, 23), calendar.LunarDate{Year: 2020, Month: 4, Day: 1, IsLeapMonth: true}},
		{"leap eleventh month", date(2033, 12, 22), calendar.LunarDate{Year: 2033, Month: 11, Day: 1, IsLeapMonth: true}},
		{"time of day ignored", time.Date(2025, 1, 29, 23, 59, 0, 0, time.UTC), calendar.LunarDate{Year: 2025, Month: 1, Day: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := calc.ToLunisolar(tt.in)
			if err != nil {
				t.Fatalf("ToLunisolar: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("lunar date mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToLunisolar_UnsupportedYear(t *testing.T) {
	calc := testCalculator(t)

	for _, in := range []time.Time{date(1905, 6, 1), date(2045, 1, 1)} {
		_, err := calc.ToLunisolar(in)
		if !errors.Is(err, calendar.ErrUnsupportedYear) {
			t.Errorf("ToLunisolar(%s) error = %v, want UnsupportedYear", in.Format(calendar.DateLayout), err)
		}
	}
}

func TestLunarToSolar_RoundTrip(t *testing.T) {
	calc := testCalculator(t)

	for d := date(2019, 12, 1); d.Before(date(2024, 3, 1)); d = d.AddDate(0, 0, 1) {
		lunar, err := calc.ToLunisolar(d)
		if err != nil {
			t.Fatalf("ToLunisolar(%s): %v", d.Format(calendar.DateLayout), err)
		}
		back, err := calendar.LunarToSolar(lunar)
		if err != nil {
			t.Fatalf("LunarToSolar(%s): %v", lunar, err)
		}
		if !back.Equal(d) {
			t.Fatalf("round trip %s -> %s -> %s", d.Format(calendar.DateLayout), lunar, back.Format(calendar.DateLayout))
		}
	}
}

func TestLunarToSolar_InvalidIndex(t *testing.T) {
	tests := []struct {
		name string
		in   calendar.LunarDate
	}{
		{"month 13", calendar.LunarDate{Year: 2025, Month: 13, Day: 1}},
		{"leap month the year lacks", calendar.LunarDate{Year: 2024, Month: 4, Day: 1, IsLeapMonth: true}},
		{"day 31", calendar.LunarDate{Year: 2025, Month: 1, Day: 31}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calendar.LunarToSolar(tt.in)
			if !calendar.IsKind(err, calendar.KindInvalidLunarIndex) {
				t.Errorf("error = %v, want invalid_lunar_index", err)
			}
		})
	}
}

func TestDayPillar(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{date(1900, 2, 20), "甲子"},
		{date(1899, 12, 31), "癸酉"},
		{date(2000, 1, 1), "戊午"},
		{date(2025, 1, 29), "戊戌"},
	}

	for _, tt := range tests {
		if got := calendar.DayPillar(tt.in).String(); got != tt.want {
			t.Errorf("DayPillar(%s) = %s, want %s", tt.in.Format(calendar.DateLayout), got, tt.want)
		}
	}
}

func TestDayPillar_Periodicity(t *testing.T) {
	for d := date(1899, 1, 1); d.Before(date(1901, 1, 1)); d = d.AddDate(0, 0, 7) {
		p := calendar.DayPillar(d)
		if next := calendar.DayPillar(d.AddDate(0, 0, 60)); next != p {
			t.Fatalf("DayPillar(%s+60) = %s, want %s", d.Format(calendar.DateLayout), next, p)
		}
		if next := calendar.DayPillar(d.AddDate(0, 0, 1)); next != calendar.PillarOf(int(p)+1) {
			t.Fatalf("DayPillar(%s+1) = %s, want successor of %s", d.Format(calendar.DateLayout), next, p)
		}
	}
}

func TestYearPillar(t *testing.T) {
	tests := map[int]string{
		1984: "甲子",
		2025: "乙巳",
		2024: "甲辰",
		4:    "甲子",
		3:    "癸亥",
	}
	for year, want := range tests {
		if got := calendar.YearPillar(year).String(); got != want {
			t.Errorf("YearPillar(%d) = %s, want %s", year, got, want)
		}
	}
}

func TestMonthPillar(t *testing.T) {
	calc := testCalculator(t)

	tests := []struct {
		in   time.Time
		want string
	}{
		{date(2024, 12, 31), "丙子"},
		{date(2025, 1, 4), "丙子"},
		{date(2025, 1, 5), "丁丑"},
		{date(2025, 1, 29), "丁丑"},
		{date(2025, 2, 3), "戊寅"},
		{date(2025, 2, 10), "戊寅"},
		{date(2025, 6, 5), "壬午"},
		{date(2025, 12, 7), "戊子"},
	}

	for _, tt := range tests {
		got, err := calc.MonthPillar(tt.in)
		if err != nil {
			t.Fatalf("MonthPillar(%s): %v", tt.in.Format(calendar.DateLayout), err)
		}
		if got.String() != tt.want {
			t.Errorf("MonthPillar(%s) = %s, want %s", tt.in.Format(calendar.DateLayout), got, tt.want)
		}
	}
}

func TestSolarMonthOf(t *testing.T) {
	calc := testCalculator(t)

	sm, err := calc.SolarMonthOf(date(2025, 1, 29))
	if err != nil {
		t.Fatalf("SolarMonthOf: %v", err)
	}
	if sm.Year != 2025 || sm.Month != 1 || sm.GanzhiYear != 2024 || sm.Offset != 11 {
		t.Errorf("SolarMonthOf = %+v, want 2025-01 in ganzhi year 2024 offset 11", sm)
	}
	if sm.Branch() != calendar.Chou {
		t.Errorf("Branch = %s, want 丑", sm.Branch())
	}

	sm, err = calc.SolarMonthOf(date(2025, 2, 3))
	if err != nil {
		t.Fatalf("SolarMonthOf: %v", err)
	}
	if sm.GanzhiYear != 2025 || sm.Offset != 0 || sm.FirstTerm.Name != "立春" {
		t.Errorf("SolarMonthOf(立春) = %+v", sm)
	}
}

func TestHourBranch(t *testing.T) {
	tests := map[int]calendar.Branch{
		23: calendar.Zi,
		0:  calendar.Zi,
		1:  calendar.Chou,
		2:  calendar.Chou,
		10: calendar.Si,
		11: calendar.BranchWu,
		22: calendar.Hai,
	}
	for hour, want := range tests {
		got, err := calendar.HourBranch(hour)
		if err != nil {
			t.Fatalf("HourBranch(%d): %v", hour, err)
		}
		if got != want {
			t.Errorf("HourBranch(%d) = %s, want %s", hour, got, want)
		}
	}

	for _, hour := range []int{-1, 24} {
		if _, err := calendar.HourBranch(hour); !errors.Is(err, calendar.ErrInvalidInput) {
			t.Errorf("HourBranch(%d) error = %v, want InvalidInput", hour, err)
		}
	}
}

func TestFourPillars(t *testing.T) {
	calc := testCalculator(t)

	tests := []struct {
		name string
		in   time.Time
		want [4]string
	}{
		{"morning", time.Date(2025, 1, 29, 10, 0, 0, 0, time.UTC), [4]string{"乙巳", "丁丑", "戊戌", "丁巳"}},
		{"late zi hour keeps the day", time.Date(2025, 1, 29, 23, 30, 0, 0, time.UTC), [4]string{"乙巳", "丁丑", "戊戌", "壬子"}},
		{"early zi hour", time.Date(2025, 1, 29, 0, 15, 0, 0, time.UTC), [4]string{"乙巳", "丁丑", "戊戌", "壬子"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp, err := calc.FourPillars(tt.in)
			if err != nil {
				t.Fatalf("FourPillars: %v", err)
			}
			got := [4]string{fp.Year.String(), fp.Month.String(), fp.Day.String(), fp.Hour.String()}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("pillars mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsFirstTermDay(t *testing.T) {
	calc := testCalculator(t)

	for _, tt := range []struct {
		in   time.Time
		want bool
	}{
		{date(2025, 2, 3), true},
		{date(2025, 2, 4), false},
		{date(2025, 2, 18), false},
	} {
		got, err := calc.IsFirstTermDay(tt.in)
		if err != nil {
			t.Fatalf("IsFirstTermDay: %v", err)
		}
		if got != tt.want {
			t.Errorf("IsFirstTermDay(%s) = %v, want %v", tt.in.Format(calendar.DateLayout), got, tt.want)
		}
	}

	term, ok, err := calc.TermOn(date(2025, 12, 21))
	if err != nil || !ok || term.Name != "冬至" {
		t.Errorf("TermOn(2025-12-21) = %+v, %v, %v", term, ok, err)
	}
}
