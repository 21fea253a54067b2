package almanac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/almanac-api/internal/calendar"
	"github.com/zapponejosh/almanac-api/internal/ephemeris"
	"github.com/zapponejosh/almanac-api/internal/flyingstar"
	"github.com/zapponejosh/almanac-api/internal/locale"
)

func testService(t *testing.T, lang string, opts ...Option) *Service {
	t.Helper()

	table, err := ephemeris.Embedded()
	require.NoError(t, err)
	text, err := locale.Load(lang)
	require.NoError(t, err)
	return New(table, text, opts...)
}

func instant(t *testing.T, s string) calendar.Instant {
	t.Helper()

	in, err := calendar.ParseInstant(s)
	require.NoError(t, err)
	return in
}

func TestDay_NewYearMorning(t *testing.T) {
	svc := testService(t, "zh")

	r, err := svc.Day(instant(t, "2025-01-29T10:00"))
	require.NoError(t, err)

	assert.Equal(t, "2025-01-29", r.Date)
	assert.Equal(t, "10:00", r.Time)

	assert.Equal(t, LunarView{
		Year: 2025, Month: 1, Day: 1,
		YearPillar: "乙巳",
		Zodiac:     Text{Key: "巳", Label: "蛇"},
		MonthName:  "正月",
		DayName:    "初一",
	}, r.Lunar)

	assert.Equal(t, "乙巳", r.Pillars.Year.Pillar)
	assert.Equal(t, "丁丑", r.Pillars.Month.Pillar)
	assert.Equal(t, "丁巳", r.Pillars.Hour.Pillar)
	assert.Equal(t, PillarView{
		Pillar: "戊戌",
		Stem:   Text{Key: "戊", Label: "戊"},
		Branch: Text{Key: "戌", Label: "戌"},
		NaYin:  "平地木",
		Void:   [2]string{"辰", "巳"},
		Clash:  "辰",
	}, r.Pillars.Day)

	assert.Nil(t, r.SolarTerm)
	assert.Equal(t, "收", r.Officer.Officer.Key)
	assert.Equal(t, "advance", r.Officer.Rule.Key)
	assert.NotEmpty(t, r.Officer.Meaning)

	assert.Equal(t, "参", r.Lodge.Key)
	assert.Equal(t, RoadView{
		Spirit: Text{Key: "青龙", Label: "青龙"},
		Road:   Text{Key: "yellow", Label: "黄道"},
		Yellow: true,
	}, r.Road)

	require.Len(t, r.FlyingStars, 4)
	centers := make([]int, 0, 4)
	for _, g := range r.FlyingStars {
		centers = append(centers, g.Center)
		assert.Equal(t, 9, g.Period)
		assert.Len(t, g.Palaces, flyingstar.PalaceCount)
	}
	assert.Equal(t, []int{2, 2, 8, 9}, centers)

	year := r.FlyingStars[0]
	assert.Equal(t, "year", year.Scale.Key)
	center := year.Palaces[flyingstar.Center]
	assert.Equal(t, StarView{
		Palace: Text{Key: "C", Label: "中"},
		Star:   2,
		Name:   "二黑巨门",
		Luck:   "凶",
	}, center)
}

func TestDay_DayFacts(t *testing.T) {
	svc := testService(t, "zh")

	r, err := svc.Day(instant(t, "2025-01-29T10:00"))
	require.NoError(t, err)

	assert.Equal(t, Text{Key: "先胜", Label: "先胜"}, r.SixYao)
	assert.False(t, r.YangGong)

	assert.Equal(t, RelationsView{
		Trine:    []string{"寅", "午", "戌"},
		Harmony:  "卯",
		Clash:    "辰",
		Harm:     "酉",
		Punishes: []string{"丑", "未"},
	}, r.Relations)

	assert.Equal(t, GodsView{
		Joy:         Text{Key: "SE", Label: "东南"},
		Noble:       Text{Key: "NE", Label: "东北"},
		Wealth:      Text{Key: "C", Label: "中"},
		Crane:       Text{Key: "W", Label: "西"},
		Fetus:       Text{Key: "privy", Label: "房内、厕内"},
		NobleBranch: "丑",
	}, r.Gods)

	require.Len(t, r.Hours, 12)
	assert.Equal(t, HourLuckView{
		Branch: Text{Key: "子", Label: "子"},
		Start:  "23:00",
		Luck:   Text{Key: "neutral", Label: "平"},
	}, r.Hours[0])
	assert.Equal(t, "01:00", r.Hours[1].Start)
	assert.Equal(t, "生", r.Hours[5].Luck.Label)
	assert.Equal(t, "进", r.Hours[8].Luck.Label)
	assert.Equal(t, "吉", r.Hours[10].Luck.Label)
}

func TestDay_YangGong(t *testing.T) {
	svc := testService(t, "zh")

	// Lunar 2025-01-13.
	r, err := svc.Day(instant(t, "2025-02-10"))
	require.NoError(t, err)

	assert.Equal(t, 13, r.Lunar.Day)
	assert.True(t, r.YangGong)
}

func TestDay_SolarTermDay(t *testing.T) {
	svc := testService(t, "en")

	r, err := svc.Day(instant(t, "2025-02-03"))
	require.NoError(t, err)

	require.NotNil(t, r.SolarTerm)
	assert.Equal(t, calendar.LiChun, r.SolarTerm.Index)
	assert.Equal(t, Text{Key: "立春", Label: "Start of Spring"}, r.SolarTerm.Name)
	assert.Equal(t, "2025-02-03 22:10:13", r.SolarTerm.Time)
	assert.Equal(t, "solar_term", r.Officer.Rule.Key)
}

func TestLunar_English(t *testing.T) {
	svc := testService(t, "en")

	v, err := svc.Lunar(instant(t, "2025-01-29"))
	require.NoError(t, err)

	assert.Equal(t, "Snake", v.Zodiac.Label)
	assert.Equal(t, "First Month", v.MonthName)
	// Day names only exist in the Chinese catalog.
	assert.Equal(t, "初一", v.DayName)
}

func TestLunar_LeapMonth(t *testing.T) {
	svc := testService(t, "zh")

	// 2023 had a leap second month; its first day fell on 2023-03-22.
	v, err := svc.Lunar(instant(t, "2023-03-22"))
	require.NoError(t, err)

	assert.True(t, v.IsLeapMonth)
	assert.Equal(t, 2, v.Month)
	assert.Equal(t, "闰二月", v.MonthName)
}

func TestFlyingStars(t *testing.T) {
	svc := testService(t, "zh")

	g, err := svc.FlyingStars(flyingstar.ScaleDay, instant(t, "2025-01-29T10:00"))
	require.NoError(t, err)

	assert.Equal(t, 8, g.Center)
	for _, p := range g.Palaces {
		assert.Equal(t, flyingstar.Timely(p.Star, 9), p.Timely, p.Palace.Key)
	}

	// Period 9 favours 8, 9 and 1.
	for _, p := range g.Palaces {
		switch p.Star {
		case 1:
			assert.True(t, p.Timely)
			assert.Equal(t, "吉", p.Luck)
		case 7:
			assert.False(t, p.Timely)
			assert.Equal(t, "凶", p.Luck)
		case 8:
			assert.True(t, p.Timely)
			assert.Equal(t, "大吉", p.Luck)
		}
	}
}

func TestOfficers(t *testing.T) {
	svc := testService(t, "zh")

	v, err := svc.Officers(instant(t, "2025-01-31"), instant(t, "2025-02-03"))
	require.NoError(t, err)

	got := make([]string, len(v.Officers))
	for i, o := range v.Officers {
		got[i] = o.Officer.Key
	}
	assert.Equal(t, []string{"闭", "建", "除", "除"}, got)
	assert.Equal(t, "branch_coincidence", v.Officers[1].Rule.Key)
	assert.Equal(t, "2025-01-31", v.Start)

	_, err = svc.Officers(instant(t, "2025-01-01"), instant(t, "2025-04-01"))
	assert.True(t, calendar.IsKind(err, calendar.KindInvalidInput), "got %v", err)
}

func TestZiWei(t *testing.T) {
	svc := testService(t, "zh")

	c, err := svc.ZiWei(instant(t, "2025-01-29"), 10, 2025)
	require.NoError(t, err)

	assert.Equal(t, "巳", c.Hour.Key)
	assert.Equal(t, Text{Key: "wood", Label: "木三局"}, c.Bureau)
	assert.Equal(t, 5, c.LifePalace)
	require.Len(t, c.Palaces, 12)

	life := c.Palaces[c.LifePalace]
	assert.True(t, life.IsLifePalace)
	assert.Equal(t, "命宫", life.Name.Key)

	assert.Equal(t, life.Branch, c.LifeBranch)
	require.Len(t, c.ThreePower, 4)
	assert.Contains(t, c.ThreePower, c.LifePalace)

	mains := 0
	for _, p := range c.Palaces {
		mains += len(p.MainStars)
	}
	assert.Equal(t, 14, mains)

	require.Len(t, c.Placements, 14)
	assert.Equal(t, "紫微", c.Placements[0].Star.Key)
	assert.Equal(t, c.ZiWeiPalace, c.Placements[0].Palace)
	for _, pl := range c.Placements {
		assert.Contains(t, c.Palaces[pl.Palace].MainStars, pl.Star, pl.Star.Key)
	}

	_, err = svc.ZiWei(instant(t, "2025-01-29"), 24, 2025)
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)
}

func TestSolar(t *testing.T) {
	svc := testService(t, "zh")

	v, err := svc.Solar(calendar.LunarDate{Year: 2025, Month: 1, Day: 1})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-29", v.Date)
	assert.Equal(t, "Wednesday", v.Weekday)
	assert.Equal(t, "乙巳", v.Lunar.YearPillar)

	v, err = svc.Solar(calendar.LunarDate{Year: 2023, Month: 2, Day: 1, IsLeapMonth: true})
	require.NoError(t, err)
	assert.Equal(t, "2023-03-22", v.Date)
	assert.Equal(t, "闰二月", v.Lunar.MonthName)

	_, err = svc.Solar(calendar.LunarDate{Year: 2025, Month: 1, Day: 31})
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)
	_, err = svc.Solar(calendar.LunarDate{Year: 1800, Month: 1, Day: 1})
	assert.ErrorIs(t, err, calendar.ErrUnsupportedYear)
}

func TestSolarTerms(t *testing.T) {
	svc := testService(t, "zh")

	v, err := svc.SolarTerms(2025)
	require.NoError(t, err)
	require.Len(t, v.Terms, calendar.TermsPerYear)
	assert.Equal(t, "冬至", v.Terms[calendar.DongZhi].Name.Label)

	_, err = svc.SolarTerms(1800)
	assert.ErrorIs(t, err, calendar.ErrUnsupportedYear)
}

func TestInvalidInstant(t *testing.T) {
	svc := testService(t, "zh")

	bad := calendar.Instant{Year: 2025, Month: 2, Day: 30}
	_, err := svc.Day(bad)
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)
	_, err = svc.Pillars(bad)
	assert.ErrorIs(t, err, calendar.ErrInvalidInput)
}

func TestWithOfficerLookback(t *testing.T) {
	svc := testService(t, "zh", WithOfficerLookback(3))

	_, err := svc.Officer(instant(t, "2025-02-10"))
	assert.ErrorIs(t, err, calendar.ErrNoOfficerAnchor)
}
