package ziwei

import (
	"time"

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// tigerStems gives the stem of the 寅 month for each year stem (五虎遁).
var tigerStems = [calendar.StemCount]calendar.Stem{
	calendar.Bing, calendar.Wu, calendar.Geng, calendar.Ren, calendar.Jia,
	calendar.Bing, calendar.Wu, calendar.Geng, calendar.Ren, calendar.Jia,
}

// Builder builds natal charts.
type Builder struct {
	calc *calendar.Calculator
}

// NewBuilder creates a builder on top of calc.
func NewBuilder(calc *calendar.Calculator) *Builder {
	return &Builder{calc: calc}
}

// Build charts a birth on a Gregorian date at the given clock hour, read for
// evalYear.
func (b *Builder) Build(birth time.Time, hour, evalYear int) (*Chart, error) {
	if hour < 0 || hour > 23 {
		return nil, calendar.NewError("ziwei.build", calendar.KindInvalidInput, "hour %d out of range 0..23", hour)
	}
	lunar, err := b.calc.ToLunisolar(birth)
	if err != nil {
		return nil, err
	}
	return BuildLunar(lunar, hour, evalYear)
}

// BuildLunar charts a birth given directly as a lunar date.
func BuildLunar(birth calendar.LunarDate, hour, evalYear int) (*Chart, error) {
	if birth.Month < 1 || birth.Month > 12 {
		return nil, calendar.NewError("ziwei.build", calendar.KindInvalidInput, "lunar month %d out of range 1..12", birth.Month)
	}
	hourBranch, err := calendar.HourBranch(hour)
	if err != nil {
		return nil, err
	}

	yearPillar := calendar.YearPillar(birth.Year)
	bureau, offset := bureauOf(yearPillar.Stem())
	tiger := tigerStems[yearPillar.Stem()]

	// Counted 1..12 from 寅, with 0 standing for 12.
	life := calendar.Mod(birth.Month+int(hourBranch), PalaceCount)
	if life == 0 {
		life = PalaceCount
	}
	life--

	ziwei := calendar.Mod(life+offset, PalaceCount)
	flow := calendar.Mod(life+calendar.Mod(evalYear-birth.Year, PalaceCount), PalaceCount)

	c := &Chart{
		Birth:          birth,
		HourBranch:     hourBranch,
		EvalYear:       evalYear,
		YearPillar:     yearPillar,
		MonthStem:      calendar.Stem(calendar.Mod(int(tiger)+birth.Month-1, calendar.StemCount)),
		Bureau:         bureau,
		LifePalace:     life,
		ZiWeiPalace:    ziwei,
		FlowYearPalace: flow,
	}

	for i := range c.Palaces {
		p := &c.Palaces[i]
		p.Index = i
		p.Branch = RingBranch(i)
		p.Stem = calendar.Stem(calendar.Mod(int(tiger)+i, calendar.StemCount))
		p.Name = PalaceNames[calendar.Mod(life-i, PalaceCount)]
		p.SecondaryStars = []string{SecondaryStars[calendar.Mod(birth.Month+3*i, len(SecondaryStars))]}
		p.Spirits = []string{spiritFor(i)}
	}

	for i, star := range MainStars {
		p := &c.Palaces[calendar.Mod(ziwei+i, PalaceCount)]
		p.MainStars = append(p.MainStars, star)
	}

	for _, step := range []int{0, 3, 6, 9} {
		c.Palaces[calendar.Mod(life+step, PalaceCount)].IsThreePower = true
	}
	c.Palaces[life].IsLifePalace = true
	c.Palaces[flow].IsFlowYear = true

	return c, nil
}

func spiritFor(i int) string {
	if i%2 == 0 && i < len(Spirits) {
		return Spirits[i]
	}
	return Spirits[(i+3)%len(Spirits)]
}
