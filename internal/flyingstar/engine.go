package flyingstar

import (
	"time"

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// DefaultAnchorWindow bounds the search for the 甲子 day following a day-star
// anchor term.
const DefaultAnchorWindow = 200

// dayAnchor is a solar term that restarts the day-star sequence on the
// following 甲子 day.
type dayAnchor struct {
	term    int
	star    int
	forward bool
}

var dayAnchors = []dayAnchor{
	{calendar.YuShui, 7, true},
	{calendar.GuYu, 4, true},
	{calendar.XiaZhi, 9, false},
	{calendar.ChuShu, 3, false},
	{calendar.ShuangJiang, 6, false},
	{calendar.DongZhi, 1, true},
}

// Engine computes flying-star grids. It holds only immutable configuration.
type Engine struct {
	calc         *calendar.Calculator
	anchorWindow int
}

// Option configures an Engine.
type Option func(*Engine)

// WithAnchorWindow sets how many days after an anchor term are searched for a
// 甲子 day. Values below 1 are ignored.
func WithAnchorWindow(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.anchorWindow = days
		}
	}
}

// NewEngine creates an engine on top of calc.
func NewEngine(calc *calendar.Calculator, opts ...Option) *Engine {
	e := &Engine{
		calc:         calc,
		anchorWindow: DefaultAnchorWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Grid computes the grid of one scale at t.
func (e *Engine) Grid(scale Scale, t time.Time) (Grid, error) {
	switch scale {
	case ScaleYear:
		return e.YearGrid(t), nil
	case ScaleMonth:
		return e.MonthGrid(t)
	case ScaleDay:
		return e.DayGrid(t)
	case ScaleHour:
		return e.HourGrid(t)
	default:
		return Grid{}, calendar.NewError("flyingstar.grid", calendar.KindInvalidInput, "unknown scale %q", scale)
	}
}

// Grids computes the grids of all four scales at t, keyed by scale.
func (e *Engine) Grids(t time.Time) (map[Scale]Grid, error) {
	out := make(map[Scale]Grid, len(Scales))
	for _, sc := range Scales {
		g, err := e.Grid(sc, t)
		if err != nil {
			return nil, err
		}
		out[sc] = g
	}
	return out, nil
}

// YearGrid follows the Gregorian year: the center star counts down from 10
// (9 from 2000) by the digit sum of the last two digits. Stars fly forward
// before 2000 and backward from then on.
func (e *Engine) YearGrid(t time.Time) Grid {
	year := t.Year()
	lastTwo := calendar.Mod(year, 100)
	sum := lastTwo/10 + lastTwo%10

	base := 9
	if year < 2000 {
		base = 10
	}
	if sum > base {
		sum = sum/10 + sum%10
	}

	center := base - sum
	if center == 0 {
		center = 9
	}
	return newGrid(ScaleYear, center, year < 2000)
}

// MonthGrid starts the first lunar month from the year branch and advances
// one star per lunar month. A leap month counts as the month it follows.
func (e *Engine) MonthGrid(t time.Time) (Grid, error) {
	lunar, err := e.calc.ToLunisolar(t)
	if err != nil {
		return Grid{}, err
	}

	var start int
	var forward bool
	switch calendar.YearPillar(lunar.Year).Branch() {
	case calendar.Yin, calendar.Shen, calendar.Si, calendar.Hai:
		start, forward = 2, true
	case calendar.Zi, calendar.BranchWu, calendar.Mao, calendar.You:
		start, forward = 8, false
	default:
		start, forward = 5, false
	}

	return newGrid(ScaleMonth, advance(start, lunar.Month-1, forward), forward), nil
}

// DayAnchor is the 甲子 day that restarted the day-star sequence.
type DayAnchor struct {
	Term    calendar.SolarTerm
	Day     time.Time
	Star    int
	Forward bool
}

// FindDayAnchor returns the latest anchor on or before t's date. When two
// terms share the same 甲子 day, the later term wins.
func (e *Engine) FindDayAnchor(t time.Time) (DayAnchor, error) {
	date := calendar.CivilDate(t)

	var (
		best    DayAnchor
		found   bool
		skipped error
	)
	for _, year := range []int{date.Year() - 1, date.Year()} {
		terms, err := e.calc.Terms().TermsForYear(year)
		if err != nil {
			// The first covered year has no predecessor.
			if year < date.Year() && calendar.IsKind(err, calendar.KindUnsupportedYear) {
				skipped = err
				continue
			}
			return DayAnchor{}, err
		}

		for _, term := range terms {
			a, ok := anchorFor(term.Index)
			if !ok {
				continue
			}
			day, ok := e.nextJiaZi(term.Date())
			if !ok || day.After(date) {
				continue
			}
			if !found || !day.Before(best.Day) {
				best = DayAnchor{Term: term, Day: day, Star: a.star, Forward: a.forward}
				found = true
			}
		}
	}

	if !found {
		// The anchor would lie in the uncovered year.
		if skipped != nil {
			return DayAnchor{}, skipped
		}
		return DayAnchor{}, calendar.NewError("flyingstar.day_anchor", calendar.KindNoAnchorFound,
			"no 甲子 anchor within %d days of a term before %s", e.anchorWindow, date.Format(calendar.DateLayout))
	}
	return best, nil
}

// DayGrid advances from the latest anchor by the days elapsed since it.
func (e *Engine) DayGrid(t time.Time) (Grid, error) {
	a, err := e.FindDayAnchor(t)
	if err != nil {
		return Grid{}, err
	}
	days := calendar.DaysBetween(a.Day, t)
	return newGrid(ScaleDay, advance(a.Star, days%9, a.Forward), a.Forward), nil
}

// HourGrid takes its direction from the latest solstice at or before t and its
// starting star from the day branch, advancing one star per double hour.
func (e *Engine) HourGrid(t time.Time) (Grid, error) {
	forward, err := e.solsticeDirection(t)
	if err != nil {
		return Grid{}, err
	}

	hour, err := calendar.HourBranch(t.Hour())
	if err != nil {
		return Grid{}, err
	}

	var start int
	switch calendar.DayPillar(t).Branch() {
	case calendar.Zi, calendar.BranchWu, calendar.Mao, calendar.You:
		start = 1
	case calendar.Chen, calendar.Xu, calendar.Chou, calendar.Wei:
		start = 4
	default:
		start = 7
	}
	if !forward {
		start = 10 - start
	}

	return newGrid(ScaleHour, advance(start, int(hour), forward), forward), nil
}

// solsticeDirection is forward after 冬至 and backward after 夏至.
func (e *Engine) solsticeDirection(t time.Time) (bool, error) {
	at := calendar.Civil(t)

	var (
		latest  *calendar.SolarTerm
		skipped error
	)
	for _, year := range []int{at.Year() - 1, at.Year()} {
		terms, err := e.calc.Terms().TermsForYear(year)
		if err != nil {
			if year < at.Year() && calendar.IsKind(err, calendar.KindUnsupportedYear) {
				skipped = err
				continue
			}
			return false, err
		}
		for _, idx := range []int{calendar.XiaZhi, calendar.DongZhi} {
			term := terms[idx]
			if term.Time.After(at) {
				continue
			}
			if latest == nil || term.Time.After(latest.Time) {
				latest = &term
			}
		}
	}

	if latest == nil {
		if skipped != nil {
			return false, skipped
		}
		return false, calendar.NewError("flyingstar.hour_direction", calendar.KindNoAnchorFound,
			"no solstice on or before %s", at.Format(calendar.DateTimeLayout))
	}
	return latest.Index == calendar.DongZhi, nil
}

func anchorFor(termIndex int) (dayAnchor, bool) {
	for _, a := range dayAnchors {
		if a.term == termIndex {
			return a, true
		}
	}
	return dayAnchor{}, false
}

// nextJiaZi returns the first 甲子 day on or after from, within the window.
func (e *Engine) nextJiaZi(from time.Time) (time.Time, bool) {
	wait := calendar.Mod(-int(calendar.DayPillar(from)), calendar.CycleLength)
	if wait >= e.anchorWindow {
		return time.Time{}, false
	}
	return from.AddDate(0, 0, wait), true
}
