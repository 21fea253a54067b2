package officer

import (
	"time"

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// MaxRangeDays caps the span accepted by Range.
const MaxRangeDays = 366

// Engine resolves day officers. It holds only immutable configuration.
type Engine struct {
	calc     *calendar.Calculator
	lookback int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLookback sets how many days are replayed before the requested date.
// Values below 1 are ignored.
func WithLookback(days int) Option {
	return func(e *Engine) {
		if days > 0 {
			e.lookback = days
		}
	}
}

// NewEngine creates an engine on top of calc.
func NewEngine(calc *calendar.Calculator, opts ...Option) *Engine {
	e := &Engine{
		calc:     calc,
		lookback: DefaultLookback,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Officer resolves the officer of t's civil date.
func (e *Engine) Officer(t time.Time) (Day, error) {
	days, err := e.Range(t, t)
	if err != nil {
		return Day{}, err
	}
	return days[0], nil
}

// Range resolves every day from from to to inclusive in a single run.
func (e *Engine) Range(from, to time.Time) ([]Day, error) {
	from, to = calendar.CivilDate(from), calendar.CivilDate(to)
	span := calendar.DaysBetween(from, to)
	if span < 0 {
		return nil, calendar.NewError("officer.range", calendar.KindInvalidInput, "end %s before start %s",
			to.Format(calendar.DateLayout), from.Format(calendar.DateLayout))
	}
	if span >= MaxRangeDays {
		return nil, calendar.NewError("officer.range", calendar.KindInvalidInput, "range of %d days exceeds %d", span+1, MaxRangeDays)
	}

	r := run{calc: e.calc, opened: make(map[[2]int]bool)}
	out := make([]Day, 0, span+1)
	for d := from.AddDate(0, 0, -e.lookback); !d.After(to); d = d.AddDate(0, 0, 1) {
		day, ok, err := r.step(d)
		if err != nil {
			return nil, err
		}
		if d.Before(from) {
			continue
		}
		if !ok {
			return nil, calendar.NewError("officer.resolve", calendar.KindNoOfficerAnchor,
				"no reset within %d days before %s", e.lookback, d.Format(calendar.DateLayout))
		}
		out = append(out, day)
	}
	return out, nil
}

// run carries the state of one replay.
type run struct {
	calc    *calendar.Calculator
	prev    Officer
	hasPrev bool
	// opened records solar months whose opening day has passed.
	opened map[[2]int]bool
}

func (r *run) step(d time.Time) (Day, bool, error) {
	lunar, err := r.calc.ToLunisolar(d)
	if err != nil {
		return Day{}, false, err
	}
	sm, err := r.calc.SolarMonthOf(d)
	if err != nil {
		return Day{}, false, err
	}
	termDay, err := r.calc.IsFirstTermDay(d)
	if err != nil {
		return Day{}, false, err
	}

	dayBranch := calendar.DayPillar(d).Branch()
	key := [2]int{sm.Year, sm.Month}

	var (
		officer Officer
		rule    Rule
	)
	switch {
	case termDay && r.hasPrev:
		officer, rule = r.prev, RuleSolarTerm
	case !r.opened[key] && dayBranch == openingBranch(lunar.Month):
		r.opened[key] = true
		officer, rule = Jian, RuleMonthOpening
	case dayBranch == sm.Branch():
		officer, rule = Jian, RuleBranchCoincidence
	case r.hasPrev:
		officer, rule = r.prev.Next(), RuleAdvance
	default:
		return Day{Date: d}, false, nil
	}

	r.prev, r.hasPrev = officer, true
	return Day{Date: d, Officer: officer, Rule: rule}, true, nil
}
