// Package almanac composes the calendar engines and renders their results as
// localized views. It is the only package that turns facts into display text.
package almanac

import (
	"fmt"
	"strconv"
	"time"

	"github.com/zapponejosh/almanac-api/internal/calendar"
	"github.com/zapponejosh/almanac-api/internal/flyingstar"
	"github.com/zapponejosh/almanac-api/internal/locale"
	"github.com/zapponejosh/almanac-api/internal/officer"
	"github.com/zapponejosh/almanac-api/internal/ziwei"
)

// MaxOfficerDays bounds an officer range request.
const MaxOfficerDays = 90

// Service answers almanac queries. It is safe for concurrent use.
type Service struct {
	calc     *calendar.Calculator
	stars    *flyingstar.Engine
	officers *officer.Engine
	charts   *ziwei.Builder
	text     locale.Lookup
}

type settings struct {
	lookback     int
	anchorWindow int
}

// Option configures a Service.
type Option func(*settings)

// WithOfficerLookback sets how many days the officer engine replays.
func WithOfficerLookback(days int) Option {
	return func(s *settings) {
		s.lookback = days
	}
}

// WithAnchorWindow sets how far the day-star engine searches for 甲子.
func WithAnchorWindow(days int) Option {
	return func(s *settings) {
		s.anchorWindow = days
	}
}

// New builds a service over a solar-term source and a text lookup.
func New(src calendar.SolarTermSource, text locale.Lookup, opts ...Option) *Service {
	cfg := settings{
		lookback:     officer.DefaultLookback,
		anchorWindow: flyingstar.DefaultAnchorWindow,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	calc := calendar.NewCalculator(src)
	return &Service{
		calc:     calc,
		stars:    flyingstar.NewEngine(calc, flyingstar.WithAnchorWindow(cfg.anchorWindow)),
		officers: officer.NewEngine(calc, officer.WithLookback(cfg.lookback)),
		charts:   ziwei.NewBuilder(calc),
		text:     text,
	}
}

// Calculator exposes the underlying calculator.
func (s *Service) Calculator() *calendar.Calculator {
	return s.calc
}

// Lunar returns the lunisolar date of in.
func (s *Service) Lunar(in calendar.Instant) (*LunarView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	lunar, err := s.calc.ToLunisolar(in.Date())
	if err != nil {
		return nil, err
	}
	v := s.lunarView(lunar)
	return &v, nil
}

// Pillars returns the four pillars of in.
func (s *Service) Pillars(in calendar.Instant) (*PillarsView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	fp, err := s.calc.FourPillars(in.Time())
	if err != nil {
		return nil, err
	}
	v := s.pillarsView(fp)
	return &v, nil
}

// FlyingStars returns the grid of one scale at in.
func (s *Service) FlyingStars(scale flyingstar.Scale, in calendar.Instant) (*GridView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	g, err := s.stars.Grid(scale, in.Time())
	if err != nil {
		return nil, err
	}
	v := s.gridView(g, flyingstar.PeriodOf(in.Year))
	return &v, nil
}

// Officer returns the day officer of in's date.
func (s *Service) Officer(in calendar.Instant) (*OfficerView, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	day, err := s.officers.Officer(in.Date())
	if err != nil {
		return nil, err
	}
	v := s.officerView(day)
	return &v, nil
}

// Officers returns the officers of every day from start to end inclusive.
func (s *Service) Officers(start, end calendar.Instant) (*OfficerRangeView, error) {
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if err := end.Validate(); err != nil {
		return nil, err
	}
	if n := calendar.DaysBetween(start.Date(), end.Date()); n >= MaxOfficerDays {
		return nil, calendar.NewError("almanac.officers", calendar.KindInvalidInput,
			"range of %d days exceeds %d", n+1, MaxOfficerDays)
	}

	days, err := s.officers.Range(start.Date(), end.Date())
	if err != nil {
		return nil, err
	}
	out := &OfficerRangeView{
		Start:    start.Date().Format(calendar.DateLayout),
		End:      end.Date().Format(calendar.DateLayout),
		Officers: make([]OfficerView, len(days)),
	}
	for i, d := range days {
		out.Officers[i] = s.officerView(d)
	}
	return out, nil
}

// ZiWei charts a birth on a Gregorian date and clock hour, read for evalYear.
func (s *Service) ZiWei(birth calendar.Instant, hour, evalYear int) (*ChartView, error) {
	if err := birth.Validate(); err != nil {
		return nil, err
	}
	chart, err := s.charts.Build(birth.Date(), hour, evalYear)
	if err != nil {
		return nil, err
	}
	return s.chartView(chart), nil
}

// Solar returns the Gregorian date of a lunar date.
func (s *Service) Solar(d calendar.LunarDate) (*SolarView, error) {
	date, err := calendar.LunarToSolar(d)
	if err != nil {
		if calendar.IsKind(err, calendar.KindInvalidLunarIndex) {
			return nil, calendar.NewError("almanac.solar", calendar.KindInvalidInput, "%v", err)
		}
		return nil, err
	}
	return &SolarView{
		Date:    date.Format(calendar.DateLayout),
		Weekday: date.Weekday().String(),
		Lunar:   s.lunarView(d),
	}, nil
}

// SolarTerms returns the 24 terms of year.
func (s *Service) SolarTerms(year int) (*SolarTermsView, error) {
	terms, err := s.calc.Terms().TermsForYear(year)
	if err != nil {
		return nil, err
	}
	out := &SolarTermsView{Year: year, Terms: make([]TermView, len(terms))}
	for i, t := range terms {
		out.Terms[i] = s.termView(t)
	}
	return out, nil
}

// Day returns the full report of in.
func (s *Service) Day(in calendar.Instant) (*DayReport, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	t, date := in.Time(), in.Date()

	lunar, err := s.calc.ToLunisolar(date)
	if err != nil {
		return nil, err
	}
	fp, err := s.calc.FourPillars(t)
	if err != nil {
		return nil, err
	}
	day, err := s.officers.Officer(date)
	if err != nil {
		return nil, err
	}
	grids, err := s.stars.Grids(t)
	if err != nil {
		return nil, err
	}
	term, ok, err := s.calc.TermOn(date)
	if err != nil {
		return nil, err
	}

	spirit := calendar.RoadSpiritOf(fp.Month.Branch(), fp.Day.Branch())
	report := &DayReport{
		Date:    date.Format(calendar.DateLayout),
		Time:    t.Format("15:04"),
		Lunar:   s.lunarView(lunar),
		Pillars: s.pillarsView(fp),
		Officer: s.officerView(day),
		Lodge:   s.label("lodges", calendar.LodgeOf(date).String()),
		Road:    s.roadView(spirit),

		SixYao:    s.label("six_yao", calendar.SixYaoOf(lunar).String()),
		YangGong:  calendar.IsYangGongDay(lunar),
		Relations: relationsView(fp.Day.Branch()),
		Gods:      s.godsView(calendar.GodsOf(fp.Day, fp.Month.Branch())),
		Hours:     s.hoursView(fp.Day),
	}
	if ok {
		tv := s.termView(term)
		report.SolarTerm = &tv
	}
	period := flyingstar.PeriodOf(in.Year)
	for _, scale := range flyingstar.Scales {
		report.FlyingStars = append(report.FlyingStars, s.gridView(grids[scale], period))
	}
	return report, nil
}

// label pairs key with its localized text, falling back to the key.
func (s *Service) label(category, key string) Text {
	v := s.text.Get(category, key)
	if v == "" {
		v = key
	}
	return Text{Key: key, Label: v}
}

func (s *Service) labels(category string, keys []string) []Text {
	out := make([]Text, len(keys))
	for i, k := range keys {
		out[i] = s.label(category, k)
	}
	return out
}

func (s *Service) lunarView(d calendar.LunarDate) LunarView {
	yp := calendar.YearPillar(d.Year)
	month := s.label("lunar_months", strconv.Itoa(d.Month)).Label
	if d.IsLeapMonth {
		month = s.text.Get("lunar_months", "leap") + month
	}
	return LunarView{
		Year:        d.Year,
		Month:       d.Month,
		Day:         d.Day,
		IsLeapMonth: d.IsLeapMonth,
		YearPillar:  yp.String(),
		Zodiac:      s.label("zodiac", yp.Branch().String()),
		MonthName:   month,
		DayName:     s.label("lunar_days", strconv.Itoa(d.Day)).Label,
	}
}

func (s *Service) pillarView(p calendar.Pillar) PillarView {
	void := calendar.VoidBranches(p)
	return PillarView{
		Pillar: p.String(),
		Stem:   s.label("stems", p.Stem().String()),
		Branch: s.label("branches", p.Branch().String()),
		NaYin:  calendar.NaYin(p),
		Void:   [2]string{void[0].String(), void[1].String()},
		Clash:  p.Branch().Clash().String(),
	}
}

func (s *Service) pillarsView(fp calendar.FourPillars) PillarsView {
	return PillarsView{
		Year:  s.pillarView(fp.Year),
		Month: s.pillarView(fp.Month),
		Day:   s.pillarView(fp.Day),
		Hour:  s.pillarView(fp.Hour),
	}
}

func (s *Service) gridView(g flyingstar.Grid, period int) GridView {
	dir := "backward"
	if g.Forward {
		dir = "forward"
	}
	v := GridView{
		Scale:     s.label("scales", string(g.Scale)),
		Center:    g.Center,
		Direction: s.label("directions", dir),
		Period:    period,
	}
	for _, p := range flyingstar.Palaces() {
		star := g.Star(p)
		key := strconv.Itoa(star)
		v.Palaces = append(v.Palaces, StarView{
			Palace: s.label("palaces", p.String()),
			Star:   star,
			Name:   s.label("nine_stars", key).Label,
			Luck:   s.text.Get("star_luck", string(flyingstar.LuckOf(star, period))),
			Timely: flyingstar.Timely(star, period),
		})
	}
	return v
}

func (s *Service) officerView(d officer.Day) OfficerView {
	name := d.Officer.String()
	return OfficerView{
		Date:    d.Date.Format(calendar.DateLayout),
		Officer: s.label("officers", name),
		Meaning: s.text.Get("officer_meaning", name),
		Rule:    s.label("officer_rules", string(d.Rule)),
	}
}

func (s *Service) roadView(r calendar.RoadSpirit) RoadView {
	road := "black"
	if r.Yellow() {
		road = "yellow"
	}
	return RoadView{
		Spirit: s.label("road_spirits", r.String()),
		Road:   s.label("roads", road),
		Yellow: r.Yellow(),
	}
}

func relationsView(b calendar.Branch) RelationsView {
	trine := b.Trine()
	v := RelationsView{
		Trine:   []string{trine[0].String(), trine[1].String(), trine[2].String()},
		Harmony: b.Harmony().String(),
		Clash:   b.Clash().String(),
		Harm:    b.Harm().String(),
	}
	for _, p := range b.Punishes() {
		v.Punishes = append(v.Punishes, p.String())
	}
	return v
}

func (s *Service) godsView(g calendar.Gods) GodsView {
	return GodsView{
		Joy:         s.label("palaces", string(g.Joy)),
		Noble:       s.label("palaces", string(g.Noble.Direction())),
		Wealth:      s.label("palaces", string(g.Wealth)),
		Crane:       s.label("palaces", string(g.Crane)),
		Fetus:       s.label("fetus", string(g.Fetus)),
		NobleBranch: g.Noble.String(),
	}
}

// hoursView grades the double hours starting from 子 at 23:00.
func (s *Service) hoursView(day calendar.Pillar) []HourLuckView {
	lucks := calendar.HourLucks(day)
	out := make([]HourLuckView, len(lucks))
	for i, l := range lucks {
		out[i] = HourLuckView{
			Branch: s.label("branches", calendar.Branch(i).String()),
			Start:  fmt.Sprintf("%02d:00", calendar.Mod(2*i-1, 24)),
			Luck:   s.label("hour_luck", string(l)),
		}
	}
	return out
}

func (s *Service) termView(t calendar.SolarTerm) TermView {
	return TermView{
		Index: t.Index,
		Name:  s.label("solar_terms", t.Name),
		Time:  t.Time.Format(time.DateTime),
	}
}

func (s *Service) chartView(c *ziwei.Chart) *ChartView {
	v := &ChartView{
		Birth:          s.lunarView(c.Birth),
		Hour:           s.label("branches", c.HourBranch.String()),
		EvalYear:       c.EvalYear,
		Bureau:         s.label("bureaus", c.Bureau.Element()),
		LifePalace:     c.LifePalace,
		LifeBranch:     s.label("branches", c.Life().Branch.String()),
		ThreePower:     c.ThreePower(),
		ZiWeiPalace:    c.ZiWeiPalace,
		FlowYearPalace: c.FlowYearPalace,
		Placements:     make([]PlacementView, len(ziwei.MainStars)),
		Palaces:        make([]ChartPalaceView, len(c.Palaces)),
	}
	for i, star := range ziwei.MainStars {
		v.Placements[i] = PlacementView{Star: s.label("zw_stars", star), Palace: c.StarPalace(star)}
	}
	for i, p := range c.Palaces {
		v.Palaces[i] = ChartPalaceView{
			Index:          p.Index,
			Name:           s.label("zw_palaces", p.Name),
			Branch:         s.label("branches", p.Branch.String()),
			Stem:           s.label("stems", p.Stem.String()),
			MainStars:      s.labels("zw_stars", p.MainStars),
			SecondaryStars: s.labels("zw_stars", p.SecondaryStars),
			Spirits:        s.labels("zw_stars", p.Spirits),
			IsLifePalace:   p.IsLifePalace,
			IsThreePower:   p.IsThreePower,
			IsFlowYear:     p.IsFlowYear,
		}
	}
	return v
}
