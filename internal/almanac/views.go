package almanac

// Text is a fact key with its localized label. Keys are the canonical
// Chinese names used by the engines; labels come from the active locale and
// fall back to the key.
type Text struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// LunarView is a localized lunisolar date.
type LunarView struct {
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	Day         int    `json:"day"`
	IsLeapMonth bool   `json:"is_leap_month"`
	YearPillar  string `json:"year_pillar"`
	Zodiac      Text   `json:"zodiac"`
	MonthName   string `json:"month_name"`
	DayName     string `json:"day_name"`
}

// PillarView describes one sexagenary pillar.
type PillarView struct {
	Pillar string    `json:"pillar"`
	Stem   Text      `json:"stem"`
	Branch Text      `json:"branch"`
	NaYin  string    `json:"nayin"`
	Void   [2]string `json:"void"`
	Clash  string    `json:"clash"`
}

// PillarsView holds the four pillars of an instant.
type PillarsView struct {
	Year  PillarView `json:"year"`
	Month PillarView `json:"month"`
	Day   PillarView `json:"day"`
	Hour  PillarView `json:"hour"`
}

// StarView is the star occupying one palace of a grid.
type StarView struct {
	Palace Text   `json:"palace"`
	Star   int    `json:"star"`
	Name   string `json:"name"`
	Luck   string `json:"luck"`
	Timely bool   `json:"timely"`
}

// GridView is a localized flying-star grid, palaces in compass order.
type GridView struct {
	Scale     Text       `json:"scale"`
	Center    int        `json:"center"`
	Direction Text       `json:"direction"`
	Period    int        `json:"period"`
	Palaces   []StarView `json:"palaces"`
}

// OfficerView is the officer of one day.
type OfficerView struct {
	Date    string `json:"date"`
	Officer Text   `json:"officer"`
	Meaning string `json:"meaning"`
	Rule    Text   `json:"rule"`
}

// OfficerRangeView lists officers over a span of days.
type OfficerRangeView struct {
	Start    string        `json:"start"`
	End      string        `json:"end"`
	Officers []OfficerView `json:"officers"`
}

// RoadView is the day's road spirit and whether it walks the yellow road.
type RoadView struct {
	Spirit Text `json:"spirit"`
	Road   Text `json:"road"`
	Yellow bool `json:"yellow"`
}

// TermView is a localized solar term.
type TermView struct {
	Index int    `json:"index"`
	Name  Text   `json:"name"`
	Time  string `json:"time"`
}

// SolarTermsView lists a year's 24 terms.
type SolarTermsView struct {
	Year  int        `json:"year"`
	Terms []TermView `json:"terms"`
}

// HourLuckView grades one double hour of the day.
type HourLuckView struct {
	Branch Text   `json:"branch"`
	Start  string `json:"start"`
	Luck   Text   `json:"luck"`
}

// GodsView gives the directions of the day's five gods.
type GodsView struct {
	Joy    Text `json:"joy"`
	Noble  Text `json:"noble"`
	Wealth Text `json:"wealth"`
	Crane  Text `json:"crane"`
	Fetus  Text `json:"fetus"`

	NobleBranch string `json:"noble_branch"`
}

// RelationsView lists the branches bound to the day branch.
type RelationsView struct {
	Trine    []string `json:"trine"`
	Harmony  string   `json:"harmony"`
	Clash    string   `json:"clash"`
	Harm     string   `json:"harm"`
	Punishes []string `json:"punishes"`
}

// DayReport gathers every fact of an instant.
type DayReport struct {
	Date        string         `json:"date"`
	Time        string         `json:"time"`
	Lunar       LunarView      `json:"lunar"`
	Pillars     PillarsView    `json:"pillars"`
	SolarTerm   *TermView      `json:"solar_term,omitempty"`
	Officer     OfficerView    `json:"officer"`
	Lodge       Text           `json:"lodge"`
	Road        RoadView       `json:"road"`
	SixYao      Text           `json:"six_yao"`
	YangGong    bool           `json:"yang_gong"`
	Relations   RelationsView  `json:"relations"`
	Gods        GodsView       `json:"gods"`
	Hours       []HourLuckView `json:"hours"`
	FlyingStars []GridView     `json:"flying_stars"`
}

// ChartPalaceView is one palace of a Zi Wei chart.
type ChartPalaceView struct {
	Index          int    `json:"index"`
	Name           Text   `json:"name"`
	Branch         Text   `json:"branch"`
	Stem           Text   `json:"stem"`
	MainStars      []Text `json:"main_stars"`
	SecondaryStars []Text `json:"secondary_stars"`
	Spirits        []Text `json:"spirits"`
	IsLifePalace   bool   `json:"is_life_palace"`
	IsThreePower   bool   `json:"is_three_power"`
	IsFlowYear     bool   `json:"is_flow_year"`
}

// ChartView is a localized Zi Wei natal chart.
type ChartView struct {
	Birth          LunarView         `json:"birth"`
	Hour           Text              `json:"hour"`
	EvalYear       int               `json:"eval_year"`
	Bureau         Text              `json:"bureau"`
	LifePalace     int               `json:"life_palace"`
	LifeBranch     Text              `json:"life_branch"`
	ThreePower     []int             `json:"three_power"`
	ZiWeiPalace    int               `json:"ziwei_palace"`
	FlowYearPalace int               `json:"flow_year_palace"`
	Placements     []PlacementView   `json:"placements"`
	Palaces        []ChartPalaceView `json:"palaces"`
}

// PlacementView locates a main star on the ring.
type PlacementView struct {
	Star   Text `json:"star"`
	Palace int  `json:"palace"`
}

// SolarView is the Gregorian date of a lunar date.
type SolarView struct {
	Date    string    `json:"date"`
	Weekday string    `json:"weekday"`
	Lunar   LunarView `json:"lunar"`
}
