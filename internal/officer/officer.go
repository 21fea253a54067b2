// Package officer resolves the Twelve Day-Officers (建除十二神).
//
// The officer of a day depends on the days before it, so the engine replays a
// short run of days ending at the requested date.
package officer

import (
	"fmt"
	"time"

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// Count is the number of officers.
const Count = 12

// DefaultLookback is the number of days replayed before the requested date.
const DefaultLookback = 30

// Officer is one of the twelve day officers, 0 = 建.
type Officer int

// Officers in cycle order.
const (
	Jian Officer = iota
	Chu
	Man
	Ping
	Ding
	Zhi
	Po
	Wei
	Cheng
	Shou
	Kai
	Bi
)

var names = [Count]string{"建", "除", "满", "平", "定", "执", "破", "危", "成", "收", "开", "闭"}

func (o Officer) String() string {
	if o < 0 || int(o) >= Count {
		return fmt.Sprintf("Officer(%d)", int(o))
	}
	return names[o]
}

// Next returns the officer that follows o.
func (o Officer) Next() Officer {
	return Officer(calendar.Mod(int(o)+1, Count))
}

// Rule names the condition that assigned a day's officer.
type Rule string

// Rules, in the order they are tried.
const (
	RuleSolarTerm         Rule = "solar_term"
	RuleMonthOpening      Rule = "month_opening"
	RuleBranchCoincidence Rule = "branch_coincidence"
	RuleAdvance           Rule = "advance"
)

// Day is a resolved day.
type Day struct {
	Date    time.Time
	Officer Officer
	Rule    Rule
}

// openingBranch is the day branch that opens lunar month m with 建:
// 寅 for the first month through 丑 for the twelfth.
func openingBranch(lunarMonth int) calendar.Branch {
	return calendar.Branch(calendar.Mod(lunarMonth+1, calendar.BranchCount))
}
