// Package ziwei builds Zi Wei Dou Shu (紫微斗数) natal charts.
//
// Palaces sit on a fixed ring of twelve branch positions starting at 寅:
// ring index 0 is 寅, 10 is 子 and 11 is 丑.
package ziwei

import (
	"fmt"

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// PalaceCount is the number of palaces on the ring.
const PalaceCount = 12

// Star tables in canonical order.
var (
	MainStars = [14]string{
		"紫微", "天机", "太阳", "武曲", "天同", "廉贞", "天府",
		"太阴", "贪狼", "巨门", "天相", "天梁", "七杀", "破军",
	}
	SecondaryStars = [9]string{"文昌", "文曲", "左辅", "右弼", "天魁", "天钺", "天马", "火星", "铃星"}
	Spirits        = [5]string{"将星", "天喜", "太极", "红鸾", "天姚"}
	PalaceNames    = [PalaceCount]string{
		"命宫", "兄弟", "夫妻", "子女", "财帛", "疾厄",
		"迁移", "交友", "官禄", "田宅", "福德", "父母",
	}
)

// Bureau is the five-element bureau (五行局) selected by the birth year stem.
type Bureau int

// Bureaus.
const (
	Water Bureau = 2
	Wood  Bureau = 3
	Metal Bureau = 4
	Earth Bureau = 5
	Fire  Bureau = 6
)

var bureauNames = map[Bureau]string{
	Water: "水二局",
	Wood:  "木三局",
	Metal: "金四局",
	Earth: "土五局",
	Fire:  "火六局",
}

func (b Bureau) String() string {
	if name, ok := bureauNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Bureau(%d)", int(b))
}

// Element returns the bureau's element key: water, wood, metal, earth or fire.
func (b Bureau) Element() string {
	switch b {
	case Water:
		return "water"
	case Wood:
		return "wood"
	case Metal:
		return "metal"
	case Earth:
		return "earth"
	case Fire:
		return "fire"
	}
	return ""
}

// bureauOf maps a year stem pair to its bureau and the ring offset from the
// life palace to the 紫微 palace.
func bureauOf(yearStem calendar.Stem) (Bureau, int) {
	switch yearStem / 2 {
	case 0: // 甲乙
		return Wood, 4
	case 1: // 丙丁
		return Fire, 6
	case 2: // 戊己
		return Earth, 8
	case 3: // 庚辛
		return Metal, 10
	default: // 壬癸
		return Water, 2
	}
}

// RingBranch returns the branch at a ring index.
func RingBranch(index int) calendar.Branch {
	return calendar.Branch(calendar.Mod(index+2, calendar.BranchCount))
}

// Palace is one of the twelve chart palaces.
type Palace struct {
	Index          int
	Name           string
	Branch         calendar.Branch
	Stem           calendar.Stem
	MainStars      []string
	SecondaryStars []string
	Spirits        []string
	IsLifePalace   bool
	IsThreePower   bool
	IsFlowYear     bool
}

// Chart is a complete natal chart.
type Chart struct {
	Birth          calendar.LunarDate
	HourBranch     calendar.Branch
	EvalYear       int
	YearPillar     calendar.Pillar
	MonthStem      calendar.Stem
	Bureau         Bureau
	LifePalace     int
	ZiWeiPalace    int
	FlowYearPalace int
	Palaces        [PalaceCount]Palace
}

// Life returns the life palace (命宫).
func (c *Chart) Life() *Palace {
	return &c.Palaces[c.LifePalace]
}

// ThreePower returns the indices of the life palace, its trines and its opposite.
func (c *Chart) ThreePower() []int {
	var out []int
	for i := range c.Palaces {
		if c.Palaces[i].IsThreePower {
			out = append(out, i)
		}
	}
	return out
}

// StarPalace returns the ring index holding a main star, or -1.
func (c *Chart) StarPalace(star string) int {
	for i := range c.Palaces {
		for _, s := range c.Palaces[i].MainStars {
			if s == star {
				return i
			}
		}
	}
	return -1
}
