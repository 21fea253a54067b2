package calendar

import (
	"fmt"
	"time"
)

// LodgeCount is the number of lunar mansions.
const LodgeCount = 28

// Lodge is one of the 28 lunar mansions (二十八宿), 0 = 角.
type Lodge int

var lodgeNames = [LodgeCount]string{
	"角", "亢", "氐", "房", "心", "尾", "箕",
	"斗", "牛", "女", "虚", "危", "室", "壁",
	"奎", "娄", "胃", "昴", "毕", "觜", "参",
	"井", "鬼", "柳", "星", "张", "翼", "轸",
}

// lodgeEpoch is a 角 day.
var lodgeEpoch = time.Date(2023, time.January, 12, 0, 0, 0, 0, time.UTC)

func (l Lodge) String() string {
	if l < 0 || int(l) >= LodgeCount {
		return fmt.Sprintf("Lodge(%d)", int(l))
	}
	return lodgeNames[l]
}

// LodgeOf returns the mansion presiding over t's civil date.
func LodgeOf(t time.Time) Lodge {
	return Lodge(Mod(DaysBetween(lodgeEpoch, t), LodgeCount))
}

// RoadSpirit is one of the twelve day spirits of the yellow and black roads
// (黄道/黑道), 0 = 青龙.
type RoadSpirit int

// Road spirits in their daily order.
const (
	QingLong RoadSpirit = iota
	MingTang
	TianXing
	ZhuQue
	JinKui
	TianDe
	BaiHu
	SiMing
	TianLao
	XuanWu
	YuTang
	GouChen
)

var roadSpiritNames = [BranchCount]string{
	"青龙", "明堂", "天刑", "朱雀", "金匮", "天德",
	"白虎", "司命", "天牢", "玄武", "玉堂", "勾陈",
}

func (r RoadSpirit) String() string {
	if r < 0 || int(r) >= BranchCount {
		return fmt.Sprintf("RoadSpirit(%d)", int(r))
	}
	return roadSpiritNames[r]
}

// Yellow reports whether the spirit belongs to the auspicious yellow road.
func (r RoadSpirit) Yellow() bool {
	switch r {
	case QingLong, MingTang, JinKui, TianDe, YuTang, SiMing:
		return true
	}
	return false
}

// RoadSpiritOf returns the day spirit for a day branch within a month branch.
// 青龙 falls on 申 in 子 and 午 months and moves two branches per month.
func RoadSpiritOf(month, day Branch) RoadSpirit {
	start := Mod(int(month)%6*2+8, BranchCount)
	return RoadSpirit(Mod(int(day)-start, BranchCount))
}

var naYinNames = [CycleLength / 2]string{
	"海中金", "炉中火", "大林木", "路旁土", "剑锋金", "山头火",
	"涧下水", "城头土", "白蜡金", "杨柳木", "泉中水", "屋上土",
	"霹雳火", "松柏木", "长流水", "沙中金", "山下火", "平地木",
	"壁上土", "金箔金", "覆灯火", "天河水", "大驿土", "钗钏金",
	"桑柘木", "大溪水", "沙中土", "天上火", "石榴木", "大海水",
}

// NaYin returns the melodic element (纳音) shared by each consecutive pair of pillars.
func NaYin(p Pillar) string {
	if !p.Valid() {
		return ""
	}
	return naYinNames[p/2]
}

// SixYao is one of the six day omens (六曜), 0 = 大安.
type SixYao int

// SixYaoCount is the length of the six-omen cycle.
const SixYaoCount = 6

var sixYaoNames = [SixYaoCount]string{"大安", "赤口", "先胜", "友引", "先负", "佛灭"}

func (y SixYao) String() string {
	if y < 0 || int(y) >= SixYaoCount {
		return fmt.Sprintf("SixYao(%d)", int(y))
	}
	return sixYaoNames[y]
}

// SixYaoOf returns the omen of a lunar date: (month + day) mod 6.
// A leap month counts as the month it repeats.
func SixYaoOf(d LunarDate) SixYao {
	return SixYao(Mod(d.Month+d.Day, SixYaoCount))
}

// yangGongDays are the lunar days avoided for all undertakings (杨公十三忌),
// as month*100 + day.
var yangGongDays = map[int]bool{
	113: true, 211: true, 309: true, 407: true, 505: true, 603: true, 701: true,
	729: true, 827: true, 925: true, 1023: true, 1121: true, 1219: true,
}

// IsYangGongDay reports whether d is one of the thirteen Yang Gong taboo days.
// Leap months carry none.
func IsYangGongDay(d LunarDate) bool {
	return !d.IsLeapMonth && yangGongDays[d.Month*100+d.Day]
}

// Direction is a compass direction; the keys match the flying-star palaces.
type Direction string

// Directions.
const (
	DirNorth     Direction = "N"
	DirNorthEast Direction = "NE"
	DirEast      Direction = "E"
	DirSouthEast Direction = "SE"
	DirCenter    Direction = "C"
	DirSouthWest Direction = "SW"
	DirWest      Direction = "W"
	DirNorthWest Direction = "NW"
	DirSouth     Direction = "S"
)

var branchDirections = [BranchCount]Direction{
	DirNorth, DirNorthEast, DirNorthEast, DirEast, DirSouthEast, DirSouthEast,
	DirSouth, DirSouthWest, DirSouthWest, DirWest, DirNorthWest, DirNorthWest,
}

// Direction returns the compass sector b points to.
func (b Branch) Direction() Direction {
	return branchDirections[Mod(int(b), BranchCount)]
}

// FetusSpot is where the fetus spirit (胎神) dwells during a month.
type FetusSpot string

// Fetus spirit dwellings.
const (
	FetusHall    FetusSpot = "hall"
	FetusDoor    FetusSpot = "door"
	FetusKitchen FetusSpot = "kitchen"
	FetusBed     FetusSpot = "bed"
	FetusGranary FetusSpot = "granary"
	FetusPrivy   FetusSpot = "privy"
)

// Branches six apart share a dwelling.
var fetusSpots = [BranchCount / 2]FetusSpot{
	FetusGranary, FetusPrivy, FetusHall, FetusDoor, FetusKitchen, FetusBed,
}

// Gods holds the day's directions of the five gods.
type Gods struct {
	Joy    Direction // 喜神
	Noble  Branch    // 贵神
	Wealth Direction // 财神
	Crane  Direction // 鹤神
	Fetus  FetusSpot // 胎神
}

var joyDirections = [StemCount / 2]Direction{DirNorthEast, DirSouthWest, DirWest, DirNorthWest, DirSouthEast}

var nobleBranches = [StemCount]Branch{Chou, Shen, Hai, You, Chou, Shen, Chou, Shen, Si, Mao}

var wealthDirections = [elementCount]Direction{DirEast, DirSouth, DirCenter, DirWest, DirNorth}

var craneDirections = [BranchCount / 2]Direction{DirSouth, DirEast, DirNorthEast, DirNorth, DirWest, DirSouthWest}

// GodsOf returns the god directions of a day pillar within a month branch.
func GodsOf(day Pillar, month Branch) Gods {
	stem, branch := day.Stem(), day.Branch()
	return Gods{
		Joy:    joyDirections[int(stem)%5],
		Noble:  nobleBranches[stem],
		Wealth: wealthDirections[stem.Element()],
		Crane:  craneDirections[int(branch)%6],
		Fetus:  fetusSpots[Mod(int(month), BranchCount/2)],
	}
}

// HourLuck grades a double hour against its day.
type HourLuck string

// Hour grades.
const (
	HourNeutral    HourLuck = "neutral"    // 平
	HourGood       HourLuck = "good"       // 吉, three-harmony with the day
	HourBad        HourLuck = "bad"        // 凶, clash, harm or punishment
	HourProsperity HourLuck = "prosperity" // 禄, the day stem's salary branch
	HourAdvance    HourLuck = "advance"    // 进, the day generates the hour
	HourSupport    HourLuck = "support"    // 生, the hour generates the day
)

// HourLucks grades the twelve double hours of a day, indexed by branch.
// Later rules override earlier ones: three-harmony, then clash, harm and
// punishment, then salary, then the element relations of the branches.
func HourLucks(day Pillar) [BranchCount]HourLuck {
	var out [BranchCount]HourLuck

	db := day.Branch()
	trine := db.Trine()
	punished := db.Punishes()
	for i := range out {
		hb := Branch(i)
		luck := HourNeutral
		if hb == trine[0] || hb == trine[1] || hb == trine[2] {
			luck = HourGood
		}
		if hb == db.Clash() || hb == db.Harm() {
			luck = HourBad
		}
		for _, p := range punished {
			if hb == p {
				luck = HourBad
			}
		}
		if hb == day.Stem().Prosperity() {
			luck = HourProsperity
		}
		if db.Element().Generates() == hb.Element() {
			luck = HourAdvance
		}
		if hb.Element().Generates() == db.Element() {
			luck = HourSupport
		}
		out[i] = luck
	}
	return out
}
