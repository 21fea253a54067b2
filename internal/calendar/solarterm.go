package calendar

import "time"

// TermsPerYear is the number of solar terms in a tropical year.
const TermsPerYear = 24

// Solar term indices within a Gregorian year. Index 0 is 小寒 in early January;
// every even index is the first term of Gregorian month index/2+1.
const (
	XiaoHan = iota
	DaHan
	LiChun
	YuShui
	JingZhe
	ChunFen
	QingMing
	GuYu
	LiXia
	XiaoMan
	MangZhong
	XiaZhi
	XiaoShu
	DaShu
	LiQiu
	ChuShu
	BaiLu
	QiuFen
	HanLu
	ShuangJiang
	LiDong
	XiaoXue
	DaXue
	DongZhi
)

// TermNames lists the canonical term names by index.
var TermNames = [TermsPerYear]string{
	"小寒", "大寒", "立春", "雨水", "惊蛰", "春分",
	"清明", "谷雨", "立夏", "小满", "芒种", "夏至",
	"小暑", "大暑", "立秋", "处暑", "白露", "秋分",
	"寒露", "霜降", "立冬", "小雪", "大雪", "冬至",
}

// TermIndex returns the index of a canonical term name, or -1.
func TermIndex(name string) int {
	for i, n := range TermNames {
		if n == name {
			return i
		}
	}
	return -1
}

// SolarTerm is one of the 24 solar terms of a year. Time is a China Standard
// Time wall clock stored without a zone.
type SolarTerm struct {
	Index int       `json:"index"`
	Name  string    `json:"name"`
	Time  time.Time `json:"time"`
}

// Date returns midnight of the day the term falls on.
func (s SolarTerm) Date() time.Time {
	return CivilDate(s.Time)
}

// SolarTermSource provides solar-term instants for the covered year range.
// Years outside the range fail with an UnsupportedYear error.
type SolarTermSource interface {
	// TermsForMonth returns the two terms falling in a Gregorian month, in order.
	TermsForMonth(year, month int) ([2]SolarTerm, error)
	// TermsForYear returns all 24 terms of a Gregorian year, in order.
	TermsForYear(year int) ([]SolarTerm, error)
}

// FirstTermOf returns the first solar term of a Gregorian month.
func FirstTermOf(src SolarTermSource, year, month int) (SolarTerm, error) {
	terms, err := src.TermsForMonth(year, month)
	if err != nil {
		return SolarTerm{}, err
	}
	return terms[0], nil
}
