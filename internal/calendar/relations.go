package calendar

import "fmt"

// Element is one of the five phases (五行), 0 = 木.
type Element int

// Elements in generating order.
const (
	Wood Element = iota
	Fire
	Earth
	Metal
	Water
)

const elementCount = 5

var elementNames = [elementCount]string{"木", "火", "土", "金", "水"}

func (e Element) String() string {
	if e < 0 || int(e) >= elementCount {
		return fmt.Sprintf("Element(%d)", int(e))
	}
	return elementNames[e]
}

// Generates returns the element e produces (木生火, 火生土 ...).
func (e Element) Generates() Element {
	return Element(Mod(int(e)+1, elementCount))
}

// Element returns the stem's phase; stems pair up per element.
func (s Stem) Element() Element {
	return Element(Mod(int(s), StemCount) / 2)
}

var branchElements = [BranchCount]Element{
	Water, Earth, Wood, Wood, Earth, Fire, Fire, Earth, Metal, Metal, Earth, Water,
}

// Element returns the branch's phase.
func (b Branch) Element() Element {
	return branchElements[Mod(int(b), BranchCount)]
}

// Trine returns the three-harmony group (三合) containing b, starting from
// the group's birth branch: 申子辰, 巳酉丑, 寅午戌, 亥卯未.
func (b Branch) Trine() [3]Branch {
	birth := Branch(Mod(8-3*Mod(int(b), 4), BranchCount))
	return [3]Branch{birth, birth.Add(4), birth.Add(8)}
}

// Harmony returns b's six-harmony partner (六合): 子丑, 寅亥, 卯戌, 辰酉, 巳申, 午未.
func (b Branch) Harmony() Branch {
	return Branch(Mod(1-int(b), BranchCount))
}

// Harm returns the branch b harms (害): 子未, 丑午, 寅巳, 卯辰, 申亥, 酉戌.
func (b Branch) Harm() Branch {
	return Branch(Mod(7-int(b), BranchCount))
}

var punishments = [BranchCount][]Branch{
	Zi:       {Mao},
	Chou:     {Wei, Xu},
	Yin:      {Si},
	Mao:      {Zi},
	Chen:     {Chen},
	Si:       {Shen},
	BranchWu: {BranchWu},
	Wei:      {Chou, Xu},
	Shen:     {Yin},
	You:      {You},
	Xu:       {Chou, Wei},
	Hai:      {Hai},
}

// Punishes returns the branches b punishes (刑). 辰午酉亥 punish themselves.
func (b Branch) Punishes() []Branch {
	p := punishments[Mod(int(b), BranchCount)]
	out := make([]Branch, len(p))
	copy(out, p)
	return out
}

var prosperity = [StemCount]Branch{Yin, Mao, Si, BranchWu, Si, BranchWu, Shen, You, Hai, Zi}

// Prosperity returns the branch holding the stem's salary (禄).
func (s Stem) Prosperity() Branch {
	return prosperity[Mod(int(s), StemCount)]
}
