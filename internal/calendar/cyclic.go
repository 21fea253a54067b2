// Package calendar provides lunisolar and sexagenary (stem-branch) calendar calculations.
package calendar

import "fmt"

// Cycle lengths of the sexagenary system.
const (
	StemCount   = 10
	BranchCount = 12
	CycleLength = 60
)

// Mod returns x modulo m in the range [0, m), also for negative x.
//
// Day and year offsets are routinely negative relative to the epoch anchors,
// so every cyclic computation in this module goes through Mod rather than %.
func Mod(x, m int) int {
	r := x % m
	if r < 0 {
		r += m
	}
	return r
}

// Stem is one of the ten Heavenly Stems, 0 = 甲.
type Stem int

// Branch is one of the twelve Earthly Branches, 0 = 子.
type Branch int

// Stems.
const (
	Jia Stem = iota
	Yi
	Bing
	Ding
	Wu
	Ji
	Geng
	Xin
	Ren
	Gui
)

// Branches.
const (
	Zi Branch = iota
	Chou
	Yin
	Mao
	Chen
	Si
	BranchWu
	Wei
	Shen
	You
	Xu
	Hai
)

var stemNames = [StemCount]string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}

var branchNames = [BranchCount]string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

func (s Stem) String() string {
	if s < 0 || int(s) >= StemCount {
		return fmt.Sprintf("Stem(%d)", int(s))
	}
	return stemNames[s]
}

// Yang reports whether the stem is yang (odd positions are yin).
func (s Stem) Yang() bool { return s%2 == 0 }

func (b Branch) String() string {
	if b < 0 || int(b) >= BranchCount {
		return fmt.Sprintf("Branch(%d)", int(b))
	}
	return branchNames[b]
}

// Clash returns the branch directly opposite b (冲).
func (b Branch) Clash() Branch {
	return Branch(Mod(int(b)+6, BranchCount))
}

// Add returns the branch n steps after b.
func (b Branch) Add(n int) Branch {
	return Branch(Mod(int(b)+n, BranchCount))
}

// Pillar is a sexagenary ordinal 0..59 (0 = 甲子).
type Pillar int

// PillarOf folds any integer offset onto the sexagenary cycle.
func PillarOf(offset int) Pillar {
	return Pillar(Mod(offset, CycleLength))
}

// NewPillar combines a stem and a branch. Only pairs of equal parity exist
// in the cycle; other combinations fail with an InvalidInput error.
func NewPillar(s Stem, b Branch) (Pillar, error) {
	if s < 0 || int(s) >= StemCount || b < 0 || int(b) >= BranchCount {
		return 0, NewError("calendar.new_pillar", KindInvalidInput, "stem %d / branch %d out of range", int(s), int(b))
	}
	if int(s)%2 != int(b)%2 {
		return 0, NewError("calendar.new_pillar", KindInvalidInput, "%s%s is not a sexagenary pair", s, b)
	}
	// The ordinal n satisfies n≡s (mod 10) and n≡b (mod 12).
	return PillarOf(6*int(s) - 5*int(b)), nil
}

// mustPillar is for stem/branch indices that are parity-matched by construction.
func mustPillar(s, b int) Pillar {
	p, err := NewPillar(Stem(Mod(s, StemCount)), Branch(Mod(b, BranchCount)))
	if err != nil {
		panic(err)
	}
	return p
}

// Stem returns the pillar's Heavenly Stem.
func (p Pillar) Stem() Stem { return Stem(Mod(int(p), StemCount)) }

// Branch returns the pillar's Earthly Branch.
func (p Pillar) Branch() Branch { return Branch(Mod(int(p), BranchCount)) }

// Valid reports whether p is a cycle ordinal.
func (p Pillar) Valid() bool { return p >= 0 && p < CycleLength }

func (p Pillar) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Pillar(%d)", int(p))
	}
	return p.Stem().String() + p.Branch().String()
}

// VoidBranches returns the two branches left out of p's ten-day decade (空亡).
func VoidBranches(p Pillar) [2]Branch {
	// Each decade starts on a 甲 day; the branches following its last day are void.
	decadeStart := int(p) - int(p.Stem())
	first := Branch(Mod(decadeStart+10, BranchCount))
	return [2]Branch{first, first.Add(1)}
}
