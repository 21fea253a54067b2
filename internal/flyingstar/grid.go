// Package flyingstar computes Nine-Star (九星) flying-star grids for the year,
// month, day and hour scales.
package flyingstar

import (
	"fmt"

	"github.com/zapponejosh/almanac-api/internal/calendar"
)

// Palace is a cell of the 3x3 grid, named by compass direction.
type Palace int

// Palaces.
const (
	North Palace = iota
	NorthEast
	East
	SouthEast
	Center
	SouthWest
	West
	NorthWest
	South
)

// PalaceCount is the number of grid cells.
const PalaceCount = 9

var palaceNames = [PalaceCount]string{"N", "NE", "E", "SE", "C", "SW", "W", "NW", "S"}

func (p Palace) String() string {
	if p < 0 || int(p) >= PalaceCount {
		return fmt.Sprintf("Palace(%d)", int(p))
	}
	return palaceNames[p]
}

// Palaces lists every palace in index order.
func Palaces() []Palace {
	out := make([]Palace, PalaceCount)
	for i := range out {
		out[i] = Palace(i)
	}
	return out
}

// Flight paths of the Luo Shu square. The backward path mirrors the forward
// one through the center.
var (
	forwardPath  = [PalaceCount]Palace{Center, NorthWest, West, NorthEast, South, North, SouthWest, East, SouthEast}
	backwardPath = [PalaceCount]Palace{Center, SouthEast, East, SouthWest, North, South, NorthEast, West, NorthWest}
)

// Scale is the time scale a grid belongs to.
type Scale string

// Scales.
const (
	ScaleYear  Scale = "year"
	ScaleMonth Scale = "month"
	ScaleDay   Scale = "day"
	ScaleHour  Scale = "hour"
)

// Scales lists every scale from the slowest to the fastest.
var Scales = []Scale{ScaleYear, ScaleMonth, ScaleDay, ScaleHour}

// ParseScale validates a scale name.
func ParseScale(s string) (Scale, error) {
	for _, sc := range Scales {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", calendar.NewError("flyingstar.parse_scale", calendar.KindInvalidInput, "unknown scale %q", s)
}

// Grid is a flying-star square. Stars holds the star 1..9 of each palace.
type Grid struct {
	Scale   Scale
	Center  int
	Forward bool
	Stars   [PalaceCount]int
}

// Star returns the star occupying p.
func (g Grid) Star(p Palace) int {
	return g.Stars[p]
}

// Fill flies stars 1..9 out from center along the forward or backward path.
func Fill(center int, forward bool) [PalaceCount]int {
	var stars [PalaceCount]int
	path := forwardPath
	step := 1
	if !forward {
		path = backwardPath
		step = -1
	}
	for i, p := range path {
		stars[p] = calendar.Mod(center-1+step*i, 9) + 1
	}
	return stars
}

// advance moves a star n steps along the direction of flight.
func advance(star, n int, forward bool) int {
	if !forward {
		n = -n
	}
	return calendar.Mod(star-1+n, 9) + 1
}

func newGrid(scale Scale, center int, forward bool) Grid {
	return Grid{
		Scale:   scale,
		Center:  center,
		Forward: forward,
		Stars:   Fill(center, forward),
	}
}

// PeriodOf returns the twenty-year period (运) 1..9 containing year.
// Period 1 began in 1864.
func PeriodOf(year int) int {
	return calendar.Mod(floorDiv(year-1864, 20), 9) + 1
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Timely reports whether star is in season (得令) during period: the
// period's own star and its two neighbours on the ring.
func Timely(star, period int) bool {
	for d := -1; d <= 1; d++ {
		if calendar.Mod(period-1+d, 9)+1 == star {
			return true
		}
	}
	return false
}

// Luck grades a star's influence.
type Luck string

// Grades, from best to worst.
const (
	LuckGreat  Luck = "great"
	LuckGood   Luck = "good"
	LuckBad    Luck = "bad"
	LuckSevere Luck = "severe"
)

var natures = [PalaceCount]Luck{
	LuckGood, LuckBad, LuckBad, LuckGood, LuckSevere, LuckGood, LuckBad, LuckGreat, LuckGood,
}

// LuckOf returns the luck of star during period. A timely star is at least
// good; otherwise it keeps its own nature.
func LuckOf(star, period int) Luck {
	nature := natures[calendar.Mod(star-1, 9)]
	if Timely(star, period) && nature != LuckGreat {
		return LuckGood
	}
	return nature
}
