package palette

import (
	"math"

	"github.com/bodgit/epd/lab"
)

// Nearest returns the index of the entry in p closest to c by CIEDE2000 and
// the distance to it. Ties go to the lowest index.
func (p Palette) Nearest(c lab.Linear) (uint8, float64) {
	best, bestDiff := uint8(0), math.Inf(1)
	for i := range p {
		if d := lab.Difference(c, p[i]); d < bestDiff {
			best, bestDiff = uint8(i), d
		}
	}
	return best, bestDiff
}
