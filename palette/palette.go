/*
Package palette defines the fixed seven color palette of the EPD panel.

The order of the entries is significant: the position of a color is the index
stored in a frame, and when two entries are equally close to a pixel the one
with the lower index wins.
*/
package palette

import (
	"image/color"
	"math"

	"github.com/bodgit/epd/lab"
)

// Palette indices as stored in a frame.
const (
	Black uint8 = iota
	White
	Green
	Blue
	Red
	Yellow
	Orange
)

// Size is the number of colors the panel can show.
const Size = 7

// Palette is an ordered set of linear RGB colors.
type Palette [Size]lab.Linear

// EPD holds the colors as they appear on the panel, in linear RGB.
var EPD = Palette{
	Black:  {R: 0, G: 0, B: 0},
	White:  {R: 1, G: 1, B: 1},
	Green:  {R: 0.059, G: 0.329, B: 0.119},
	Blue:   {R: 0.061, G: 0.147, B: 0.336},
	Red:    {R: 0.574, G: 0.066, B: 0.010},
	Yellow: {R: 0.982, G: 0.756, B: 0.004},
	Orange: {R: 0.795, G: 0.255, B: 0.018},
}

var names = [Size]string{"black", "white", "green", "blue", "red", "yellow", "orange"}

// Name returns the name of the color at index i.
func Name(i uint8) string {
	if int(i) >= Size {
		return "unknown"
	}
	return names[i]
}

var preview = EPD.rgba()

func to8(c float64) uint8 {
	return uint8(math.Round(c * 255))
}

func (p Palette) rgba() color.Palette {
	cp := make(color.Palette, len(p))
	for i, c := range p {
		cp[i] = color.RGBA{to8(c.R), to8(c.G), to8(c.B), 0xff}
	}
	return cp
}

// Preview returns the EPD palette as 8-bit colors for drawing preview images.
// Each channel is the linear value scaled to 0-255 without gamma correction,
// matching what the converter has always shown.
func Preview() color.Palette {
	return append(color.Palette(nil), preview...)
}
