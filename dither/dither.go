/*
Package dither quantizes an image to the EPD palette using Floyd-Steinberg
error diffusion.

The pass is strictly sequential: pixels are visited row by row, left to
right, and the error left by each pixel is pushed onto its unvisited
neighbours before the next pixel is read.
*/
package dither

import (
	"errors"
	"image"
	"image/color"

	"github.com/bodgit/epd/lab"
	"github.com/bodgit/epd/palette"
)

// Panel resolution in pixels.
const (
	Width  = 600
	Height = 448
)

// ErrWrongSize is returned when the source image doesn't match the panel.
var ErrWrongSize = errors.New("dither: image is wrong size")

var gammaTable [256]float32

func init() {
	for i := range gammaTable {
		gammaTable[i] = float32(lab.GammaLinear(float64(i) / 255))
	}
}

// Buffer holds the linear RGB pixels of one frame, three channels per pixel.
// Values are stored as float32 and clamped to [0, 1] on every write.
type Buffer struct {
	Pix []float32
}

// NewBuffer converts m to linear RGB. Alpha is ignored. m must be exactly
// Width by Height pixels; no pixel is read otherwise.
func NewBuffer(m image.Image) (*Buffer, error) {
	b := m.Bounds()
	if b.Dx() != Width || b.Dy() != Height {
		return nil, ErrWrongSize
	}

	buf := &Buffer{Pix: make([]float32, Width*Height*3)}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			buf.Pix[i+0] = gammaTable[c.R]
			buf.Pix[i+1] = gammaTable[c.G]
			buf.Pix[i+2] = gammaTable[c.B]
			i += 3
		}
	}
	return buf, nil
}

func offset(x, y int) int {
	return (x + y*Width) * 3
}

// At returns the color at (x, y).
func (b *Buffer) At(x, y int) lab.Linear {
	i := offset(x, y)
	return lab.Linear{
		R: float64(b.Pix[i+0]),
		G: float64(b.Pix[i+1]),
		B: float64(b.Pix[i+2]),
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// spread adds e to channel c of the pixel at (x, y). Coordinates outside the
// buffer are ignored.
func (b *Buffer) spread(x, y, c int, e float64) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	i := offset(x, y) + c
	b.Pix[i] = float32(clamp(float64(b.Pix[i]) + e))
}

// quantize picks the entry of p nearest to the pixel at (x, y) and pushes the
// remaining error onto the neighbours not yet visited.
func (b *Buffer) quantize(x, y int, p *palette.Palette) uint8 {
	c := b.At(x, y)
	best, _ := p.Nearest(c)

	pc := p[best]
	for ch, e := range [3]float64{c.R - pc.R, c.G - pc.G, c.B - pc.B} {
		b.spread(x+1, y, ch, (e/16)*7)
		b.spread(x-1, y+1, ch, (e/16)*3)
		b.spread(x, y+1, ch, (e/16)*5)
		b.spread(x+1, y+1, ch, (e/16)*1)
	}

	return best
}

// Dither quantizes every pixel of b to p in scan order and calls emit with
// the chosen palette index. b is modified in place.
func Dither(b *Buffer, p palette.Palette, emit func(x, y int, index uint8)) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			emit(x, y, b.quantize(x, y, &p))
		}
	}
}
