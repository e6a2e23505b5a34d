package palette

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"sort"

	"github.com/bodgit/epd/lab"
	"github.com/ericpauley/go-quantize/quantize"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Entry describes one dominant color of a source image and where it lands on
// the panel.
type Entry struct {
	Color    color.RGBA
	Nearest  uint8
	Distance float64
}

// Report summarises how well the EPD palette covers an image.
type Report struct {
	Entries []Entry
}

func linearize(c color.Color) lab.Linear {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return lab.Linear{
		R: lab.GammaLinear(float64(n.R) / 255),
		G: lab.GammaLinear(float64(n.G) / 255),
		B: lab.GammaLinear(float64(n.B) / 255),
	}
}

// Analyze reduces m to Size dominant colors with a median cut and maps each
// to its nearest EPD color. Entries are sorted by distance, worst fit first.
func Analyze(m image.Image) *Report {
	q := quantize.MedianCutQuantizer{}
	dominant := q.Quantize(make(color.Palette, 0, Size), m)

	r := new(Report)
	for _, c := range dominant {
		i, d := EPD.Nearest(linearize(c))
		r.Entries = append(r.Entries, Entry{
			Color:    color.RGBAModel.Convert(c).(color.RGBA),
			Nearest:  i,
			Distance: d,
		})
	}
	sort.SliceStable(r.Entries, func(i, j int) bool {
		return r.Entries[i].Distance > r.Entries[j].Distance
	})
	return r
}

func hex(c color.RGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// Hex returns the sRGB hex code of the EPD color at index i.
func Hex(i uint8) string {
	c := EPD[i]
	return colorful.LinearRgb(c.R, c.G, c.B).Clamped().Hex()
}

// WriteTo writes a human readable form of the report.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range r.Entries {
		n, err := fmt.Fprintf(w, "%s -> %-6s (%s) deltaE %.2f\n", hex(e.Color), Name(e.Nearest), Hex(e.Nearest), e.Distance)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
