/*
Package lab implements the color math used to quantize images for the EPD
panel: sRGB to linear conversion, linear RGB to CIE-Lab (D65, 2° observer) and
the CIEDE2000 color difference.

All calculations are done in float64 and in a fixed order so that results are
reproducible; the difference metric decides every quantized pixel.
*/
package lab

import "math"

// Linear is a color in linear RGB, each channel nominally in [0, 1].
type Linear struct {
	R, G, B float64
}

// Lab is a CIE-Lab color.
type Lab struct {
	L, A, B float64
}

// Reference white for D65, 2° observer
const (
	whiteX = 95.047
	whiteY = 100.0
	whiteZ = 108.883
)

// GammaLinear converts an sRGB component in [0, 1] to linear intensity.
func GammaLinear(srgb float64) float64 {
	if srgb > 0.04045 {
		return math.Pow((srgb+0.055)/1.055, 2.4)
	}
	return srgb / 12.92
}

func percent(c float64) float64 {
	return math.Max(0, math.Min(100, c*100))
}

func pivot(t float64) float64 {
	if t > 0.008856 {
		return math.Pow(t, 1.0/3)
	}
	return 7.787*t + 16.0/116
}

// FromLinear converts a linear RGB color to CIE-Lab.
func FromLinear(c Linear) Lab {
	r, g, b := percent(c.R), percent(c.G), percent(c.B)

	x := r*0.4124 + g*0.3576 + b*0.1805
	y := r*0.2126 + g*0.7152 + b*0.0722
	z := r*0.0193 + g*0.1192 + b*0.9505

	x = pivot(x / whiteX)
	y = pivot(y / whiteY)
	z = pivot(z / whiteZ)

	return Lab{
		L: 116*y - 16,
		A: 500 * (x - y),
		B: 200 * (y - z),
	}
}
