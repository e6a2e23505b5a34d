package lab

import (
	"math"
	"math/rand"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
)

func TestGammaLinearEndpoints(t *testing.T) {
	assert.Equal(t, 0.0, GammaLinear(0))
	assert.Equal(t, 1.0, GammaLinear(1))
}

func TestGammaLinearMonotonic(t *testing.T) {
	prev := GammaLinear(0)
	for i := 1; i <= 4096; i++ {
		v := GammaLinear(float64(i) / 4096)
		assert.GreaterOrEqualf(t, v, prev, "at %d/4096", i)
		prev = v
	}
}

func TestGammaLinearContinuous(t *testing.T) {
	const threshold = 0.04045
	below := threshold / 12.92
	above := math.Pow((threshold+0.055)/1.055, 2.4)
	assert.InDelta(t, below, above, 1e-6)
	assert.InDelta(t, GammaLinear(threshold), GammaLinear(math.Nextafter(threshold, 1)), 1e-6)
}

func TestGammaLinearMatchesColorful(t *testing.T) {
	for i := 0; i < 256; i++ {
		v := float64(i) / 255
		r, _, _ := colorful.Color{R: v, G: v, B: v}.LinearRgb()
		assert.InDeltaf(t, r, GammaLinear(v), 1e-12, "sRGB %d", i)
	}
}

func TestFromLinear(t *testing.T) {
	white := FromLinear(Linear{1, 1, 1})
	assert.InDelta(t, 100, white.L, 0.01)
	assert.InDelta(t, 0, white.A, 0.05)
	assert.InDelta(t, 0, white.B, 0.05)

	black := FromLinear(Linear{})
	assert.InDelta(t, 0, black.L, 1e-9)
	assert.InDelta(t, 0, black.A, 1e-9)
	assert.InDelta(t, 0, black.B, 1e-9)

	// Channels are clamped before conversion
	assert.Equal(t, white, FromLinear(Linear{1.5, 2, 1.01}))
	assert.Equal(t, black, FromLinear(Linear{-0.2, -1, 0}))
}

func TestDifferenceLab(t *testing.T) {
	// Sharma, Wu & Dalal test data, pairs 1 to 3
	tests := []struct {
		l1, l2 Lab
		want   float64
	}{
		{Lab{50, 2.6772, -79.7751}, Lab{50, 0, -82.7485}, 2.0425},
		{Lab{50, 3.1571, -77.2803}, Lab{50, 0, -82.7485}, 2.8615},
		{Lab{50, 2.8361, -74.0200}, Lab{50, 0, -82.7485}, 3.4412},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, DifferenceLab(tt.l1, tt.l2), 1e-4)
	}
}

func TestDifferenceIdentity(t *testing.T) {
	for _, c := range []Linear{
		{0, 0, 0},
		{1, 1, 1},
		{0.059, 0.329, 0.119},
		{0.061, 0.147, 0.336},
		{0.574, 0.066, 0.010},
		{0.982, 0.756, 0.004},
		{0.795, 0.255, 0.018},
	} {
		assert.Equal(t, 0.0, Difference(c, c))
	}
}

func TestDifferenceSymmetric(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a := Linear{r.Float64(), r.Float64(), r.Float64()}
		b := Linear{r.Float64(), r.Float64(), r.Float64()}
		d := Difference(a, b)
		assert.False(t, math.IsNaN(d))
		assert.GreaterOrEqual(t, d, 0.0)
		assert.Equal(t, d, Difference(b, a))
	}
}
