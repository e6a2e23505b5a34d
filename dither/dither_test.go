package dither

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/epd/lab"
	"github.com/bodgit/epd/palette"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingImage struct {
	image.Image
	reads int
}

func (c *countingImage) At(x, y int) color.Color {
	c.reads++
	return c.Image.At(x, y)
}

func uniform(c color.Color) image.Image {
	return &image.Uniform{C: c}
}

func sized(c color.Color, w, h int) image.Image {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y, c)
		}
	}
	return m
}

func gradient() image.Image {
	m := image.NewNRGBA(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			m.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / Width), uint8(y * 255 / Height), uint8((x + y) % 256), 0xff})
		}
	}
	return m
}

func TestNewBufferWrongSize(t *testing.T) {
	for _, size := range []image.Point{{0, 0}, {Width - 1, Height}, {Width, Height + 1}, {Height, Width}} {
		m := &countingImage{Image: sized(color.White, size.X, size.Y)}
		buf, err := NewBuffer(m)
		assert.Equal(t, ErrWrongSize, err)
		assert.Nil(t, buf)
		assert.Zero(t, m.reads)
	}

	// image.Uniform has unbounded bounds
	_, err := NewBuffer(uniform(color.White))
	assert.Equal(t, ErrWrongSize, err)
}

func TestNewBufferOffsetBounds(t *testing.T) {
	m := image.NewRGBA(image.Rect(10, 20, 10+Width, 20+Height))
	m.Set(10, 20, color.White)
	buf, err := NewBuffer(m)
	require.NoError(t, err)
	assert.Equal(t, float32(1), buf.Pix[0])
	assert.Equal(t, float32(0), buf.Pix[3])
}

func TestNewBufferIgnoresAlpha(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, Width, Height))
	m.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 0x80})
	buf, err := NewBuffer(m)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 1, 1}, buf.Pix[:3])
}

func TestSpreadOutOfRange(t *testing.T) {
	buf, err := NewBuffer(sized(color.Gray{0x80}, Width, Height))
	require.NoError(t, err)

	before := append([]float32(nil), buf.Pix...)
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {Width, 0}, {0, Height}, {Width, Height}, {-1, Height}} {
		for c := 0; c < 3; c++ {
			assert.NotPanics(t, func() { buf.spread(p.X, p.Y, c, 0.5) })
		}
	}
	assert.Equal(t, before, buf.Pix)
}

func TestSpreadClamps(t *testing.T) {
	buf, err := NewBuffer(sized(color.Gray{0x80}, Width, Height))
	require.NoError(t, err)

	buf.spread(1, 1, 0, 5)
	buf.spread(1, 1, 1, -5)
	assert.Equal(t, float32(1), buf.Pix[offset(1, 1)])
	assert.Equal(t, float32(0), buf.Pix[offset(1, 1)+1])
}

func collect(t *testing.T, m image.Image) ([]uint8, *Buffer) {
	t.Helper()
	buf, err := NewBuffer(m)
	require.NoError(t, err)

	indices := make([]uint8, 0, Width*Height)
	next := 0
	Dither(buf, palette.EPD, func(x, y int, index uint8) {
		require.Equal(t, next, x+y*Width, "scan order")
		next++
		indices = append(indices, index)
	})
	return indices, buf
}

func TestDitherUniform(t *testing.T) {
	for _, tt := range []struct {
		c    color.Color
		want uint8
	}{
		{color.White, palette.White},
		{color.Black, palette.Black},
	} {
		indices, _ := collect(t, sized(tt.c, Width, Height))
		require.Len(t, indices, Width*Height)
		for _, i := range indices {
			if i != tt.want {
				t.Fatalf("expected index %d, got %d", tt.want, i)
			}
		}
	}
}

func TestDitherGradient(t *testing.T) {
	indices, buf := collect(t, gradient())

	for _, i := range indices {
		assert.Less(t, int(i), palette.Size)
	}
	for _, v := range buf.Pix {
		if v < 0 || v > 1 {
			t.Fatalf("channel out of range: %v", v)
		}
	}

	again, _ := collect(t, gradient())
	assert.Equal(t, indices, again)

	// A gradient needs more than a couple of inks
	seen := make(map[uint8]bool)
	for _, i := range indices {
		seen[i] = true
	}
	assert.Greater(t, len(seen), 2)
}

func TestQuantizeWeights(t *testing.T) {
	buf := &Buffer{Pix: make([]float32, Width*Height*3)}
	for i := range buf.Pix {
		buf.Pix[i] = 0.5
	}
	i := offset(1, 0)
	buf.Pix[i+0], buf.Pix[i+1], buf.Pix[i+2] = 0.75, 0.5, 0.25

	// Every entry is the same so the first one is chosen and the error is
	// exactly (0.25, 0, -0.25)
	var p palette.Palette
	for j := range p {
		p[j] = lab.Linear{R: 0.5, G: 0.5, B: 0.5}
	}
	assert.Equal(t, uint8(0), buf.quantize(1, 0, &p))

	tests := []struct {
		x, y  int
		red   float32
		blue  float32
		label string
	}{
		{2, 0, 0.609375, 0.390625, "right 7/16"},
		{0, 1, 0.546875, 0.453125, "below left 3/16"},
		{1, 1, 0.578125, 0.421875, "below 5/16"},
		{2, 1, 0.515625, 0.484375, "below right 1/16"},
	}
	for _, tt := range tests {
		j := offset(tt.x, tt.y)
		assert.Equal(t, []float32{tt.red, 0.5, tt.blue}, buf.Pix[j:j+3], tt.label)
	}

	// The quantized pixel and everything else is left alone
	assert.Equal(t, []float32{0.75, 0.5, 0.25}, buf.Pix[i:i+3])
	for _, pt := range []image.Point{{0, 0}, {3, 0}, {3, 1}, {1, 2}} {
		j := offset(pt.X, pt.Y)
		assert.Equal(t, []float32{0.5, 0.5, 0.5}, buf.Pix[j:j+3], pt.String())
	}
}

func TestQuantizeEdges(t *testing.T) {
	buf := &Buffer{Pix: make([]float32, Width*Height*3)}
	for i := range buf.Pix {
		buf.Pix[i] = 0.5
	}

	var p palette.Palette
	for j := range p {
		p[j] = lab.Linear{R: 0.25, G: 0.25, B: 0.25}
	}

	// Bottom right corner has no unvisited neighbours; top left only loses
	// the below left share
	buf.quantize(Width-1, Height-1, &p)
	buf.quantize(0, 0, &p)

	assert.Equal(t, float32(0.5+0.25*7/16), buf.Pix[offset(1, 0)])
	assert.Equal(t, float32(0.5+0.25*5/16), buf.Pix[offset(0, 1)])
	assert.Equal(t, float32(0.5+0.25*1/16), buf.Pix[offset(1, 1)])
	assert.Equal(t, float32(0.5), buf.Pix[offset(Width-1, Height-2)])
	assert.Equal(t, float32(0.5), buf.Pix[offset(Width-2, Height-1)])
}
