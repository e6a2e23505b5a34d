package frame

import (
	"encoding/binary"
	"image"
	"io"
	"time"

	"github.com/bodgit/epd/dither"
	"github.com/bodgit/epd/palette"
)

// Options control how a frame is encoded.
type Options struct {
	// UpsideDown stores the image rotated by 180°.
	UpsideDown bool

	// Time is written to the header. The zero value means now.
	Time time.Time
}

// DefaultOptions matches the panel as it is mounted.
var DefaultOptions = Options{
	UpsideDown: true,
}

type encoder struct {
	upsideDown bool

	// Index of the last even pixel, waiting for its odd neighbour
	latch byte

	buf  [Size]byte
	body []byte

	preview *image.Paletted
}

func newEncoder(o *Options) *encoder {
	e := &encoder{
		upsideDown: o.UpsideDown,
		preview:    image.NewPaletted(image.Rect(0, 0, pixelX, pixelY), palette.Preview()),
	}
	e.body = e.buf[headerSize:]

	t := o.Time
	if t.IsZero() {
		t = time.Now()
	}
	binary.LittleEndian.PutUint32(e.buf[magicOffset:], Magic)
	binary.LittleEndian.PutUint64(e.buf[timestampOffset:], uint64(t.Unix()))

	return e
}

func (e *encoder) set(x, y int, index uint8) {
	e.preview.SetColorIndex(x, y, index)

	// Pairs follow the logical x parity even when rotated
	if x&1 == 0 {
		e.latch = index & 0x0f
		return
	}

	if e.upsideDown {
		fx, fy := pixelX-1-x, pixelY-1-y
		e.body[(fy*pixelX+fx)>>1] = e.latch | (index&0x0f)<<4
	} else {
		e.body[(y*pixelX+x)>>1] = e.latch<<4 | index&0x0f
	}
}

// Convert dithers m to the panel palette and returns the encoded frame along
// with a preview of how it will look. If o is nil, DefaultOptions are used.
// m must be exactly 600 by 448 pixels.
func Convert(m image.Image, o *Options) ([]byte, *image.Paletted, error) {
	if o == nil {
		o = &DefaultOptions
	}

	buf, err := dither.NewBuffer(m)
	if err != nil {
		return nil, nil, err
	}

	e := newEncoder(o)
	dither.Dither(buf, palette.EPD, e.set)

	return e.buf[:], e.preview, nil
}

// Encode writes the Image m to w in EPD frame format.
func Encode(w io.Writer, m image.Image, o *Options) error {
	b, _, err := Convert(m, o)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
