package frame

import (
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"io"
	"time"

	"github.com/bodgit/epd/palette"
)

var (
	errNotEnough = errors.New("frame: not enough image data")
	errTooMuch   = errors.New("frame: too much image data")
	errBadMagic  = errors.New("frame: invalid magic number")
	errBadIndex  = errors.New("frame: invalid palette index")
)

func init() {
	image.RegisterFormat("epd", "\x1a\x1a\xfa\xfa", Decode, DecodeConfig)
}

// Header is the decoded frame header.
type Header struct {
	Time time.Time
}

// Frame is a decoded frame.
type Frame struct {
	Header
	Image *image.Paletted
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func upperNibble(b byte) byte {
	return b >> 4
}

func lowerNibble(b byte) byte {
	return b & 0x0f
}

// Valid reports whether b starts with a frame header.
func Valid(b []byte) bool {
	return len(b) >= headerSize && binary.LittleEndian.Uint32(b[magicOffset:]) == Magic
}

type decoder struct {
	r io.Reader

	upsideDown bool

	header Header
	image  *image.Paletted

	tmp [Size]byte
}

func (d *decoder) readHeader() error {
	if err := readFull(d.r, d.tmp[:headerSize]); err != nil {
		return err
	}
	if !Valid(d.tmp[:headerSize]) {
		return errBadMagic
	}
	d.header.Time = time.Unix(int64(binary.LittleEndian.Uint64(d.tmp[timestampOffset:])), 0)
	return nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if configOnly {
		return nil
	}

	if err := readFull(d.r, d.tmp[headerSize:]); err != nil {
		if err != io.ErrUnexpectedEOF {
			return err
		}
		return errNotEnough
	}

	if n, err := io.ReadFull(r, d.tmp[:1]); n != 0 {
		return errTooMuch
	} else if err != io.EOF {
		return err
	}

	d.image = image.NewPaletted(image.Rect(0, 0, pixelX, pixelY), palette.Preview())

	body := d.tmp[headerSize:]
	for py := 0; py < pixelY; py++ {
		for px := 0; px < pixelX; px += 2 {
			b := body[(py*pixelX+px)>>1]
			for i, index := range [2]byte{upperNibble(b), lowerNibble(b)} {
				if index >= palette.Size {
					return errBadIndex
				}
				x, y := px+i, py
				if d.upsideDown {
					x, y = pixelX-1-x, pixelY-1-y
				}
				d.image.SetColorIndex(x, y, index)
			}
		}
	}

	return nil
}

// ReadFrame reads a frame from r. upsideDown must match the option the frame
// was encoded with for the image to come out the right way up.
func ReadFrame(r io.Reader, upsideDown bool) (*Frame, error) {
	d := decoder{upsideDown: upsideDown}
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return &Frame{
		Header: d.header,
		Image:  d.image,
	}, nil
}

// ReadHeader reads only the header of a frame from r.
func ReadHeader(r io.Reader) (Header, error) {
	var d decoder
	if err := d.decode(r, true); err != nil {
		return Header{}, err
	}
	return d.header, nil
}

// Decode reads an EPD frame stored with the default options from r and
// returns it as an image.Image.
func Decode(r io.Reader) (image.Image, error) {
	f, err := ReadFrame(r, DefaultOptions.UpsideDown)
	if err != nil {
		return nil, err
	}
	return f.Image, nil
}

// DecodeConfig returns the color model and dimensions of an EPD frame without
// decoding the entire frame.
func DecodeConfig(r io.Reader) (image.Config, error) {
	if _, err := ReadHeader(r); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.Palette(palette.Preview()),
		Width:      pixelX,
		Height:     pixelY,
	}, nil
}
