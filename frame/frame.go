/*
Package frame implements an EPD frame encoder and decoder.

A frame is exactly 600 by 448 pixels, each one of the seven colors of the
panel palette. The file is written as a 64 byte header followed by 134400
bytes of pixel information, a 4-bit palette index for each pixel with two
pixels packed per byte. There is no compression so the resulting file is
always 134464 bytes in size.

The header starts with the magic number 0xfafa1a1a followed by the time the
frame was created as Unix seconds, both little-endian. The rest of the header
is zero.

The panel is mounted upside down, so by default the pixel data is stored
rotated by 180°. The rotation moves whole bytes; within a byte the index of
the leftmost pixel, as the panel scans it, sits in the upper nibble.
*/
package frame

import (
	"github.com/bodgit/epd/dither"
)

// Magic identifies a frame.
const Magic = 0xfafa1a1a

const (
	pixelX     = dither.Width
	pixelY     = dither.Height
	numPixels  = pixelX * pixelY
	headerSize = 64
	pixelBytes = numPixels >> 1

	// Size is the length of an encoded frame in bytes.
	Size = headerSize + pixelBytes
)

const (
	magicOffset     = 0
	timestampOffset = 4
)
