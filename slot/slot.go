/*
Package slot implements the flash partition image read by the panel firmware.

The partition is a run of fixed size slots, each holding one frame. Erased
flash reads as 0xff so an unused slot fails the frame magic check and is
skipped; the firmware shows the first slot holding a valid frame.
*/
package slot

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bodgit/epd/frame"
)

const (
	// DefaultSlots is the number of slots in the partition as shipped.
	DefaultSlots = 8

	// Size defines the expected size in bytes of each slot
	Size = frame.Size

	erased = 0xff
)

var (
	errFull        = errors.New("slot: partition is full")
	errBadLength   = errors.New("slot: incorrect frame length")
	errNotFrame    = errors.New("slot: not a frame")
	errBadImageLen = errors.New("slot: partition image is not a whole number of slots")
)

// Partition is the partition image object. It implements the
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler interfaces.
type Partition struct {
	slots  int
	frames [][]byte
}

// New returns an empty partition with room for the given number of slots
func New(slots int) *Partition {
	return &Partition{
		slots: slots,
	}
}

// Slots returns the capacity of the partition
func (p *Partition) Slots() int {
	return p.slots
}

// Length returns the number of frames in the partition
func (p *Partition) Length() int {
	return len(p.frames)
}

// Add stores a frame in the next free slot
func (p *Partition) Add(b []byte) error {
	if len(b) != Size {
		return errBadLength
	}
	if !frame.Valid(b) {
		return errNotFrame
	}
	if len(p.frames) >= p.slots {
		return errFull
	}
	p.frames = append(p.frames, b)
	return nil
}

// Frames returns the frames in slot order
func (p *Partition) Frames() [][]byte {
	return p.frames
}

// First returns the frame the firmware will display, or nil if there is none
func (p *Partition) First() []byte {
	if len(p.frames) == 0 {
		return nil
	}
	return p.frames[0]
}

// MarshalBinary encodes the partition into binary form and returns the result
func (p *Partition) MarshalBinary() ([]byte, error) {
	if len(p.frames) > p.slots {
		return nil, fmt.Errorf("slot: more than %d frames", p.slots)
	}

	b := new(bytes.Buffer)
	b.Grow(p.slots * Size)

	for _, f := range p.frames {
		if _, err := b.Write(f); err != nil {
			return nil, err
		}
	}

	// Leave the remaining slots erased
	if _, err := b.Write(bytes.Repeat([]byte{erased}, (p.slots-len(p.frames))*Size)); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the partition from binary form, dropping any slot
// that doesn't hold a valid frame
func (p *Partition) UnmarshalBinary(b []byte) error {
	if len(b)%Size != 0 {
		return errBadImageLen
	}

	p.slots = len(b) / Size
	p.frames = nil

	for i := 0; i < p.slots; i++ {
		s := b[i*Size : (i+1)*Size]
		if frame.Valid(s) {
			p.frames = append(p.frames, append([]byte(nil), s...))
		}
	}

	return nil
}
