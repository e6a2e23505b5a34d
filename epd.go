/*
Package epd is a library for converting images for a seven color e-paper
panel and keeping the resulting frames.
*/
package epd

import (
	"bytes"
	"image"
	"log"
	"path/filepath"

	"github.com/bodgit/epd/frame"
	"github.com/bodgit/epd/slot"
)

type EPD struct {
	db     *FrameDB
	store  Store
	logger *log.Logger

	// Options used for every conversion
	Options frame.Options

	// Fit resizes images that aren't the panel resolution
	Fit bool
}

func New(file string, logger *log.Logger) (*EPD, error) {
	db, err := NewFrameDB(file)
	if err != nil {
		return nil, err
	}

	return &EPD{
		db:      db,
		store:   db,
		logger:  logger,
		Options: frame.DefaultOptions,
	}, nil
}

// DB returns the underlying frame database.
func (e *EPD) DB() *FrameDB {
	return e.db
}

func (e *EPD) Close() error {
	return e.db.Close()
}

// Convert loads file and returns the encoded frame and its preview.
func (e *EPD) Convert(file string) ([]byte, *image.Paletted, error) {
	m, err := Load(file, e.Fit)
	if err != nil {
		return nil, nil, err
	}
	return frame.Convert(m, &e.Options)
}

// Import converts file and stores the frame under its base name.
func (e *EPD) Import(file string) (int64, error) {
	b, _, err := e.Convert(file)
	if err != nil {
		return 0, err
	}

	id, err := e.store.Store(filepath.Base(file), b)
	if err != nil {
		return 0, err
	}
	e.logger.Printf("Stored \"%s\" as frame %d\n", file, id)

	return id, nil
}

// Export builds a flash partition image from the newest frames in the
// database, newest in the first slot.
func (e *EPD) Export(slots int) ([]byte, error) {
	frames, err := e.db.Latest(slots)
	if err != nil {
		return nil, err
	}

	p := slot.New(slots)
	for _, f := range frames {
		if err := p.Add(f.Frame); err != nil {
			e.logger.Printf("Skipping frame %d: %s\n", f.ID, err)
			continue
		}
	}

	return p.MarshalBinary()
}

// Decode reads back a stored frame.
func (e *EPD) Decode(id int64) (*frame.Frame, error) {
	f, err := e.db.Frame(id)
	if err != nil {
		return nil, err
	}
	return frame.ReadFrame(bytes.NewReader(f.Frame), e.Options.UpsideDown)
}
