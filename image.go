package epd

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/bodgit/epd/dither"
	"github.com/disintegration/gift"
	_ "github.com/xfmoulet/qoi"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Fit scales and center crops m to fill the panel. Images already at the
// panel resolution are returned unchanged.
func Fit(m image.Image) image.Image {
	b := m.Bounds()
	if b.Dx() == dither.Width && b.Dy() == dither.Height {
		return m
	}

	g := gift.New(gift.ResizeToFill(dither.Width, dither.Height, gift.LanczosResampling, gift.CenterAnchor))
	dst := image.NewNRGBA(g.Bounds(b))
	g.Draw(dst, m)
	return dst
}

// Load decodes the image in file, fitting it to the panel if fit is set.
func Load(file string, fit bool) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}

	if fit {
		m = Fit(m)
	}
	return m, nil
}
