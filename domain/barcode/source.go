package barcode

import (
	"image"
	"image/draw"
)

// Source is an immutable decodable image. The pixel buffer is private so
// backends and transforms cannot mutate a Source in place; every transform
// yields a new Source.
type Source struct {
	img *image.NRGBA
}

// NewSource copies img into an NRGBA buffer anchored at (0,0).
func NewSource(img image.Image) Source {
	if img == nil {
		return Source{}
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return Source{img: dst}
}

// Adopt wraps an NRGBA buffer the caller promises not to touch afterwards.
// Transforms that already allocate a fresh buffer use it to skip a copy.
func Adopt(img *image.NRGBA) Source { return Source{img: img} }

// Image exposes the pixels read-only by convention.
func (s Source) Image() image.Image {
	if s.img == nil {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	return s.img
}

// NRGBA returns the underlying buffer. Callers must not modify it.
func (s Source) NRGBA() *image.NRGBA { return s.img }

func (s Source) Width() int {
	if s.img == nil {
		return 0
	}
	return s.img.Bounds().Dx()
}

func (s Source) Height() int {
	if s.img == nil {
		return 0
	}
	return s.img.Bounds().Dy()
}

// Empty reports a zero-area source; such an image is malformed for decoding.
func (s Source) Empty() bool { return s.Width() == 0 || s.Height() == 0 }
