package images

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// Default decode bounds for the search engine's prepared image.
const (
	DefaultMinDim = 400
	DefaultMaxDim = 2000
)

// EncodePNG encodes an image to PNG bytes. Errors are ignored and may return an empty slice;
// callers that write to disk use imaging.Encode directly.
func EncodePNG(img image.Image) []byte {
	if img == nil {
		return nil
	}
	var buf bytes.Buffer
	_ = imaging.Encode(&buf, img, imaging.PNG)
	return buf.Bytes()
}

// BoundedSize returns the output size ScaleToBounds would produce for a w x h input.
// When scaling happens the largest side becomes exactly minDim or maxDim and the
// other side is floored, never below 1.
func BoundedSize(w, h, minDim, maxDim int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	largest := max(w, h)
	target := largest
	switch {
	case largest < minDim:
		target = minDim
	case largest > maxDim:
		target = maxDim
	}
	if target == largest {
		return w, h
	}
	if w >= h {
		return target, max(1, h*target/w)
	}
	return max(1, w*target/h), target
}

// ScaleToBounds resamples src (Lanczos) so its largest dimension lies in
// [minDim, maxDim], preserving aspect ratio. In-range input yields an
// unscaled copy. The result is always a fresh buffer.
func ScaleToBounds(src image.Image, minDim, maxDim int) *image.NRGBA {
	if src == nil {
		return image.NewNRGBA(image.Rectangle{})
	}
	b := src.Bounds()
	nw, nh := BoundedSize(b.Dx(), b.Dy(), minDim, maxDim)
	if nw == b.Dx() && nh == b.Dy() {
		return imaging.Clone(src)
	}
	return imaging.Resize(src, nw, nh, imaging.Lanczos)
}
