package images

import (
	"errors"
	"image"

	"github.com/disintegration/imaging"
)

// ExtractROI crops roi (relative to the frame origin) after padding it by pad
// pixels on every side. The rectangle is clamped to the frame and is at least 1x1.
// Returns the crop and the rectangle actually used.
func ExtractROI(frame image.Image, roi image.Rectangle, pad int) (*image.NRGBA, image.Rectangle, error) {
	if frame == nil {
		return nil, image.Rectangle{}, errors.New("nil frame")
	}
	b := frame.Bounds()
	if b.Empty() {
		return nil, image.Rectangle{}, errors.New("empty frame")
	}
	r := roi.Canon().Inset(-pad)
	full := image.Rect(0, 0, b.Dx(), b.Dy())
	r = r.Intersect(full)
	if r.Empty() {
		// keep a 1x1 crop at the nearest in-frame point
		x := min(max(roi.Min.X, 0), b.Dx()-1)
		y := min(max(roi.Min.Y, 0), b.Dy()-1)
		r = image.Rect(x, y, x+1, y+1)
	}
	crop := imaging.Crop(frame, r.Add(b.Min))
	return crop, r, nil
}
