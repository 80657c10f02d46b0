package images

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// NormalizeAngle folds degrees into [0, 360) and rejects non right angles.
func NormalizeAngle(degrees int) (int, error) {
	d := ((degrees % 360) + 360) % 360
	if d%90 != 0 {
		return 0, fmt.Errorf("rotation must be a multiple of 90 degrees, got %d", degrees)
	}
	return d, nil
}

// Rotate turns src clockwise by a right angle about its center.
// 0 and 180 keep w x h; 90 and 270 swap them.
func Rotate(src image.Image, degrees int) (*image.NRGBA, error) {
	d, err := NormalizeAngle(degrees)
	if err != nil {
		return nil, err
	}
	switch d {
	case 90:
		// imaging rotates counter-clockwise
		return imaging.Rotate270(src), nil
	case 180:
		return imaging.Rotate180(src), nil
	case 270:
		return imaging.Rotate90(src), nil
	default:
		return imaging.Clone(src), nil
	}
}

// Luma is the rounded BT.601 gray value of an opaque pixel.
func Luma(r, g, b uint8) float64 {
	return math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
}

// Enhance converts src to gray then applies
// out = clamp((gray + brightness - 128) * contrast + 128) to R, G and B.
// Alpha is preserved and src is left untouched.
func Enhance(src image.Image, contrast float64, brightness int) *image.NRGBA {
	var lut [256]uint8
	for g := range lut {
		v := (float64(g)+float64(brightness)-128)*contrast + 128
		lut[g] = clamp8(v)
	}
	return imaging.AdjustFunc(src, func(c color.NRGBA) color.NRGBA {
		v := lut[int(Luma(c.R, c.G, c.B))]
		return color.NRGBA{R: v, G: v, B: v, A: c.A}
	})
}

func clamp8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Sharpen returns a sharpened copy, used before decoding located crops.
func Sharpen(src image.Image, sigma float64) *image.NRGBA {
	return imaging.Sharpen(src, sigma)
}
