package images

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func patterned(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8(x + y), A: 255})
		}
	}
	return img
}

func TestRotateDimensions(t *testing.T) {
	src := patterned(30, 12)
	for _, tc := range []struct{ deg, w, h int }{
		{0, 30, 12}, {90, 12, 30}, {180, 30, 12}, {270, 12, 30}, {-90, 12, 30}, {450, 12, 30},
	} {
		out, err := Rotate(src, tc.deg)
		require.NoError(t, err)
		assert.Equal(t, tc.w, out.Bounds().Dx(), "deg %d", tc.deg)
		assert.Equal(t, tc.h, out.Bounds().Dy(), "deg %d", tc.deg)
	}
}

func TestRotateRoundTrip(t *testing.T) {
	src := patterned(17, 9)
	for _, deg := range []int{0, 90, 180, 270} {
		once, err := Rotate(src, deg)
		require.NoError(t, err)
		back, err := Rotate(once, 360-deg)
		require.NoError(t, err)
		assert.Equal(t, src.Pix, back.Pix, "deg %d", deg)
	}
}

func TestRotateClockwise(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	out, err := Rotate(src, 90)
	require.NoError(t, err)
	// top-left moves to top-right under a clockwise quarter turn
	assert.Equal(t, uint8(255), out.NRGBAAt(1, 0).R)
	assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).R)
}

func TestRotateRejectsOddAngles(t *testing.T) {
	_, err := Rotate(patterned(2, 2), 45)
	assert.Error(t, err)
}

func TestEnhanceFormula(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 250, G: 250, B: 250, A: 40})
	before := append([]uint8(nil), src.Pix...)

	cases := []struct {
		contrast   float64
		brightness int
		want       uint8
	}{
		{1.5, 0, 86},
		{2.0, 10, 92},
		{1.8, -10, 60},
		{2.5, 0, 58},
	}
	for _, tc := range cases {
		out := Enhance(src, tc.contrast, tc.brightness)
		px := out.NRGBAAt(0, 0)
		assert.Equal(t, tc.want, px.R)
		assert.Equal(t, px.R, px.G)
		assert.Equal(t, px.R, px.B)
		bright := out.NRGBAAt(1, 0)
		assert.Equal(t, uint8(255), bright.R)
		assert.Equal(t, uint8(40), bright.A)
	}
	assert.Equal(t, before, src.Pix)
}

func TestEnhanceClampsDark(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 5, G: 5, B: 5, A: 255})
	out := Enhance(src, 2.5, -10)
	assert.Equal(t, uint8(0), out.NRGBAAt(0, 0).R)
}

func TestBoundedSize(t *testing.T) {
	cases := []struct{ w, h, wantW, wantH int }{
		{100, 50, 400, 200},
		{50, 100, 200, 400},
		{4000, 3000, 2000, 1500},
		{3000, 4001, 1499, 2000},
		{800, 600, 800, 600},
		{3000, 1, 2000, 1},
		{1, 1, 400, 400},
	}
	for _, tc := range cases {
		w, h := BoundedSize(tc.w, tc.h, DefaultMinDim, DefaultMaxDim)
		assert.Equal(t, tc.wantW, w, "%dx%d", tc.w, tc.h)
		assert.Equal(t, tc.wantH, h, "%dx%d", tc.w, tc.h)
	}
}

func TestScaleToBounds(t *testing.T) {
	small := ScaleToBounds(patterned(60, 30), DefaultMinDim, DefaultMaxDim)
	assert.Equal(t, 400, small.Bounds().Dx())
	assert.Equal(t, 200, small.Bounds().Dy())

	src := patterned(500, 300)
	same := ScaleToBounds(src, DefaultMinDim, DefaultMaxDim)
	assert.Equal(t, src.Pix, same.Pix)
	same.Pix[0] = ^same.Pix[0]
	assert.NotEqual(t, src.Pix[0], same.Pix[0])
}

func TestDecodePNG(t *testing.T) {
	src := patterned(8, 5)
	img, err := Decode(bytes.NewReader(EncodePNG(src)))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
	_, err = Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}
