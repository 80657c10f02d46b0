package app

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deepayan-S/FoodScanner/decoder"
	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/domain/search"
	"github.com/Deepayan-S/FoodScanner/images"
	"github.com/Deepayan-S/FoodScanner/lookup"
)

const testCode = "0737628064502"

var quiet = slog.New(slog.NewTextHandler(discard{}, nil))

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func ean13PNG(t *testing.T, code string) []byte {
	t.Helper()
	m, err := oned.NewEAN13Writer().Encode(code, gozxing.BarcodeFormat_EAN_13, 0, 1, nil)
	require.NoError(t, err)
	const scale, pad, barHeight = 3, 40, 90
	img := image.NewNRGBA(image.Rect(0, 0, m.GetWidth()*scale+2*pad, barHeight+2*pad))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for x := 0; x < m.GetWidth(); x++ {
		if m.Get(x, 0) {
			draw.Draw(img, image.Rect(pad+x*scale, pad, pad+(x+1)*scale, pad+barHeight), image.NewUniform(color.Black), image.Point{}, draw.Src)
		}
	}
	return images.EncodePNG(img)
}

func blankPNG() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 120, 80))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return images.EncodePNG(img)
}

type fakeLookup struct {
	mu      sync.Mutex
	codes   []string
	product lookup.Product
	err     error
}

func (f *fakeLookup) Lookup(_ context.Context, code string) (lookup.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes = append(f.codes, code)
	if f.err != nil {
		return lookup.Product{}, f.err
	}
	p := f.product
	p.Barcode = code
	return p, nil
}

func (f *fakeLookup) Codes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.codes...)
}

func newTestChain(t *testing.T) *search.Chain {
	t.Helper()
	zx := decoder.NewZXing(barcode.ProductFormats, true, quiet)
	eng, err := search.NewEngine(zx, search.DefaultOptions(), quiet)
	require.NoError(t, err)
	return search.NewChain(quiet, zx, eng)
}

func TestStaticScanIsIdempotent(t *testing.T) {
	s := NewStatic(newTestChain(t), nil, quiet)
	loader := BytesLoader{Label: "upload.png", Data: ean13PNG(t, testCode)}

	first := s.Scan(context.Background(), loader)
	second := s.Scan(context.Background(), loader)
	require.True(t, first.IsFound(), "%v", first)
	assert.Equal(t, testCode, first.Result.Text)
	assert.Equal(t, first, second)
}

func TestStaticScanAndLookupUsesExactBarcode(t *testing.T) {
	lk := &fakeLookup{product: lookup.Product{Name: "Test", NutriScore: "B"}}
	s := NewStatic(newTestChain(t), lk, quiet)

	r := s.ScanAndLookup(context.Background(), BytesLoader{Label: "p.png", Data: ean13PNG(t, testCode)})
	require.True(t, r.Outcome.IsFound())
	assert.Equal(t, []string{testCode}, lk.Codes())
	require.NotNil(t, r.Card)
	assert.Equal(t, "Nutri-Score: B", r.Card.NutriScore)
	assert.Equal(t, "Ingredients: N/A", r.Card.Ingredients)
	assert.NoError(t, r.LookupErr)
	assert.Equal(t, "zxing", r.Tiers[0].Backend)
	assert.Len(t, r.Tiers, 1)
}

func TestStaticNotFoundSkipsLookup(t *testing.T) {
	lk := &fakeLookup{}
	s := NewStatic(newTestChain(t), lk, quiet)

	r := s.ScanAndLookup(context.Background(), BytesLoader{Label: "blank.png", Data: blankPNG()})
	assert.True(t, r.Outcome.IsNotFound())
	assert.Empty(t, lk.Codes())
	assert.Nil(t, r.Card)
	require.Len(t, r.Tiers, 2)
	assert.Equal(t, "search", r.Tiers[1].Backend)

	// nothing is retained between calls
	again := s.ScanAndLookup(context.Background(), BytesLoader{Label: "blank.png", Data: blankPNG()})
	assert.Equal(t, r.Outcome.Kind, again.Outcome.Kind)
}

func TestStaticMalformedImageIsFatal(t *testing.T) {
	s := NewStatic(newTestChain(t), nil, quiet)
	out := s.Scan(context.Background(), BytesLoader{Label: "junk", Data: []byte("not an image")})
	assert.True(t, out.IsFatal())
	assert.True(t, errors.Is(out.Error(), barcode.ErrDecodeFatal))

	out = s.Scan(context.Background(), FileLoader("/does/not/exist.png"))
	assert.True(t, out.IsFatal())
}

func TestStaticLookupFailureIsReported(t *testing.T) {
	lk := &fakeLookup{err: barcode.ErrProductNotFound.WithMessage(testCode)}
	s := NewStatic(newTestChain(t), lk, quiet)
	r := s.ScanAndLookup(context.Background(), BytesLoader{Label: "p.png", Data: ean13PNG(t, testCode)})
	require.True(t, r.Outcome.IsFound())
	assert.True(t, lookup.IsNotFound(r.LookupErr))
	assert.Nil(t, r.Card)
}

func TestStaticPlainBackendRecordsOneTier(t *testing.T) {
	b := barcode.BackendFunc{Label: "stub", Fn: func(context.Context, barcode.Source) barcode.Outcome {
		return barcode.Found(barcode.Result{Text: "42", Format: barcode.FormatCode128})
	}}
	r := NewStatic(b, nil, quiet).ScanAndLookup(context.Background(), BytesLoader{Label: "b", Data: blankPNG()})
	require.Len(t, r.Tiers, 1)
	assert.Equal(t, "stub", r.Tiers[0].Backend)
	assert.Equal(t, "42", r.Outcome.Result.Text)
}
