package search

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
)

type stubBackend struct {
	name  string
	out   barcode.Outcome
	calls int
}

func (s *stubBackend) Name() string { return s.name }

func (s *stubBackend) AttemptDecode(context.Context, barcode.Source) barcode.Outcome {
	s.calls++
	return s.out
}

func anySource() barcode.Source {
	return barcode.NewSource(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
}

func TestChainFallsThroughNotFound(t *testing.T) {
	native := &stubBackend{name: "native", out: barcode.NotFound(nil)}
	heuristic := &stubBackend{name: "heuristic", out: barcode.NotFound(errors.New("no region"))}
	general := &stubBackend{name: "zxing", out: barcode.Found(barcode.Result{Text: "123", Format: barcode.FormatEAN8})}
	last := &stubBackend{name: "search"}

	c := NewChain(nil, native, heuristic, general, last)
	out, trace := c.Run(context.Background(), anySource())
	require.True(t, out.IsFound())
	assert.Equal(t, "123", out.Result.Text)
	require.Len(t, trace, 3)
	assert.Equal(t, "native", trace[0].Backend)
	assert.Equal(t, barcode.KindNotFound, trace[1].Kind)
	assert.Equal(t, barcode.KindFound, trace[2].Kind)
	assert.Zero(t, last.calls)
}

func TestChainFatalAborts(t *testing.T) {
	boom := errors.New("boom")
	first := &stubBackend{name: "native", out: barcode.Fatal(boom)}
	second := &stubBackend{name: "heuristic", out: barcode.Found(barcode.Result{Text: "x"})}
	out, trace := NewChain(nil, first, second).Run(context.Background(), anySource())
	assert.True(t, out.IsFatal())
	assert.ErrorIs(t, out.Err, boom)
	assert.Len(t, trace, 1)
	assert.Zero(t, second.calls)
}

func TestChainExhaustedCarriesLastError(t *testing.T) {
	cause := errors.New("checksum")
	a := &stubBackend{name: "a", out: barcode.NotFound(cause)}
	b := &stubBackend{name: "b", out: barcode.NotFound(nil)}
	c := NewChain(nil, a, nil, b)
	assert.Equal(t, []string{"a", "b"}, c.Tiers())
	out, trace := c.Run(context.Background(), anySource())
	assert.True(t, out.IsNotFound())
	assert.Equal(t, cause, out.Err)
	assert.Len(t, trace, 2)
}

func TestChainWithEngineTier(t *testing.T) {
	fake := &fakeBinarizing{fn: func(call int, _ barcode.Source, _ barcode.Binarization) barcode.Outcome {
		if call == 4 {
			return barcode.Found(barcode.Result{Text: "deep"})
		}
		return barcode.NotFound(nil)
	}}
	eng, err := NewEngine(fake, DefaultOptions(), nil)
	require.NoError(t, err)
	native := &stubBackend{name: "native", out: barcode.NotFound(nil)}
	out, trace := NewChain(nil, native, eng).Run(context.Background(), anySource())
	require.True(t, out.IsFound())
	assert.Equal(t, "deep", out.Result.Text)
	assert.Equal(t, "search", trace[1].Backend)
}

func TestChainCanceledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := &stubBackend{name: "a", out: barcode.NotFound(nil)}
	out, trace := NewChain(nil, a).Run(ctx, anySource())
	assert.True(t, out.IsFatal())
	assert.Empty(t, trace)
	assert.Zero(t, a.calls)
}
