package app

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/domain/capture"
	"github.com/Deepayan-S/FoodScanner/domain/stream"
	"github.com/Deepayan-S/FoodScanner/lookup"
)

type chanDevice struct{ frames chan capture.Frame }

func (d *chanDevice) Frames() <-chan capture.Frame { return d.frames }
func (d *chanDevice) Stats() capture.CaptureStats  { return capture.CaptureStats{} }
func (d *chanDevice) Err() error                   { return nil }
func (d *chanDevice) Close() error                 { return nil }

func oneFrameFactory(context.Context) (capture.Device, error) {
	d := &chanDevice{frames: make(chan capture.Frame, 1)}
	d.frames <- capture.Frame{Image: image.NewNRGBA(image.Rect(0, 0, 4, 4)), Sequence: 1}
	return d, nil
}

func waitEvent(t *testing.T, l *Live) LiveEvent {
	t.Helper()
	select {
	case ev := <-l.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("no live event")
	}
	return LiveEvent{}
}

func TestLiveFoundTriggersLookup(t *testing.T) {
	found := barcode.BackendFunc{Label: "stub", Fn: func(context.Context, barcode.Source) barcode.Outcome {
		return barcode.Found(barcode.Result{Text: testCode, Format: barcode.FormatEAN13})
	}}
	lk := &fakeLookup{product: lookup.Product{Name: "Test", NutriScore: "b"}}
	l := NewLive(oneFrameFactory, found, lk, quiet)
	defer l.Close()

	l.Start()
	ev := waitEvent(t, l)
	assert.Equal(t, stream.StateFound, ev.State)
	assert.Equal(t, testCode, ev.Result.Text)
	require.NotNil(t, ev.Card)
	assert.Equal(t, "Nutri-Score: B", ev.Card.NutriScore)
	assert.Equal(t, []string{testCode}, lk.Codes())
	assert.Equal(t, stream.StateFound, l.Current())
}

func TestLiveWithoutLookupOnlyReportsBarcode(t *testing.T) {
	found := barcode.BackendFunc{Label: "stub", Fn: func(context.Context, barcode.Source) barcode.Outcome {
		return barcode.Found(barcode.Result{Text: "96385074", Format: barcode.FormatEAN8})
	}}
	l := NewLive(oneFrameFactory, found, nil, quiet)
	defer l.Close()

	l.Start()
	ev := waitEvent(t, l)
	assert.Equal(t, "96385074", ev.Result.Text)
	assert.Nil(t, ev.Card)
	assert.NoError(t, ev.LookupErr)
}

func TestLiveAcquireFailurePublishesError(t *testing.T) {
	factory := func(context.Context) (capture.Device, error) { return nil, errors.New("no display") }
	l := NewLive(factory, barcode.BackendFunc{Label: "stub"}, nil, quiet)
	defer l.Close()

	l.Start()
	ev := waitEvent(t, l)
	assert.Equal(t, stream.StateError, ev.State)
	assert.True(t, errors.Is(ev.Err, barcode.ErrCaptureUnavailable))
}
