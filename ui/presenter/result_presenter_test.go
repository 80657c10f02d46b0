package presenter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deepayan-S/FoodScanner/app"
	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/domain/search"
	"github.com/Deepayan-S/FoodScanner/domain/stream"
	"github.com/Deepayan-S/FoodScanner/lookup"
)

type recordingView struct{ shown []ViewModel }

func (v *recordingView) ShowResult(vm ViewModel) { v.shown = append(v.shown, vm) }

func foundReport(lookupErr error, card *lookup.Card) app.Report {
	return app.Report{
		Source:    "p.png",
		Outcome:   barcode.Found(barcode.Result{Text: "0737628064502", Format: barcode.FormatEAN13}),
		Tiers:     []search.TierAttempt{{Backend: "native", Kind: barcode.KindNotFound, Duration: 3 * time.Millisecond}, {Backend: "zxing", Kind: barcode.KindFound}},
		Card:      card,
		LookupErr: lookupErr,
		Duration:  40 * time.Millisecond,
	}
}

func TestFromReportFound(t *testing.T) {
	card := lookup.NewCard(lookup.Product{Barcode: "0737628064502", Name: "Test", NutriScore: "B"})
	vm := FromReport(foundReport(nil, &card))
	assert.Equal(t, StatusFound, vm.Status)
	assert.Equal(t, "0737628064502", vm.Barcode)
	assert.Equal(t, "ean_13", vm.Format)
	require.NotNil(t, vm.Product)
	assert.Equal(t, "Nutri-Score: B", vm.Product.NutriScore)
	assert.Equal(t, int64(40), vm.DurationMS)
	assert.Equal(t, []TierView{{Backend: "native", Outcome: "not_found", DurationMS: 3}, {Backend: "zxing", Outcome: "found"}}, vm.Tiers)
	assert.Empty(t, vm.Message)
}

func TestFromReportMessages(t *testing.T) {
	vm := FromReport(app.Report{Outcome: barcode.NotFound(errors.New("exhausted"))})
	assert.Equal(t, StatusNoBarcode, vm.Status)
	assert.Equal(t, "No barcode detected. Please ensure the barcode is clear and try again.", vm.Message)

	vm = FromReport(foundReport(barcode.ErrProductNotFound.WithMessage("0737628064502"), nil))
	assert.Equal(t, StatusProductNotFound, vm.Status)
	assert.Equal(t, "Product not found for barcode: 0737628064502", vm.Message)

	vm = FromReport(foundReport(barcode.ErrLookupFailure.Wrap(errors.New("dial tcp: timeout")), nil))
	assert.Equal(t, StatusLookupFailed, vm.Status)
	assert.Equal(t, "Failed to fetch product data. Please check your internet connection.", vm.Message)
	assert.Contains(t, vm.Error, "timeout")

	vm = FromReport(app.Report{Outcome: barcode.Fatal(errors.New("load x: unexpected EOF"))})
	assert.Equal(t, StatusError, vm.Status)
	assert.Equal(t, MsgUnreadable, vm.Message)
	assert.NotEqual(t, MsgLookupFails, vm.Message)
	assert.Contains(t, vm.Error, "unexpected EOF")
	assert.Contains(t, vm.Error, "E_DECODE_FATAL")

	assert.Equal(t, "Loading product data...", Loading("1").Message)
}

func TestFromLiveEventCaptureUnavailable(t *testing.T) {
	vm := FromLiveEvent(app.LiveEvent{State: stream.StateError, Err: barcode.ErrCaptureUnavailable.Wrap(errors.New("no display"))})
	assert.Equal(t, StatusError, vm.Status)
	assert.Equal(t, MsgNoCapture, vm.Message)
	assert.Contains(t, vm.Error, "no display")
}

func TestResultPresenterShows(t *testing.T) {
	v := &recordingView{}
	p := NewResultPresenter(v)
	p.Loading("42")
	p.LiveEvent(app.LiveEvent{State: stream.StateFound, Result: barcode.Result{Text: "42"}})
	require.Len(t, v.shown, 2)
	assert.Equal(t, StatusLoading, v.shown[0].Status)
	assert.Equal(t, StatusFound, v.shown[1].Status)
	assert.Empty(t, v.shown[1].Format)
}
