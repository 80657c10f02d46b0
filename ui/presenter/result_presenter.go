package presenter

import (
	"errors"

	"github.com/Deepayan-S/FoodScanner/app"
	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/domain/search"
	"github.com/Deepayan-S/FoodScanner/lookup"
)

// Status classifies what the user sees after a scan.
type Status string

const (
	StatusLoading         Status = "loading"
	StatusFound           Status = "found"
	StatusNoBarcode       Status = "no_barcode"
	StatusProductNotFound Status = "product_not_found"
	StatusLookupFailed    Status = "lookup_failed"
	StatusError           Status = "error"
)

const (
	MsgNoBarcode   = "No barcode detected. Please ensure the barcode is clear and try again."
	MsgLookupFails = "Failed to fetch product data. Please check your internet connection."
	MsgLoading     = "Loading product data..."
	MsgNoCapture   = "Could not access the capture source."
	MsgUnreadable  = "Could not read the image. Please try another photo."
)

// MsgProductNotFound is shown when the database has no entry for code.
func MsgProductNotFound(code string) string { return "Product not found for barcode: " + code }

// TierView is one backend attempt in display form.
type TierView struct {
	Backend    string `json:"backend"`
	Outcome    string `json:"outcome"`
	DurationMS int64  `json:"duration_ms"`
}

// ViewModel is everything a view needs to render one scan.
type ViewModel struct {
	Source     string       `json:"source,omitempty"`
	Status     Status       `json:"status"`
	Message    string       `json:"message,omitempty"`
	Barcode    string       `json:"barcode,omitempty"`
	Format     string       `json:"format,omitempty"`
	Product    *lookup.Card `json:"product,omitempty"`
	Tiers      []TierView   `json:"tiers,omitempty"`
	Error      string       `json:"error,omitempty"`
	DurationMS int64        `json:"duration_ms,omitempty"`
}

// Loading is the interim model while a lookup is in flight.
func Loading(code string) ViewModel {
	return ViewModel{Status: StatusLoading, Message: MsgLoading, Barcode: code}
}

// FromReport maps a static scan report.
func FromReport(r app.Report) ViewModel {
	vm := fromOutcome(r.Outcome, r.Card, r.LookupErr)
	vm.Source = r.Source
	vm.DurationMS = r.Duration.Milliseconds()
	vm.Tiers = tierViews(r.Tiers)
	return vm
}

// FromLiveEvent maps the end of a live session.
func FromLiveEvent(ev app.LiveEvent) ViewModel {
	if ev.Err != nil {
		return errorView(ev.Err)
	}
	return fromOutcome(barcode.Found(ev.Result), ev.Card, ev.LookupErr)
}

// FromLookup maps a direct barcode lookup.
func FromLookup(code string, card *lookup.Card, err error) ViewModel {
	return fromOutcome(barcode.Found(barcode.Result{Text: code}), card, err)
}

func fromOutcome(out barcode.Outcome, card *lookup.Card, lookupErr error) ViewModel {
	switch out.Kind {
	case barcode.KindNotFound:
		return ViewModel{Status: StatusNoBarcode, Message: MsgNoBarcode}
	case barcode.KindFatal:
		return errorView(out.Error())
	}
	vm := ViewModel{Status: StatusFound, Barcode: out.Result.Text}
	if out.Result.Format != barcode.FormatUnknown {
		vm.Format = out.Result.FormatName()
	}
	switch {
	case lookupErr != nil && lookup.IsNotFound(lookupErr):
		vm.Status = StatusProductNotFound
		vm.Message = MsgProductNotFound(out.Result.Text)
	case lookupErr != nil:
		vm.Status = StatusLookupFailed
		vm.Message = MsgLookupFails
		vm.Error = lookupErr.Error()
	default:
		vm.Product = card
	}
	return vm
}

func errorView(err error) ViewModel {
	vm := ViewModel{Status: StatusError, Error: err.Error(), Message: MsgUnreadable}
	if errors.Is(err, barcode.ErrCaptureUnavailable) {
		vm.Message = MsgNoCapture
	}
	return vm
}

func tierViews(tiers []search.TierAttempt) []TierView {
	if len(tiers) == 0 {
		return nil
	}
	out := make([]TierView, len(tiers))
	for i, t := range tiers {
		out[i] = TierView{Backend: t.Backend, Outcome: t.Kind.String(), DurationMS: t.Duration.Milliseconds()}
	}
	return out
}

// ResultView renders view models.
type ResultView interface {
	ShowResult(vm ViewModel)
}

// ResultPresenter pushes scan results to a view.
type ResultPresenter struct {
	view ResultView
}

func NewResultPresenter(view ResultView) *ResultPresenter {
	return &ResultPresenter{view: view}
}

// Report renders a static scan.
func (p *ResultPresenter) Report(r app.Report) ViewModel {
	vm := FromReport(r)
	p.show(vm)
	return vm
}

// LiveEvent renders the end of a live session.
func (p *ResultPresenter) LiveEvent(ev app.LiveEvent) ViewModel {
	vm := FromLiveEvent(ev)
	p.show(vm)
	return vm
}

// Loading shows the interim lookup message.
func (p *ResultPresenter) Loading(code string) {
	p.show(Loading(code))
}

// Show renders an already mapped model.
func (p *ResultPresenter) Show(vm ViewModel) { p.show(vm) }

func (p *ResultPresenter) show(vm ViewModel) {
	if p == nil || p.view == nil {
		return
	}
	p.view.ShowResult(vm)
}
