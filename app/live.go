package app

import (
	"context"
	"log/slog"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/domain/capture"
	"github.com/Deepayan-S/FoodScanner/domain/stream"
	"github.com/Deepayan-S/FoodScanner/lookup"
)

// LiveEvent is a terminal outcome of one live session, delivered after the
// capture device has been released.
type LiveEvent struct {
	SessionID string
	State     stream.State
	Result    barcode.Result
	Err       error

	// Set when a lookup ran for a found barcode.
	Product   *lookup.Product
	Card      *lookup.Card
	LookupErr error
}

// Live couples the stream machine with the product lookup. Found barcodes
// are looked up (when a lookup is configured) and published on Events.
type Live struct {
	machine *stream.Machine
	lookup  ProductLookup
	events  chan LiveEvent
	logger  *slog.Logger
}

func NewLive(factory capture.Factory, backend barcode.Backend, lk ProductLookup, logger *slog.Logger) *Live {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Live{lookup: lk, events: make(chan LiveEvent, 8), logger: logger}
	l.machine = stream.NewMachine(factory, backend, stream.Handlers{
		OnFound: l.onFound,
		OnError: l.onError,
	}, logger)
	return l
}

func (l *Live) onFound(ctx context.Context, id string, res barcode.Result) {
	ev := LiveEvent{SessionID: id, State: stream.StateFound, Result: res}
	if l.lookup != nil {
		p, err := l.lookup.Lookup(ctx, res.Text)
		if err != nil {
			ev.LookupErr = err
			l.logger.Warn("live.lookup", "session", id, "barcode", res.Text, "error", err)
		} else {
			card := lookup.NewCard(p)
			ev.Product, ev.Card = &p, &card
		}
	}
	l.publish(ctx, ev)
}

func (l *Live) onError(ctx context.Context, id string, err error) {
	l.publish(ctx, LiveEvent{SessionID: id, State: stream.StateError, Err: err})
}

func (l *Live) publish(ctx context.Context, ev LiveEvent) {
	select {
	case l.events <- ev:
	case <-ctx.Done():
		l.logger.Debug("live.event_dropped", "session", ev.SessionID, "state", ev.State.String())
	}
}

// Events delivers one event per finished session. It is never closed; use
// Done to detect shutdown.
func (l *Live) Events() <-chan LiveEvent { return l.events }

func (l *Live) Start()                              { l.machine.Start() }
func (l *Live) Cancel()                             { l.machine.Cancel() }
func (l *Live) ScanAgain()                          { l.machine.ScanAgain() }
func (l *Live) Current() stream.State               { return l.machine.Current() }
func (l *Live) AddListener(fn stream.StateListener) { l.machine.AddListener(fn) }
func (l *Live) Done() <-chan struct{}               { return l.machine.Done() }
func (l *Live) Close()                              { l.machine.Close() }

var _ stream.MachineContract = (*Live)(nil)
