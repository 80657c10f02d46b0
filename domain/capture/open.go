package capture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
)

// Source kinds accepted by Open.
const (
	KindScreen   = "screen"
	KindDir      = "dir"
	KindSnapshot = "snapshot"
)

// Options selects and configures a capture device.
type Options struct {
	Kind      string
	Dir       string
	Loop      bool
	URL       string
	Interval  time.Duration
	Selection image.Rectangle
	Client    *http.Client
}

// Open acquires the device described by opts. Failures wrap
// barcode.ErrCaptureUnavailable.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, barcode.ErrCaptureUnavailable.Wrap(err)
	}
	var (
		d   Device
		err error
	)
	switch opts.Kind {
	case KindScreen, "":
		d, err = OpenScreen(opts.Selection, opts.Interval, logger)
	case KindDir:
		d, err = OpenDir(opts.Dir, opts.Interval, opts.Loop, logger)
	case KindSnapshot:
		d, err = OpenSnapshot(opts.URL, opts.Client, opts.Interval, logger)
	default:
		err = fmt.Errorf("unknown capture source %q", opts.Kind)
	}
	if err != nil {
		return nil, barcode.ErrCaptureUnavailable.Wrap(err)
	}
	return d, nil
}

// NewFactory binds opts into a Factory for the live state machine.
func NewFactory(opts Options, logger *slog.Logger) Factory {
	return func(ctx context.Context) (Device, error) {
		return Open(ctx, opts, logger)
	}
}
