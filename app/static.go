package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/domain/search"
	"github.com/Deepayan-S/FoodScanner/images"
	"github.com/Deepayan-S/FoodScanner/lookup"
)

// ImageLoader yields a fully decoded image. Load blocks until the image is
// ready or ctx is done.
type ImageLoader interface {
	Name() string
	Load(ctx context.Context) (image.Image, error)
}

// FileLoader reads an image from disk.
type FileLoader string

func (f FileLoader) Name() string { return string(f) }

func (f FileLoader) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return images.Load(string(f))
}

// BytesLoader decodes an in-memory upload.
type BytesLoader struct {
	Label string
	Data  []byte
}

func (b BytesLoader) Name() string { return b.Label }

func (b BytesLoader) Load(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(b.Data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	return images.Decode(bytes.NewReader(b.Data))
}

// ProductLookup resolves a barcode to product data.
type ProductLookup interface {
	Lookup(ctx context.Context, code string) (lookup.Product, error)
}

// tracedBackend is implemented by search.Chain.
type tracedBackend interface {
	Run(ctx context.Context, src barcode.Source) (barcode.Outcome, []search.TierAttempt)
}

// Report is the result of one static scan, optionally with product data.
type Report struct {
	Source    string
	Outcome   barcode.Outcome
	Tiers     []search.TierAttempt
	Product   *lookup.Product
	Card      *lookup.Card
	LookupErr error
	Duration  time.Duration
}

// Static scans a single still image. It keeps no state between calls, so
// repeating a scan of the same image yields the same outcome.
type Static struct {
	backend barcode.Backend
	lookup  ProductLookup
	logger  *slog.Logger
}

// NewStatic returns a Static orchestrator. lk may be nil, in which case
// ScanAndLookup only decodes.
func NewStatic(backend barcode.Backend, lk ProductLookup, logger *slog.Logger) *Static {
	if logger == nil {
		logger = slog.Default()
	}
	return &Static{backend: backend, lookup: lk, logger: logger}
}

// Scan waits for the image, then runs the backend once. A load or decode
// failure is Fatal.
func (s *Static) Scan(ctx context.Context, loader ImageLoader) barcode.Outcome {
	out, _ := s.scan(ctx, loader)
	return out
}

func (s *Static) scan(ctx context.Context, loader ImageLoader) (barcode.Outcome, []search.TierAttempt) {
	img, err := loader.Load(ctx)
	if err != nil {
		s.logger.Error("static.load", "source", loader.Name(), "error", err)
		return barcode.Fatal(fmt.Errorf("load %s: %w", loader.Name(), err)), nil
	}
	src := barcode.NewSource(img)
	if t, ok := s.backend.(tracedBackend); ok {
		return t.Run(ctx, src)
	}
	start := time.Now()
	out := s.backend.AttemptDecode(ctx, src)
	return out, []search.TierAttempt{{Backend: s.backend.Name(), Kind: out.Kind, Err: out.Err, Duration: time.Since(start)}}
}

// ScanAndLookup decodes the image and, on success, looks up the exact
// barcode text.
func (s *Static) ScanAndLookup(ctx context.Context, loader ImageLoader) Report {
	start := time.Now()
	out, tiers := s.scan(ctx, loader)
	r := Report{Source: loader.Name(), Outcome: out, Tiers: tiers}
	switch {
	case out.IsFound() && s.lookup != nil:
		p, err := s.lookup.Lookup(ctx, out.Result.Text)
		if err != nil {
			r.LookupErr = err
			if lookup.IsNotFound(err) {
				s.logger.Info("static.product_not_found", "barcode", out.Result.Text)
			} else {
				s.logger.Warn("static.lookup", "barcode", out.Result.Text, "error", err)
			}
			break
		}
		card := lookup.NewCard(p)
		r.Product, r.Card = &p, &card
	case out.IsNotFound():
		s.logger.Debug("static.not_found", "source", loader.Name(), "error", out.Err)
	}
	r.Duration = time.Since(start)
	s.logger.Info("static.scan", "source", loader.Name(), "outcome", out.Kind.String(), "tiers", len(tiers), "duration", r.Duration)
	return r
}
