package search

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/images"
)

// Options configures an Engine.
type Options struct {
	Catalog Catalog
	MinDim  int
	MaxDim  int
}

// DefaultOptions uses the stock catalog and 400..2000 px bounds.
func DefaultOptions() Options {
	return Options{Catalog: DefaultCatalog(), MinDim: images.DefaultMinDim, MaxDim: images.DefaultMaxDim}
}

// Trace summarizes one Search call.
type Trace struct {
	Attempts int
	Last     Attempt
	Duration time.Duration
}

// Engine walks the catalog against a binarizing backend until a decode
// succeeds, a fatal error occurs or the plan is exhausted. Attempts are
// strictly sequential.
type Engine struct {
	backend barcode.BinarizingBackend
	opts    Options
	logger  *slog.Logger
}

func NewEngine(backend barcode.BinarizingBackend, opts Options, logger *slog.Logger) (*Engine, error) {
	if backend == nil {
		return nil, fmt.Errorf("search: nil backend")
	}
	if err := opts.Catalog.Validate(); err != nil {
		return nil, err
	}
	if opts.MinDim <= 0 {
		opts.MinDim = images.DefaultMinDim
	}
	if opts.MaxDim < opts.MinDim {
		opts.MaxDim = max(opts.MinDim, images.DefaultMaxDim)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{backend: backend, opts: opts, logger: logger}, nil
}

func (e *Engine) Name() string { return "search" }

// Catalog returns the engine's plan.
func (e *Engine) Catalog() Catalog { return e.opts.Catalog }

// AttemptDecode lets the engine sit in a Chain as the last tier.
func (e *Engine) AttemptDecode(ctx context.Context, src barcode.Source) barcode.Outcome {
	out, _ := e.Search(ctx, src)
	return out
}

// Search scales src once, rotates only when the angle changes and enhances
// only when the profile changes. Exhaustion returns NotFound carrying the
// last retryable failure.
func (e *Engine) Search(ctx context.Context, src barcode.Source) (barcode.Outcome, Trace) {
	start := time.Now()
	var tr Trace
	done := func(out barcode.Outcome) (barcode.Outcome, Trace) {
		tr.Duration = time.Since(start)
		return out, tr
	}
	if src.Empty() {
		return done(barcode.Fatal(barcode.ErrDecodeFatal.WithMessage("empty image")))
	}

	scaled := images.ScaleToBounds(src.Image(), e.opts.MinDim, e.opts.MaxDim)
	var (
		rotated     *image.NRGBA
		enhanced    barcode.Source
		curAngle    = -1
		curProfile  = -1
		lastFailure error
	)
	for a := range e.opts.Catalog.Attempts() {
		if err := ctx.Err(); err != nil {
			return done(barcode.Fatal(err))
		}
		if a.Angle != curAngle {
			r, err := images.Rotate(scaled, a.Angle)
			if err != nil {
				return done(barcode.Fatal(err))
			}
			rotated, curAngle, curProfile = r, a.Angle, -1
		}
		if a.ProfileIndex != curProfile {
			enhanced = barcode.Adopt(images.Enhance(rotated, a.Profile.Contrast, a.Profile.Brightness))
			curProfile = a.ProfileIndex
		}

		tr.Attempts++
		tr.Last = a
		out := e.backend.AttemptDecodeWith(ctx, enhanced, a.Binarizer)
		switch out.Kind {
		case barcode.KindFound:
			e.logger.Info("search.found", "attempt", a.Index, "angle", a.Angle,
				"profile", a.Profile.String(), "binarizer", a.Binarizer.String(), "text", out.Result.Text)
			return done(out)
		case barcode.KindFatal:
			e.logger.Error("search.fatal", "attempt", a.Index, "error", out.Err)
			return done(out)
		default:
			if out.Err != nil {
				lastFailure = out.Err
			}
			e.logger.Debug("search.attempt", "attempt", a.Index, "angle", a.Angle,
				"profile", a.Profile.String(), "binarizer", a.Binarizer.String())
		}
	}
	e.logger.Debug("search.exhausted", "attempts", tr.Attempts)
	return done(barcode.NotFound(lastFailure))
}
