package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
)

// TierAttempt records one backend invocation made by a Chain.
type TierAttempt struct {
	Backend  string        `json:"backend"`
	Kind     barcode.Kind  `json:"-"`
	Err      error         `json:"-"`
	Duration time.Duration `json:"duration"`
}

// Chain runs backends in priority order. A tier runs only after the previous
// one reported NotFound; Found returns and Fatal aborts the chain.
type Chain struct {
	tiers  []barcode.Backend
	logger *slog.Logger
}

func NewChain(logger *slog.Logger, tiers ...barcode.Backend) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	kept := make([]barcode.Backend, 0, len(tiers))
	for _, t := range tiers {
		if t != nil {
			kept = append(kept, t)
		}
	}
	return &Chain{tiers: kept, logger: logger}
}

func (c *Chain) Name() string { return "chain" }

// Tiers lists backend names in run order.
func (c *Chain) Tiers() []string {
	names := make([]string, len(c.tiers))
	for i, t := range c.tiers {
		names[i] = t.Name()
	}
	return names
}

func (c *Chain) AttemptDecode(ctx context.Context, src barcode.Source) barcode.Outcome {
	out, _ := c.Run(ctx, src)
	return out
}

// Run returns the first decisive outcome and the tiers that were tried.
func (c *Chain) Run(ctx context.Context, src barcode.Source) (barcode.Outcome, []TierAttempt) {
	trace := make([]TierAttempt, 0, len(c.tiers))
	var last error
	for _, t := range c.tiers {
		if err := ctx.Err(); err != nil {
			return barcode.Fatal(err), trace
		}
		start := time.Now()
		out := t.AttemptDecode(ctx, src)
		trace = append(trace, TierAttempt{Backend: t.Name(), Kind: out.Kind, Err: out.Err, Duration: time.Since(start)})
		switch out.Kind {
		case barcode.KindFound:
			c.logger.Info("chain.found", "backend", t.Name(), "format", out.Result.Format.String(), "text", out.Result.Text)
			return out, trace
		case barcode.KindFatal:
			c.logger.Error("chain.fatal", "backend", t.Name(), "error", out.Err)
			return out, trace
		default:
			c.logger.Debug("chain.not_found", "backend", t.Name(), "error", out.Err)
			if out.Err != nil {
				last = out.Err
			}
		}
	}
	return barcode.NotFound(last), trace
}
