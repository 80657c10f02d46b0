//go:build !unix && !windows

package debug

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// StartMemLogger logs Go heap stats until ctx ends; RSS is not available here.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	runMemLogger(ctx, interval, logger, func() (uint64, error) {
		return 0, errors.New("rss not supported on this platform")
	})
}
