//go:build unix

package debug

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sys/unix"
)

// StartMemLogger logs peak RSS alongside Go heap stats until ctx ends.
func StartMemLogger(ctx context.Context, interval time.Duration, logger *slog.Logger) {
	runMemLogger(ctx, interval, logger, maxRSS)
}

func maxRSS() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	rss := uint64(ru.Maxrss)
	if runtime.GOOS != "darwin" && runtime.GOOS != "ios" {
		rss *= 1024 // kilobytes everywhere but Darwin
	}
	return rss, nil
}
