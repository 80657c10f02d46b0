package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"
)

const (
	captureStatsLogInterval = 5 * time.Second
	// a device that fails this many grabs in a row is considered gone
	maxConsecutiveFailures = 10
)

// grabFunc captures one image. Returning ErrEndOfStream ends the device cleanly.
type grabFunc func(ctx context.Context) (image.Image, error)

// pollingDevice runs a grab loop on its own goroutine and hands frames to a
// single consumer. Sends block until the consumer takes the frame, so the
// device never captures faster than frames are decoded.
type pollingDevice struct {
	name     string
	grab     grabFunc
	interval time.Duration
	logger   *slog.Logger

	frames    chan Frame
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	mu  sync.Mutex
	err error

	meter
}

func startPolling(name string, interval time.Duration, grab grabFunc, logger *slog.Logger) *pollingDevice {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &pollingDevice{
		name:     name,
		grab:     grab,
		interval: interval,
		logger:   logger.With("device", name),
		frames:   make(chan Frame, 1),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go d.loop(ctx)
	return d
}

func (d *pollingDevice) Frames() <-chan Frame { return d.frames }

func (d *pollingDevice) Stats() CaptureStats { return d.stats() }

func (d *pollingDevice) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *pollingDevice) setErr(err error) {
	d.mu.Lock()
	d.err = err
	d.mu.Unlock()
}

// Close stops the loop and waits for it to exit. Safe to call repeatedly.
func (d *pollingDevice) Close() error {
	d.closeOnce.Do(func() {
		d.cancel()
		<-d.done
		d.logStats()
	})
	return nil
}

func (d *pollingDevice) loop(ctx context.Context) {
	defer close(d.done)
	defer close(d.frames)
	logTicker := time.NewTicker(captureStatsLogInterval)
	defer logTicker.Stop()

	failures := 0
	for ctx.Err() == nil {
		start := time.Now()
		img, err := d.grab(ctx)
		switch {
		case errors.Is(err, ErrEndOfStream):
			d.logger.Info("capture.end")
			d.setErr(ErrEndOfStream)
			return
		case err != nil:
			if ctx.Err() != nil {
				return
			}
			d.skipped.Add(1)
			failures++
			d.logger.Error("capture.grab", "error", err, "consecutive", failures)
			if failures >= maxConsecutiveFailures {
				d.setErr(fmt.Errorf("%s: %d consecutive capture failures: %w", d.name, failures, err))
				return
			}
			if !d.sleep(ctx) {
				return
			}
			continue
		case img == nil:
			d.skipped.Add(1)
			if !d.sleep(ctx) {
				return
			}
			continue
		}
		failures = 0

		now := time.Now()
		seq := d.record(now.Sub(start), now)
		select {
		case d.frames <- Frame{Image: img, CapturedAt: now, Sequence: seq}:
		case <-ctx.Done():
			return
		}

		select {
		case <-logTicker.C:
			d.logStats()
		default:
		}
		if !d.sleep(ctx) {
			return
		}
	}
}

func (d *pollingDevice) sleep(ctx context.Context) bool {
	if d.interval <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d.interval)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

func (d *pollingDevice) logStats() {
	stats := d.Stats()
	d.logger.Debug("capture.stats",
		"captures", stats.Captures,
		"skipped", stats.Skipped,
		"avg_capture", stats.AvgCapture,
		"age", stats.LatestFrameAge,
	)
}
