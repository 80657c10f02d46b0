package capture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/vova616/screenshot"
)

// OpenScreen captures the screen, or only selection when it is non-empty.
// Useful for scanning barcodes shown by a phone mirror or a webcam preview
// window.
func OpenScreen(selection image.Rectangle, interval time.Duration, logger *slog.Logger) (Device, error) {
	screen, err := screenshot.ScreenRect()
	if err != nil {
		return nil, fmt.Errorf("screen: %w", err)
	}
	if screen.Empty() {
		return nil, fmt.Errorf("screen: invalid size %v", screen)
	}
	region := screen
	if !selection.Empty() {
		region = selection.Intersect(screen)
		if region.Empty() {
			return nil, fmt.Errorf("screen: selection out of bounds sel=%v screen=%v", selection, screen)
		}
	}
	full := region == screen
	grab := func(context.Context) (image.Image, error) {
		var (
			img *image.RGBA
			err error
		)
		if full {
			img, err = screenshot.CaptureScreen()
		} else {
			img, err = screenshot.CaptureRect(region)
		}
		if err != nil || img == nil {
			return nil, err
		}
		return img, nil
	}
	return startPolling("screen", interval, grab, logger), nil
}
