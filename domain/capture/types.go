package capture

import (
	"context"
	"errors"
	"image"
	"time"
)

// Frame is one captured image. Image must not be modified by consumers.
type Frame struct {
	Image      image.Image
	CapturedAt time.Time
	Sequence   uint64
}

// Device is an acquired capture source. Frames is closed when the device
// stops producing, either after Close or because the source ended or failed;
// Err then reports why.
type Device interface {
	Frames() <-chan Frame
	Stats() CaptureStats
	Err() error
	Close() error
}

// Factory acquires a device. Errors wrap barcode.ErrCaptureUnavailable.
type Factory func(ctx context.Context) (Device, error)

// ErrEndOfStream is returned by a grab function when a finite source is done.
var ErrEndOfStream = errors.New("capture: end of stream")
