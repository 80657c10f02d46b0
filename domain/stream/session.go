package stream

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Deepayan-S/FoodScanner/domain/capture"
)

// Session owns one acquired capture device for one scanning run. The device
// is released exactly once, whatever ends the run.
type Session struct {
	ID string

	device capture.Device
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	workerDone  chan struct{}
	releaseOnce sync.Once
	released    atomic.Bool

	frames   atomic.Uint64
	notFound atomic.Uint64
}

func newSession(parent context.Context, dev capture.Device, logger *slog.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()
	return &Session{
		ID:         id,
		device:     dev,
		logger:     logger.With("session", id),
		ctx:        ctx,
		cancel:     cancel,
		workerDone: make(chan struct{}),
	}
}

// Release stops frame delivery and closes the device. Later calls are no-ops.
func (s *Session) Release() {
	s.releaseOnce.Do(func() {
		s.cancel()
		if err := s.device.Close(); err != nil {
			s.logger.Warn("stream.release", "error", err)
		}
		s.released.Store(true)
		s.logger.Debug("stream.session.released", "frames", s.frames.Load(), "not_found", s.notFound.Load())
	})
}

func (s *Session) Released() bool { return s.released.Load() }

// Frames is the number of frames decoded so far.
func (s *Session) Frames() uint64 { return s.frames.Load() }
