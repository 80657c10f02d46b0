package capture

import (
	"sync/atomic"
	"time"
)

// CaptureStats summarises capture loop behaviour for instrumentation.
type CaptureStats struct {
	Captures         uint64
	Skipped          uint64
	AvgCapture       time.Duration
	AvgCaptureMicros float64
	LastCapture      time.Time
	LatestFrameAge   time.Duration
	Sequence         uint64
}

type meter struct {
	captures     atomic.Uint64
	skipped      atomic.Uint64
	captureNanos atomic.Uint64
	sequence     atomic.Uint64
	lastNanos    atomic.Int64
}

func (m *meter) record(elapsed time.Duration, at time.Time) uint64 {
	m.captureNanos.Add(uint64(elapsed.Nanoseconds()))
	m.captures.Add(1)
	m.lastNanos.Store(at.UnixNano())
	return m.sequence.Add(1)
}

func (m *meter) stats() CaptureStats {
	captures := m.captures.Load()
	total := m.captureNanos.Load()
	var avg time.Duration
	avgMicros := 0.0
	if captures > 0 && total > 0 {
		avg = time.Duration(total / captures)
		avgMicros = float64(avg) / float64(time.Microsecond)
	}
	var last time.Time
	age := time.Duration(0)
	if n := m.lastNanos.Load(); n != 0 {
		last = time.Unix(0, n)
		age = time.Since(last)
	}
	return CaptureStats{
		Captures:         captures,
		Skipped:          m.skipped.Load(),
		AvgCapture:       avg,
		AvgCaptureMicros: avgMicros,
		LastCapture:      last,
		LatestFrameAge:   age,
		Sequence:         m.sequence.Load(),
	}
}
