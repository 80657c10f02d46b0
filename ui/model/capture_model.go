package model

import (
	"sync/atomic"
)

// LiveModel tracks whether live scanning is switched on. The zero value is
// off and usable. Key handlers and presenter ticks run on different
// goroutines, hence the atomic.
type LiveModel struct{ enabled atomic.Bool }

// Enabled reports whether live scanning is on.
func (m *LiveModel) Enabled() bool {
	if m == nil {
		return false
	}
	return m.enabled.Load()
}

// SetEnabled stores the flag and reports whether it changed.
func (m *LiveModel) SetEnabled(b bool) bool {
	if m == nil {
		return false
	}
	return m.enabled.Swap(b) != b
}
