package model

import (
	"time"
)

// SessionModel tracks time spent capturing and how live sessions ended.
// It is decoupled from the terminal; presenters poll Values() and Counts().
// The zero value is ready to use. It is not safe for concurrent use.
type SessionModel struct {
	active              bool
	captureStart        time.Time
	lastSessionDuration time.Duration
	accumulated         time.Duration

	found  int
	failed int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick advances the clocks from the current capturing flag.
func (m *SessionModel) OnTick(capturing bool, now time.Time) {
	if m == nil {
		return
	}
	if capturing {
		if !m.active { // idle -> capturing
			m.active = true
			m.captureStart = now
			m.lastSessionDuration = 0
		}
		m.lastSessionDuration = now.Sub(m.captureStart)
	} else if m.active { // capturing -> done
		m.lastSessionDuration = now.Sub(m.captureStart)
		m.accumulated += m.lastSessionDuration
		m.active = false
	}
}

// Record counts a finished session.
func (m *SessionModel) Record(found bool) {
	if m == nil {
		return
	}
	if found {
		m.found++
	} else {
		m.failed++
	}
}

// Values returns the current session duration and the total capture time.
// The total includes the ongoing session when active.
func (m *SessionModel) Values() (session, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	session = m.lastSessionDuration
	total = m.accumulated
	if m.active {
		total += session
	}
	return
}

// Counts returns how many sessions found a barcode and how many failed.
func (m *SessionModel) Counts() (found, failed int) {
	if m == nil {
		return 0, 0
	}
	return m.found, m.failed
}
