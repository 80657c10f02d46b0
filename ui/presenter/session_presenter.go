package presenter

import (
	"time"

	"github.com/Deepayan-S/FoodScanner/domain/stream"
	"github.com/Deepayan-S/FoodScanner/ui/model"
)

// SessionView displays session timing and tallies.
type SessionView interface {
	SetSession(session, total time.Duration, found, failed int)
}

// SessionPresenter formats session durations and counts from the model.
type SessionPresenter struct {
	sess *model.SessionModel
	src  stream.StateSource
	view SessionView
	last stream.State
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, src stream.StateSource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, src: src, view: view}
}

// Tick advances the model from the machine state and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.src == nil || p.view == nil {
		return
	}
	cur := p.src.Current()
	p.sess.OnTick(cur == stream.StateCapturing, now)
	if cur != p.last {
		switch cur {
		case stream.StateFound:
			p.sess.Record(true)
		case stream.StateError:
			p.sess.Record(false)
		}
		p.last = cur
	}
	s, t := p.sess.Values()
	found, failed := p.sess.Counts()
	p.view.SetSession(s, t, found, failed)
}
