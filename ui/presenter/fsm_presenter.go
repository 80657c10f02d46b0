package presenter

import (
	"sync"
	"time"

	"github.com/Deepayan-S/FoodScanner/domain/stream"
)

// StateView sets the state label in the view.
type StateView interface{ SetStateLabel(string) }

// StatePresenter receives machine transitions and reflects the latest one in
// the view on the next Tick. Transitions arrive on the machine's event loop,
// ticks on the UI loop.
type StatePresenter struct {
	src     stream.StateSource
	view    StateView
	mu      sync.Mutex
	latest  stream.State // last reflected state
	shown   bool
	pending []stream.State
}

func NewStatePresenter(src stream.StateSource, view StateView) *StatePresenter {
	return &StatePresenter{src: src, view: view}
}

// OnState is a stream.StateListener.
func (p *StatePresenter) OnState(_, next stream.State) {
	if p == nil {
		return
	}
	p.mu.Lock()
	p.pending = append(p.pending, next)
	p.mu.Unlock()
}

// Tick flushes queued transitions, showing only the most recent state.
func (p *StatePresenter) Tick(now time.Time) {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	p.mu.Lock()
	if len(p.pending) == 0 {
		p.mu.Unlock()
		return
	}
	last := p.pending[len(p.pending)-1]
	p.pending = p.pending[:0]
	p.mu.Unlock()
	if p.shown && last == p.latest {
		return
	}
	p.latest, p.shown = last, true
	p.view.SetStateLabel("State: " + last.String())
}
