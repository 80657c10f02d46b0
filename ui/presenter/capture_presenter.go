package presenter

import "github.com/Deepayan-S/FoodScanner/domain/stream"

// LiveModel provides enabled state access.
type LiveModel interface {
	Enabled() bool
	SetEnabled(bool) bool
}

// LiveView updates output affected by switching live scanning.
// State label updates are owned solely by StatePresenter.
type LiveView interface {
	SetHint(string)
}

const (
	hintScanning = "Scanning... press Enter to cancel."
	hintStopped  = "Press Enter to scan, q to quit."
)

// LivePresenter owns presentation logic for switching live scanning.
type LivePresenter struct {
	model LiveModel
	live  stream.Lifecycle
	view  LiveView
}

func NewLivePresenter(model LiveModel, live stream.Lifecycle, view LiveView) *LivePresenter {
	return &LivePresenter{model: model, live: live, view: view}
}

// Enable starts a session, or a fresh one after a finished session. Idempotent.
func (c *LivePresenter) Enable() {
	if c == nil || c.model == nil || c.live == nil || c.view == nil {
		return
	}
	if !c.model.SetEnabled(true) {
		return
	}
	c.live.ScanAgain()
	c.view.SetHint(hintScanning)
}

// Disable cancels the running session. Idempotent.
func (c *LivePresenter) Disable() {
	if c == nil || c.model == nil || c.live == nil || c.view == nil {
		return
	}
	if !c.model.SetEnabled(false) {
		return
	}
	c.live.Cancel()
	c.view.SetHint(hintStopped)
}

// Toggle flips enabled state delegating to Enable/Disable.
func (c *LivePresenter) Toggle() {
	if c == nil || c.model == nil {
		return
	}
	if c.model.Enabled() {
		c.Disable()
		return
	}
	c.Enable()
}

// Finished marks the session as ended by the machine itself (Found or
// Error) so the next Toggle starts a new one.
func (c *LivePresenter) Finished() {
	if c == nil || c.model == nil || c.view == nil {
		return
	}
	if c.model.SetEnabled(false) {
		c.view.SetHint(hintStopped)
	}
}
