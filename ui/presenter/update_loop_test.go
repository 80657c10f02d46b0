package presenter

import (
	"testing"
	"time"

	"github.com/Deepayan-S/FoodScanner/domain/stream"
	"github.com/Deepayan-S/FoodScanner/ui/model"
)

type stateSrc struct{ s stream.State }

func (s *stateSrc) Current() stream.State { return s.s }

type labelView struct {
	labels  []string
	session time.Duration
	found   int
	failed  int
}

func (v *labelView) SetStateLabel(s string) { v.labels = append(v.labels, s) }
func (v *labelView) SetSession(session, _ time.Duration, found, failed int) {
	v.session, v.found, v.failed = session, found, failed
}

func TestStatePresenter_ShowsLatestOnly(t *testing.T) {
	src := &stateSrc{}
	v := &labelView{}
	p := NewStatePresenter(src, v)

	p.Tick(time.Now()) // nothing queued
	if len(v.labels) != 0 {
		t.Fatalf("unexpected labels %v", v.labels)
	}
	p.OnState(stream.StateIdle, stream.StateCapturing)
	p.OnState(stream.StateCapturing, stream.StateFound)
	p.Tick(time.Now())
	if len(v.labels) != 1 || v.labels[0] != "State: found" {
		t.Fatalf("expected single found label, got %v", v.labels)
	}
	p.OnState(stream.StateFound, stream.StateFound)
	p.Tick(time.Now())
	if len(v.labels) != 1 {
		t.Fatalf("repeated state must not re-render: %v", v.labels)
	}
}

func TestLoop_TicksPresenters(t *testing.T) {
	src := &stateSrc{s: stream.StateCapturing}
	v := &labelView{}
	sess := NewSessionPresenter(model.NewSessionModel(), src, v)
	state := NewStatePresenter(src, v)
	scheduled := 0
	l := NewLoop(sess, state, func() { scheduled++ })

	state.OnState(stream.StateIdle, stream.StateCapturing)
	l.Tick()
	src.s = stream.StateFound
	l.Tick()
	if scheduled != 2 {
		t.Fatalf("expected 2 schedules, got %d", scheduled)
	}
	if len(v.labels) != 1 || v.labels[0] != "State: capturing" {
		t.Fatalf("labels %v", v.labels)
	}
	if v.found != 1 || v.failed != 0 {
		t.Fatalf("expected one found session, got %d/%d", v.found, v.failed)
	}

	var nilLoop *Loop
	nilLoop.Tick()
}
