package stream

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
	"github.com/Deepayan-S/FoodScanner/domain/capture"
)

var errSourceEnded = errors.New("frame source ended")

// Machine runs live scanning: Idle -> Capturing -> (Found | Error) -> Idle.
// All transitions happen on one event-loop goroutine; each session has a
// single frame worker that decodes frames one at a time.
type Machine struct {
	logger   *slog.Logger
	factory  capture.Factory
	backend  barcode.Backend
	handlers Handlers

	state  atomic.Int32
	events chan any
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once

	baseCtx    context.Context
	baseCancel context.CancelFunc

	// loop-owned
	session   *Session
	listeners []StateListener

	mu         sync.Mutex
	lastResult barcode.Result
	lastErr    error
	sessionID  string
}

// NewMachine constructs and starts the event loop.
func NewMachine(factory capture.Factory, backend barcode.Backend, handlers Handlers, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Machine{
		logger:     logger,
		factory:    factory,
		backend:    backend,
		handlers:   handlers,
		events:     make(chan any, 64),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		baseCtx:    ctx,
		baseCancel: cancel,
	}
	go func() {
		defer close(m.done)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("stream.panic", "error", r, "stack", string(debug.Stack()))
				m.release()
			}
		}()
		m.loop()
	}()
	return m
}

// events
type (
	evtStart       struct{}
	evtCancel      struct{}
	evtScanAgain   struct{}
	evtAddListener struct{ l StateListener }
	evtOutcome     struct {
		sessionID string
		out       barcode.Outcome
	}
	evtSourceEnded struct {
		sessionID string
		err       error
	}
)

func (m *Machine) loop() {
	for {
		select {
		case <-m.quit:
			m.release()
			return
		case ev := <-m.events:
			m.handle(ev)
		}
	}
}

func (m *Machine) handle(ev any) {
	switch e := ev.(type) {
	case evtAddListener:
		m.listeners = append(m.listeners, e.l)
	case evtStart:
		if m.Current() == StateIdle {
			m.start()
		}
	case evtScanAgain:
		switch m.Current() {
		case StateFound, StateError:
			m.transition(StateIdle)
			m.start()
		case StateIdle:
			m.start()
		}
	case evtCancel:
		switch m.Current() {
		case StateCapturing:
			m.release()
			m.transition(StateIdle)
		case StateFound, StateError:
			m.transition(StateIdle)
		}
	case evtOutcome:
		if !m.current(e.sessionID) {
			m.logger.Debug("stream.late_result", "session", e.sessionID)
			return
		}
		sess := m.session
		<-sess.workerDone
		m.release()
		if e.out.IsFound() {
			m.setLast(e.out.Result, nil)
			m.transition(StateFound)
			m.dispatchFound(sess.ID, e.out.Result)
			return
		}
		err := e.out.Error()
		m.setLast(barcode.Result{}, err)
		m.transition(StateError)
		m.dispatchError(sess.ID, err)
	case evtSourceEnded:
		if !m.current(e.sessionID) {
			return
		}
		id := m.session.ID
		m.release()
		cause := e.err
		if cause == nil || errors.Is(cause, capture.ErrEndOfStream) {
			cause = errSourceEnded
		}
		err := barcode.ErrCaptureUnavailable.Wrap(cause)
		m.setLast(barcode.Result{}, err)
		m.transition(StateError)
		m.dispatchError(id, err)
	}
}

func (m *Machine) current(id string) bool {
	return m.session != nil && m.session.ID == id && m.Current() == StateCapturing
}

func (m *Machine) start() {
	dev, err := m.factory(m.baseCtx)
	if err != nil {
		if dev != nil {
			_ = dev.Close()
		}
		if !errors.Is(err, barcode.ErrCaptureUnavailable) {
			err = barcode.ErrCaptureUnavailable.Wrap(err)
		}
		m.logger.Error("stream.acquire", "error", err)
		m.setLast(barcode.Result{}, err)
		m.transition(StateError)
		m.dispatchError("", err)
		return
	}
	sess := newSession(m.baseCtx, dev, m.logger)
	m.session = sess
	m.mu.Lock()
	m.sessionID = sess.ID
	m.mu.Unlock()
	m.transition(StateCapturing)
	go m.work(sess)
}

// work decodes frames sequentially until a decisive outcome, the end of the
// source or session cancellation.
func (m *Machine) work(sess *Session) {
	defer close(sess.workerDone)
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("stream.worker_panic", "session", sess.ID, "error", r, "stack", string(debug.Stack()))
			err := barcode.ErrDecodeFatal.WithMessagef("backend panic: %v", r)
			m.send(evtOutcome{sessionID: sess.ID, out: barcode.Fatal(err)})
		}
	}()
	for {
		select {
		case <-sess.ctx.Done():
			return
		case f, ok := <-sess.device.Frames():
			if !ok {
				m.send(evtSourceEnded{sessionID: sess.ID, err: sess.device.Err()})
				return
			}
			if f.Image == nil {
				continue
			}
			sess.frames.Add(1)
			out := m.backend.AttemptDecode(sess.ctx, barcode.NewSource(f.Image))
			if sess.ctx.Err() != nil {
				// cancelled mid-decode; the result belongs to a dead session
				return
			}
			if out.IsNotFound() {
				sess.notFound.Add(1)
				m.logger.Debug("stream.frame", "session", sess.ID, "seq", f.Sequence, "outcome", out.Kind.String())
				continue
			}
			m.send(evtOutcome{sessionID: sess.ID, out: out})
			return
		}
	}
}

// release tears down the current session, if any.
func (m *Machine) release() {
	if m.session == nil {
		return
	}
	m.session.Release()
	m.session = nil
}

func (m *Machine) transition(next State) {
	prev := m.Current()
	if prev == next {
		return
	}
	m.state.Store(int32(next))
	m.logger.Info("stream.transition", "from", prev.String(), "to", next.String())
	for _, l := range m.listeners {
		l(prev, next)
	}
}

func (m *Machine) dispatchFound(id string, res barcode.Result) {
	if m.handlers.OnFound == nil {
		return
	}
	go func() {
		defer recoverLog(m.logger, "stream.found_handler_panic")
		m.handlers.OnFound(m.baseCtx, id, res)
	}()
}

func (m *Machine) dispatchError(id string, err error) {
	if m.handlers.OnError == nil {
		return
	}
	go func() {
		defer recoverLog(m.logger, "stream.error_handler_panic")
		m.handlers.OnError(m.baseCtx, id, err)
	}()
}

func (m *Machine) setLast(res barcode.Result, err error) {
	m.mu.Lock()
	m.lastResult, m.lastErr = res, err
	m.mu.Unlock()
}

func (m *Machine) send(ev any) {
	select {
	case m.events <- ev:
	case <-m.quit:
	}
}

// Public API
func (m *Machine) AddListener(l StateListener) { m.send(evtAddListener{l: l}) }
func (m *Machine) Current() State              { return State(m.state.Load()) }
func (m *Machine) Start()                      { m.send(evtStart{}) }
func (m *Machine) Cancel()                     { m.send(evtCancel{}) }
func (m *Machine) ScanAgain()                  { m.send(evtScanAgain{}) }

// LastResult returns the most recent decoded barcode.
func (m *Machine) LastResult() (barcode.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastResult, m.lastResult.Text != ""
}

// LastError returns the error behind the latest Error state.
func (m *Machine) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// SessionID is the id of the most recently started session.
func (m *Machine) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Close releases any session and stops the loop. It waits for the loop to
// exit and cancels the context handed to handlers.
func (m *Machine) Close() {
	m.once.Do(func() {
		close(m.quit)
		<-m.done
		m.baseCancel()
	})
}

// Done is closed once the event loop has exited.
func (m *Machine) Done() <-chan struct{} { return m.done }

func recoverLog(logger *slog.Logger, msg string) {
	if r := recover(); r != nil {
		if logger != nil {
			logger.Error(msg, "error", r)
		}
	}
}

// Ensure contract satisfaction
var _ MachineContract = (*Machine)(nil)
