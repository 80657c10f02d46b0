package stream

import (
	"context"

	"github.com/Deepayan-S/FoodScanner/domain/barcode"
)

// State enumerates the live scanning states.
type State int32

const (
	StateIdle State = iota
	StateCapturing
	StateFound
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateFound:
		return "found"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// StateListener is called on the event loop after each transition.
type StateListener func(prev, next State)

// Handlers receive terminal outcomes. They run on their own goroutine after
// the session's device has been released.
type Handlers struct {
	OnFound func(ctx context.Context, sessionID string, res barcode.Result)
	OnError func(ctx context.Context, sessionID string, err error)
}

// Interface slices for consumers.
type StateSource interface{ Current() State }
type Lifecycle interface {
	Start()
	Cancel()
	ScanAgain()
	Close()
}

// MachineContract aggregate for DI.
type MachineContract interface {
	StateSource
	Lifecycle
	AddListener(StateListener)
}
