package wasmclient

import (
	"fmt"
	"sync/atomic"
)

// callState is a state of the per-call state machine.
type callState uint32

const (
	// stateBuilt: arguments are being set. Post or Call allowed.
	stateBuilt callState = iota
	// stateDispatching: the request is being handed to the host.
	stateDispatching
	// stateDispatched: the host accepted a posted request. Resolve is
	// the only valid next step.
	stateDispatched
	// stateResolved: results are available. Terminal.
	stateResolved
)

func (s callState) String() string {
	switch s {
	case stateBuilt:
		return "Built"
	case stateDispatching:
		return "Dispatching"
	case stateDispatched:
		return "Dispatched"
	case stateResolved:
		return "Resolved"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// callGuard enforces Built → Dispatched → Resolved for posted calls and
// Built → Resolved for views. A failed hand-off rolls back to Built.
type callGuard struct {
	state atomic.Uint32
}

func (g *callGuard) current() callState {
	return callState(g.state.Load())
}

// acquireDispatch transitions Built → Dispatching.
func (g *callGuard) acquireDispatch() error {
	if !g.state.CompareAndSwap(uint32(stateBuilt), uint32(stateDispatching)) {
		return fmt.Errorf("%w: state %s", ErrAlreadyDispatched, g.current())
	}
	return nil
}

// completeDispatch transitions Dispatching → Dispatched.
func (g *callGuard) completeDispatch() {
	g.state.Store(uint32(stateDispatched))
}

// completeCall transitions Dispatching → Resolved for a view.
func (g *callGuard) completeCall() {
	g.state.Store(uint32(stateResolved))
}

// failDispatch transitions Dispatching → Built so the call can be retried.
func (g *callGuard) failDispatch() {
	g.state.Store(uint32(stateBuilt))
}

// resolve transitions Dispatched → Resolved.
func (g *callGuard) resolve() error {
	if g.state.CompareAndSwap(uint32(stateDispatched), uint32(stateResolved)) {
		return nil
	}
	if s := g.current(); s == stateResolved {
		return fmt.Errorf("%w: already resolved", ErrAlreadyDispatched)
	}
	return fmt.Errorf("%w: state %s", ErrNotDispatched, g.current())
}
