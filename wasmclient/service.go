// Package wasmclient builds typed contract calls on top of a wasp.Host.
//
// A contract binding is a [Service] plus one declarative [EntryPoint] per
// function or view. Calls are built with [NewFunc] or [NewView]; their
// parameters are set through the typed params struct or the raw
// [Arguments], then the call is posted or executed once.
package wasmclient

import (
	"context"
	"fmt"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// Service binds a host, a chain and a contract.
type Service struct {
	host    wasp.Host
	chainID wasmtypes.ScChainID
	name    string
	hname   wasmtypes.ScHname
}

// NewService returns the service of the named contract. The contract hname
// is computed once here.
func NewService(host wasp.Host, chainID wasmtypes.ScChainID, contract string) *Service {
	return &Service{
		host:    host,
		chainID: chainID,
		name:    contract,
		hname:   wasmtypes.NewScHname(contract),
	}
}

func (s *Service) Host() wasp.Host { return s.host }
func (s *Service) ChainID() wasmtypes.ScChainID { return s.chainID }
func (s *Service) Name() string { return s.name }
func (s *Service) Hname() wasmtypes.ScHname { return s.hname }

// EntryPoint describes one function or view of a contract: its name and
// selector, the argument keys that must be set before dispatch, and how to
// bind the typed params and results structs.
//
// Either binder may be nil when the entry point has no params or results.
type EntryPoint[P, R any] struct {
	Name      string
	Hname     wasmtypes.ScHname
	Mandatory []string
	Params    func(args *Arguments) P
	Results   func(res *Results) R
}

// NewEntryPoint returns an entry point with the hname computed from name.
func NewEntryPoint[P, R any](name string, mandatory []string, params func(*Arguments) P, results func(*Results) R) EntryPoint[P, R] {
	return EntryPoint[P, R]{
		Name:      name,
		Hname:     wasmtypes.NewScHname(name),
		Mandatory: mandatory,
		Params:    params,
		Results:   results,
	}
}

func (ep EntryPoint[P, R]) validate(args *Arguments) error {
	for _, key := range ep.Mandatory {
		if err := args.Mandatory(key); err != nil {
			return fmt.Errorf("%s: %w", ep.Name, err)
		}
	}
	return nil
}

func (ep EntryPoint[P, R]) bindParams(args *Arguments) (p P) {
	if ep.Params != nil {
		p = ep.Params(args)
	}
	return p
}

func (ep EntryPoint[P, R]) bindResults(res *Results) (r R) {
	if ep.Results != nil {
		r = ep.Results(res)
	}
	return r
}

// ----------------------------------------------------------------------------
// Func

// Func is one posted call of a state-mutating function.
//
// It moves from Built to Dispatched when the host accepts the request and
// from Dispatched to Resolved when the request's receipt is applied. A Func
// is dispatched at most once.
type Func[P, R any] struct {
	svc       *Service
	ep        EntryPoint[P, R]
	args      *Arguments
	params    P
	guard     callGuard
	allowance wasmtypes.ScAssets
	transfer  wasmtypes.ScAssets
	delay     uint32
	id        wasmtypes.ScRequestID
	results   *Results
}

func NewFunc[P, R any](svc *Service, ep EntryPoint[P, R]) *Func[P, R] {
	args := NewArguments()
	return &Func[P, R]{svc: svc, ep: ep, args: args, params: ep.bindParams(args)}
}

// Params returns the typed parameters.
func (f *Func[P, R]) Params() P { return f.params }

// Args returns the raw argument container.
func (f *Func[P, R]) Args() *Arguments { return f.args }

// Allowance sets the caller assets the function may take.
func (f *Func[P, R]) Allowance(assets wasmtypes.ScAssets) *Func[P, R] {
	f.allowance = assets.Clone()
	return f
}

// Transfer sets the assets deposited along with the request.
func (f *Func[P, R]) Transfer(assets wasmtypes.ScAssets) *Func[P, R] {
	f.transfer = assets.Clone()
	return f
}

// Delay postpones processing of the request by the given seconds.
func (f *Func[P, R]) Delay(seconds uint32) *Func[P, R] {
	f.delay = seconds
	return f
}

// State returns the name of the call state.
func (f *Func[P, R]) State() string { return f.guard.current().String() }

// Request returns the request that Post hands to the host.
func (f *Func[P, R]) Request() wasmrequests.PostRequest {
	return wasmrequests.PostRequest{
		Allowance: f.allowance.Bytes(),
		ChainID:   f.svc.chainID,
		Contract:  f.svc.hname,
		Delay:     f.delay,
		Function:  f.ep.Hname,
		Params:    f.args.Bytes(),
		Transfer:  f.transfer.Bytes(),
	}
}

// Post validates the mandatory arguments and hands the request to the host.
// It returns as soon as the host accepted the request. When validation
// fails the host is not contacted.
func (f *Func[P, R]) Post(ctx context.Context) (wasmtypes.ScRequestID, error) {
	if err := f.ep.validate(f.args); err != nil {
		return wasmtypes.ScRequestID{}, err
	}
	if err := f.guard.acquireDispatch(); err != nil {
		return wasmtypes.ScRequestID{}, err
	}
	id, err := f.svc.host.PostRequest(ctx, f.Request())
	if err != nil {
		f.guard.failDispatch()
		return wasmtypes.ScRequestID{}, fmt.Errorf("post %s.%s: %w", f.svc.name, f.ep.Name, err)
	}
	f.id = id
	f.guard.completeDispatch()
	return id, nil
}

// RequestID returns the id assigned by the host. It is zero before Post.
func (f *Func[P, R]) RequestID() wasmtypes.ScRequestID { return f.id }

// Resolve applies the receipt of the posted request and returns the typed
// results. A failed request resolves the call and returns its
// *wasp.RequestError.
func (f *Func[P, R]) Resolve(receipt wasp.Receipt) (R, error) {
	var zero R
	if s := f.guard.current(); s != stateDispatched && s != stateResolved {
		return zero, fmt.Errorf("%w: state %s", ErrNotDispatched, s)
	}
	if receipt.RequestID != f.id {
		return zero, fmt.Errorf("%w: %s", ErrReceiptMismatch, receipt.RequestID)
	}
	if err := f.guard.resolve(); err != nil {
		return zero, err
	}
	if err := receipt.Err(); err != nil {
		return zero, err
	}
	res, err := NewResultsFromBytes(receipt.Results)
	if err != nil {
		return zero, err
	}
	f.results = res
	return f.ep.bindResults(res), nil
}

// Wait blocks on waiter until the request is processed and resolves it.
func (f *Func[P, R]) Wait(ctx context.Context, waiter wasp.ReceiptWaiter) (R, error) {
	var zero R
	if f.guard.current() != stateDispatched {
		return zero, fmt.Errorf("%w: state %s", ErrNotDispatched, f.guard.current())
	}
	receipt, err := waiter.WaitRequest(ctx, f.id)
	if err != nil {
		return zero, err
	}
	return f.Resolve(receipt)
}

// Results returns the raw results after a successful Resolve, or nil.
func (f *Func[P, R]) Results() *Results { return f.results }

// ----------------------------------------------------------------------------
// View

// View is one synchronous call of a read-only view. It moves from Built
// straight to Resolved and is called at most once.
type View[P, R any] struct {
	svc     *Service
	ep      EntryPoint[P, R]
	args    *Arguments
	params  P
	guard   callGuard
	results *Results
}

func NewView[P, R any](svc *Service, ep EntryPoint[P, R]) *View[P, R] {
	args := NewArguments()
	return &View[P, R]{svc: svc, ep: ep, args: args, params: ep.bindParams(args)}
}

func (v *View[P, R]) Params() P { return v.params }

func (v *View[P, R]) Args() *Arguments { return v.args }

func (v *View[P, R]) State() string { return v.guard.current().String() }

// Request returns the request that Call hands to the host.
func (v *View[P, R]) Request() wasmrequests.CallRequest {
	return wasmrequests.CallRequest{
		Contract: v.svc.hname,
		Function: v.ep.Hname,
		Params:   v.args.Bytes(),
		Transfer: []byte{},
	}
}

// Call validates the mandatory arguments, executes the view on the host and
// returns the typed results. It blocks until the host answers or ctx is
// done. When validation fails the host is not contacted.
func (v *View[P, R]) Call(ctx context.Context) (R, error) {
	var zero R
	if err := v.ep.validate(v.args); err != nil {
		return zero, err
	}
	if err := v.guard.acquireDispatch(); err != nil {
		return zero, err
	}
	buf, err := v.svc.host.CallView(ctx, v.Request())
	if err != nil {
		v.guard.failDispatch()
		return zero, fmt.Errorf("call %s.%s: %w", v.svc.name, v.ep.Name, err)
	}
	res, err := NewResultsFromBytes(buf)
	if err != nil {
		v.guard.failDispatch()
		return zero, err
	}
	v.results = res
	v.guard.completeCall()
	return v.ep.bindResults(res), nil
}

// Results returns the raw results after a successful Call, or nil.
func (v *View[P, R]) Results() *Results { return v.results }
