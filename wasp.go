// Package wasp defines the boundary between contract clients and the host
// that executes contract requests.
//
// A client talks to a [Host]: posting requests hands a message to the host
// and returns a request id immediately, view calls block until the host
// returns the encoded results. Learning the outcome of a posted request is
// a separate concern served by a [ReceiptWaiter].
//
// The wire formats of requests, results and identifiers live in the
// wasmtypes and wasmrequests packages. The wasmclient package builds typed
// calls on top of a Host.
package wasp

import (
	"context"

	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// Host accepts requests for contracts on one chain.
//
// Implementations must be safe for concurrent use. In-process and gRPC
// transports both implement Host.
type Host interface {
	// PostRequest hands a request to the host. It returns once the host
	// has accepted the request and never waits for it to execute. Two
	// posted requests are not guaranteed to execute in posting order.
	PostRequest(ctx context.Context, req wasmrequests.PostRequest) (wasmtypes.ScRequestID, error)

	// CallView executes a view against current state and returns the
	// encoded result container. A view never mutates state.
	CallView(ctx context.Context, req wasmrequests.CallRequest) ([]byte, error)

	// Close releases the transport. Requests already accepted by the
	// host are unaffected.
	Close() error
}

// ReceiptWaiter resolves posted requests to their outcome.
type ReceiptWaiter interface {
	// WaitRequest blocks until the request has been processed or ctx is
	// done.
	WaitRequest(ctx context.Context, id wasmtypes.ScRequestID) (Receipt, error)
}

// Receipt is the outcome of one processed request.
type Receipt struct {
	RequestID wasmtypes.ScRequestID
	Contract  wasmtypes.ScHname
	Function  wasmtypes.ScHname
	// Error is empty when the request succeeded.
	Error string
	// Results is the encoded result container of the function.
	Results []byte
	// Events are the events emitted by the request, in emission order.
	Events []string
}

// Err returns the failure carried by the receipt as a *RequestError, or
// nil for a successful request.
func (r Receipt) Err() error {
	if r.Error == "" {
		return nil
	}
	return NewRequestError(r.Contract, r.Function, r.Error)
}
