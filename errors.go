package wasp

import (
	"errors"
	"fmt"

	"github.com/tadash10/wasp/wasmtypes"
)

var (
	// ErrUnknownContract is returned when no contract is deployed under
	// the requested hname.
	ErrUnknownContract = errors.New("wasp: unknown contract")

	// ErrUnknownFunction is returned when the contract has no function or
	// view under the requested hname.
	ErrUnknownFunction = errors.New("wasp: unknown function")

	// ErrUnknownRequest is returned when waiting on a request id the host
	// never accepted.
	ErrUnknownRequest = errors.New("wasp: unknown request")

	// ErrWrongChain is returned when a request targets a chain the host
	// does not serve.
	ErrWrongChain = errors.New("wasp: request for another chain")
)

// RequestError reports that the host executed a request or view and the
// contract code failed it.
//
// State changes of a failed request are discarded by the host.
type RequestError struct {
	Contract wasmtypes.ScHname
	Function wasmtypes.ScHname
	Reason   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request %s::%s failed: %s", e.Contract, e.Function, e.Reason)
}

// NewRequestError creates a new RequestError.
func NewRequestError(contract, function wasmtypes.ScHname, reason string) *RequestError {
	return &RequestError{Contract: contract, Function: function, Reason: reason}
}

// IsRequestError checks whether an error is a RequestError and returns it.
func IsRequestError(err error) (*RequestError, bool) {
	var r *RequestError
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
