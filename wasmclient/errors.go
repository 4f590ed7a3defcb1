package wasmclient

import "errors"

var (
	// ErrMissingMandatoryField is returned when a mandatory argument was
	// never set, or a mandatory result is absent. A call failing this check
	// never reaches the host.
	ErrMissingMandatoryField = errors.New("wasmclient: missing mandatory field")

	// ErrAlreadyDispatched is returned when a call object is posted or
	// called a second time.
	ErrAlreadyDispatched = errors.New("wasmclient: call already dispatched")

	// ErrNotDispatched is returned when resolving a call that was never
	// posted.
	ErrNotDispatched = errors.New("wasmclient: call not dispatched")

	// ErrReceiptMismatch is returned when resolving a call with the receipt
	// of another request.
	ErrReceiptMismatch = errors.New("wasmclient: receipt belongs to another request")
)
