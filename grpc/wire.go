package waspgrpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/wasmtypes"
)

// PostRequestMsg carries an encoded wasmrequests.PostRequest and the agent
// posting it.
type PostRequestMsg struct {
	Sender  []byte `cramberry:"1"`
	Request []byte `cramberry:"2"`
}

type PostRequestReply struct {
	RequestID []byte     `cramberry:"1"`
	Error     *WireError `cramberry:"2"`
}

// CallViewMsg carries an encoded wasmrequests.CallRequest.
type CallViewMsg struct {
	Request []byte `cramberry:"1"`
}

type CallViewReply struct {
	Results []byte     `cramberry:"1"`
	Error   *WireError `cramberry:"2"`
}

type WaitRequestMsg struct {
	RequestID []byte `cramberry:"1"`
}

type WaitRequestReply struct {
	Receipt *ReceiptMsg `cramberry:"1"`
	Error   *WireError  `cramberry:"2"`
}

// ReceiptMsg is the wire form of wasp.Receipt.
type ReceiptMsg struct {
	RequestID []byte   `cramberry:"1"`
	Contract  uint32   `cramberry:"2"`
	Function  uint32   `cramberry:"3"`
	Error     string   `cramberry:"4"`
	Results   []byte   `cramberry:"5"`
	Events    [][]byte `cramberry:"6"`
}

func receiptToWire(r wasp.Receipt) *ReceiptMsg {
	events := make([][]byte, len(r.Events))
	for i, e := range r.Events {
		events[i] = []byte(e)
	}
	return &ReceiptMsg{
		RequestID: wasmtypes.RequestIDToBytes(r.RequestID),
		Contract:  uint32(r.Contract),
		Function:  uint32(r.Function),
		Error:     r.Error,
		Results:   r.Results,
		Events:    events,
	}
}

func receiptFromWire(m *ReceiptMsg) (wasp.Receipt, error) {
	id, err := wasmtypes.RequestIDFromBytes(m.RequestID)
	if err != nil {
		return wasp.Receipt{}, fmt.Errorf("receipt: %w", err)
	}
	var events []string
	for _, e := range m.Events {
		events = append(events, string(e))
	}
	return wasp.Receipt{
		RequestID: id,
		Contract:  wasmtypes.ScHname(m.Contract),
		Function:  wasmtypes.ScHname(m.Function),
		Error:     m.Error,
		Results:   m.Results,
		Events:    events,
	}, nil
}

// Error kinds carried by WireError.
const (
	ErrKindInternal uint32 = iota
	ErrKindRequest
	ErrKindUnknownContract
	ErrKindUnknownFunction
	ErrKindUnknownRequest
	ErrKindWrongChain
	ErrKindCanceled
	ErrKindDeadlineExceeded
)

// WireError is a host failure in transit.
type WireError struct {
	Kind     uint32 `cramberry:"1"`
	Contract uint32 `cramberry:"2"`
	Function uint32 `cramberry:"3"`
	Reason   string `cramberry:"4"`
}

var sentinels = []struct {
	kind uint32
	err  error
}{
	{ErrKindUnknownContract, wasp.ErrUnknownContract},
	{ErrKindUnknownFunction, wasp.ErrUnknownFunction},
	{ErrKindUnknownRequest, wasp.ErrUnknownRequest},
	{ErrKindWrongChain, wasp.ErrWrongChain},
	{ErrKindCanceled, context.Canceled},
	{ErrKindDeadlineExceeded, context.DeadlineExceeded},
}

func errorToWire(err error) *WireError {
	if err == nil {
		return nil
	}
	if reqErr, ok := wasp.IsRequestError(err); ok {
		return &WireError{
			Kind:     ErrKindRequest,
			Contract: uint32(reqErr.Contract),
			Function: uint32(reqErr.Function),
			Reason:   reqErr.Reason,
		}
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return &WireError{Kind: s.kind, Reason: err.Error()}
		}
	}
	return &WireError{Kind: ErrKindInternal, Reason: err.Error()}
}

// remoteError keeps the host's message while matching the sentinel.
type remoteError struct {
	msg      string
	sentinel error
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.sentinel }

func errorFromWire(w *WireError) error {
	if w == nil {
		return nil
	}
	if w.Kind == ErrKindRequest {
		return wasp.NewRequestError(wasmtypes.ScHname(w.Contract), wasmtypes.ScHname(w.Function), w.Reason)
	}
	for _, s := range sentinels {
		if s.kind == w.Kind {
			return &remoteError{msg: w.Reason, sentinel: s.err}
		}
	}
	return fmt.Errorf("wasp host: %s", w.Reason)
}
