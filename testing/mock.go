// Package wasptest provides test utilities for contract bindings and
// hosts: a configurable mock host, a harness around the reference host and
// a host compliance suite.
package wasptest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// Compile-time check that MockHost satisfies the host interfaces.
var (
	_ wasp.Host          = (*MockHost)(nil)
	_ wasp.ReceiptWaiter = (*MockHost)(nil)
)

// MockHost is a configurable mock host for client testing.
// All methods are configurable via function fields. Unconfigured
// methods return sensible zero-value defaults: posted requests get
// sequential ids, views return an empty result container and waiting
// returns an empty successful receipt.
type MockHost struct {
	mu     sync.Mutex
	posted []wasmrequests.PostRequest
	calls  []wasmrequests.CallRequest

	// Configurable handlers. If nil, defaults are used.
	PostRequestFn func(context.Context, wasmrequests.PostRequest) (wasmtypes.ScRequestID, error)
	CallViewFn    func(context.Context, wasmrequests.CallRequest) ([]byte, error)
	WaitRequestFn func(context.Context, wasmtypes.ScRequestID) (wasp.Receipt, error)

	// Call counters (atomic for concurrent access).
	PostRequestCalls atomic.Int64
	CallViewCalls    atomic.Int64
	WaitRequestCalls atomic.Int64
	CloseCalls       atomic.Int64
}

// HostCalls returns the number of PostRequest and CallView calls, i.e. the
// number of times a client reached the host.
func (m *MockHost) HostCalls() int64 {
	return m.PostRequestCalls.Load() + m.CallViewCalls.Load()
}

// Posted returns the requests seen by PostRequest, in order.
func (m *MockHost) Posted() []wasmrequests.PostRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]wasmrequests.PostRequest(nil), m.posted...)
}

// Calls returns the requests seen by CallView, in order.
func (m *MockHost) Calls() []wasmrequests.CallRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]wasmrequests.CallRequest(nil), m.calls...)
}

func (m *MockHost) PostRequest(ctx context.Context, req wasmrequests.PostRequest) (wasmtypes.ScRequestID, error) {
	n := m.PostRequestCalls.Add(1)
	m.mu.Lock()
	m.posted = append(m.posted, req)
	m.mu.Unlock()
	if m.PostRequestFn != nil {
		return m.PostRequestFn(ctx, req)
	}
	var tx [32]byte
	tx[0] = byte(n)
	tx[1] = byte(n >> 8)
	return wasmtypes.NewScRequestID(tx, 0), nil
}

func (m *MockHost) CallView(ctx context.Context, req wasmrequests.CallRequest) ([]byte, error) {
	m.CallViewCalls.Add(1)
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	if m.CallViewFn != nil {
		return m.CallViewFn(ctx, req)
	}
	return kv.NewDict().Bytes(), nil
}

func (m *MockHost) WaitRequest(ctx context.Context, id wasmtypes.ScRequestID) (wasp.Receipt, error) {
	m.WaitRequestCalls.Add(1)
	if m.WaitRequestFn != nil {
		return m.WaitRequestFn(ctx, id)
	}
	return wasp.Receipt{RequestID: id, Results: kv.NewDict().Bytes()}, nil
}

func (m *MockHost) Close() error {
	m.CloseCalls.Add(1)
	return nil
}
