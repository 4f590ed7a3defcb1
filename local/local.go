// Package local provides an in-process wasp.Host.
//
// For clients compiled into the same binary as the reference host, this
// adapter hands requests straight to a server.Server with no transport
// and no serialization beyond the request encodings themselves.
package local

import (
	"context"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/server"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// Compile-time interface checks.
var (
	_ wasp.Host          = (*Host)(nil)
	_ wasp.ReceiptWaiter = (*Host)(nil)
)

// Host posts requests to a local server on behalf of one sender.
type Host struct {
	srv    *server.Server
	sender wasmtypes.ScAgentID
}

// NewHost creates an in-process host that posts as sender.
func NewHost(srv *server.Server, sender wasmtypes.ScAgentID) *Host {
	return &Host{srv: srv, sender: sender}
}

func (h *Host) PostRequest(ctx context.Context, req wasmrequests.PostRequest) (wasmtypes.ScRequestID, error) {
	return h.srv.PostRequest(ctx, h.sender, req)
}

func (h *Host) CallView(ctx context.Context, req wasmrequests.CallRequest) ([]byte, error) {
	return h.srv.CallView(ctx, req)
}

func (h *Host) WaitRequest(ctx context.Context, id wasmtypes.ScRequestID) (wasp.Receipt, error) {
	return h.srv.WaitRequest(ctx, id)
}

// Sender returns the agent the host posts as.
func (h *Host) Sender() wasmtypes.ScAgentID { return h.sender }

// Close is a no-op; the server outlives its hosts.
func (h *Host) Close() error { return nil }

// Server returns the underlying server for advanced use cases.
func (h *Host) Server() *server.Server {
	return h.srv
}
