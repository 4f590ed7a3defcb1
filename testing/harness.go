package wasptest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/local"
	"github.com/tadash10/wasp/server"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// WaitTimeout bounds every wait performed by the harness.
var WaitTimeout = 5 * time.Second

// Harness provides a convenient test harness for contract developers: a
// reference server with the given contracts deployed and an in-process
// host that posts as DefaultSender.
type Harness struct {
	t    testing.TB
	srv  *server.Server
	host *harnessHost
}

// NewHarness creates a server for DefaultChainID and registers every
// contract under its own name.
func NewHarness(t testing.TB, contracts ...server.Contract) *Harness {
	t.Helper()
	srv, err := server.New(DefaultChainID())
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	for _, c := range contracts {
		if _, err := srv.Register(context.Background(), c); err != nil {
			t.Fatalf("Register(%s) failed: %v", c.Name, err)
		}
	}
	h := &Harness{t: t, srv: srv}
	h.host = &harnessHost{Host: local.NewHost(srv, DefaultSender()), h: h}
	return h
}

// Server returns the underlying server for direct access.
func (h *Harness) Server() *server.Server {
	return h.srv
}

func (h *Harness) ChainID() wasmtypes.ScChainID {
	return h.srv.ChainID()
}

// Host returns an in-process host posting as DefaultSender. Its
// WaitRequest executes pending requests before waiting, so typed calls can
// be resolved without a processing loop.
func (h *Harness) Host() wasp.Host {
	return h.host
}

// Waiter returns the receipt waiter paired with Host.
func (h *Harness) Waiter() wasp.ReceiptWaiter {
	return h.host
}

// HostAs returns a host posting as sender, sharing the harness server.
func (h *Harness) HostAs(sender wasmtypes.ScAgentID) *local.Host {
	return local.NewHost(h.srv, sender)
}

// Process executes every pending request and returns how many ran.
func (h *Harness) Process() int {
	h.t.Helper()
	n, err := h.srv.ProcessPending(context.Background())
	if err != nil {
		h.t.Fatalf("ProcessPending failed: %v", err)
	}
	return n
}

// Post posts a request for the harness chain on behalf of DefaultSender.
func (h *Harness) Post(contract, function wasmtypes.ScHname, params kv.Dict) wasmtypes.ScRequestID {
	h.t.Helper()
	if params == nil {
		params = kv.NewDict()
	}
	id, err := h.srv.PostRequest(context.Background(), DefaultSender(), wasmrequests.PostRequest{
		ChainID:  h.ChainID(),
		Contract: contract,
		Function: function,
		Params:   params.Bytes(),
	})
	if err != nil {
		h.t.Fatalf("PostRequest failed: %v", err)
	}
	return id
}

// Wait processes pending requests and returns the receipt of id.
func (h *Harness) Wait(id wasmtypes.ScRequestID) wasp.Receipt {
	h.t.Helper()
	h.Process()
	ctx, cancel := context.WithTimeout(context.Background(), WaitTimeout)
	defer cancel()
	r, err := h.srv.WaitRequest(ctx, id)
	if err != nil {
		h.t.Fatalf("WaitRequest(%s) failed: %v", id, err)
	}
	return r
}

// MustSucceed waits for id and asserts that the request succeeded. It
// returns the decoded results.
func (h *Harness) MustSucceed(id wasmtypes.ScRequestID) kv.Dict {
	h.t.Helper()
	r := h.Wait(id)
	if r.Error != "" {
		h.t.Fatalf("request %s failed: %s", id, r.Error)
	}
	res, err := kv.DictFromBytes(r.Results)
	if err != nil {
		h.t.Fatalf("request %s results: %v", id, err)
	}
	return res
}

// MustFail waits for id and asserts that the request failed with a reason
// containing substr.
func (h *Harness) MustFail(id wasmtypes.ScRequestID, substr string) {
	h.t.Helper()
	r := h.Wait(id)
	if r.Error == "" {
		h.t.Fatalf("expected request %s to fail", id)
	}
	if !strings.Contains(r.Error, substr) {
		h.t.Fatalf("request %s failed with %q, want %q", id, r.Error, substr)
	}
}

// CallView calls a view and returns the decoded results.
func (h *Harness) CallView(contract, function wasmtypes.ScHname, params kv.Dict) kv.Dict {
	h.t.Helper()
	if params == nil {
		params = kv.NewDict()
	}
	buf, err := h.srv.CallView(context.Background(), wasmrequests.CallRequest{
		Contract: contract,
		Function: function,
		Params:   params.Bytes(),
	})
	if err != nil {
		h.t.Fatalf("CallView failed: %v", err)
	}
	res, err := kv.DictFromBytes(buf)
	if err != nil {
		h.t.Fatalf("CallView results: %v", err)
	}
	return res
}

type harnessHost struct {
	*local.Host
	h *Harness
}

func (a *harnessHost) WaitRequest(ctx context.Context, id wasmtypes.ScRequestID) (wasp.Receipt, error) {
	if _, err := a.h.srv.ProcessPending(ctx); err != nil {
		return wasp.Receipt{}, err
	}
	return a.Host.WaitRequest(ctx, id)
}

// --- Helper Factories ---

// DefaultChainID returns the chain id used by the harness.
func DefaultChainID() wasmtypes.ScChainID {
	var id wasmtypes.ScChainID
	copy(id[:], "wasptest-chain")
	return id
}

// DefaultSender returns the agent the harness posts as.
func DefaultSender() wasmtypes.ScAgentID {
	return NewAgentID(1)
}

// NewAgentID returns a distinct ed25519 address agent for each n.
func NewAgentID(n byte) wasmtypes.ScAgentID {
	var digest [32]byte
	digest[0] = n
	return wasmtypes.NewScAddress(wasmtypes.ScAddressEd25519, digest).AsAgentID()
}
