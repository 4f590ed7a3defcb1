package local_test

import (
	"context"
	"testing"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/local"
	"github.com/tadash10/wasp/server"
	wasptest "github.com/tadash10/wasp/testing"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

func TestCompliance(t *testing.T) {
	wasptest.RunComplianceSuite(t, func(t *testing.T, srv *server.Server, sender wasmtypes.ScAgentID) (wasp.Host, wasp.ReceiptWaiter) {
		h := local.NewHost(srv, sender)
		t.Cleanup(func() { _ = h.Close() })
		return h, h
	})
}

func TestHostPostsAsSender(t *testing.T) {
	h := wasptest.NewHarness(t, wasptest.ComplianceContractDef())
	alice := h.HostAs(wasptest.NewAgentID(2))
	bob := h.HostAs(wasptest.NewAgentID(3))
	if alice.Server() != h.Server() {
		t.Fatal("host does not share the harness server")
	}
	if alice.Sender() != wasptest.NewAgentID(2) {
		t.Fatalf("unexpected sender %s", alice.Sender())
	}

	req := wasmrequests.PostRequest{
		ChainID:  h.ChainID(),
		Contract: wasmtypes.NewScHname(wasptest.ComplianceContract),
		Function: wasmtypes.NewScHname(wasptest.ComplianceIncrement),
	}
	a, err := alice.PostRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("PostRequest: %v", err)
	}
	b, err := bob.PostRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("PostRequest: %v", err)
	}
	if a == b {
		t.Fatal("identical requests from different senders share an id")
	}
	if n := h.Process(); n != 2 {
		t.Fatalf("expected 2 processed requests, got %d", n)
	}
	r, err := alice.WaitRequest(context.Background(), b)
	if err != nil || r.Error != "" {
		t.Fatalf("WaitRequest: %v %s", err, r.Error)
	}
}
