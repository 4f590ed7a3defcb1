package wasptest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/server"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// Names of the contract the compliance suite deploys.
const (
	ComplianceContract  = "compliance"
	ComplianceIncrement = "increment"
	ComplianceFail      = "fail"
	ComplianceCounter   = "getCounter"
	ComplianceFailView  = "failView"

	complianceKey = "counter"
)

var (
	hCompliance = wasmtypes.NewScHname(ComplianceContract)
	hIncrement  = wasmtypes.NewScHname(ComplianceIncrement)
	hFail       = wasmtypes.NewScHname(ComplianceFail)
	hCounter    = wasmtypes.NewScHname(ComplianceCounter)
	hFailView   = wasmtypes.NewScHname(ComplianceFailView)
)

// HostFactory returns a host posting as sender on srv and the waiter that
// resolves its requests. Resources are released through t.Cleanup.
type HostFactory func(t *testing.T, srv *server.Server, sender wasmtypes.ScAgentID) (wasp.Host, wasp.ReceiptWaiter)

// ComplianceContractDef returns the contract the compliance suite runs
// against: a counter with a failing func and a failing view.
func ComplianceContractDef() server.Contract {
	counter := func(p wasmtypes.Proxy) wasmtypes.ScImmutable[int64] {
		return wasmtypes.NewScImmutable(p.Root(complianceKey), wasmtypes.Int64Codec)
	}
	return server.Contract{
		Name:        ComplianceContract,
		Description: "Host compliance contract",
		Funcs: map[string]server.FuncHandler{
			ComplianceIncrement: func(ctx *server.FuncContext) error {
				n, err := counter(ctx.State()).Value()
				if err != nil {
					return err
				}
				n++
				if err := wasmtypes.NewScMutable(ctx.State().Root(complianceKey), wasmtypes.Int64Codec).SetValue(n); err != nil {
					return err
				}
				return wasmtypes.NewScMutable(ctx.Results().Root(complianceKey), wasmtypes.Int64Codec).SetValue(n)
			},
			ComplianceFail: func(ctx *server.FuncContext) error {
				if err := wasmtypes.NewScMutable(ctx.State().Root(complianceKey), wasmtypes.Int64Codec).SetValue(-1); err != nil {
					return err
				}
				return ctx.Require(false, "compliance failure")
			},
		},
		Views: map[string]server.ViewHandler{
			ComplianceCounter: func(ctx *server.ViewContext) error {
				n, err := counter(ctx.State()).Value()
				if err != nil {
					return err
				}
				return wasmtypes.NewScMutable(ctx.Results().Root(complianceKey), wasmtypes.Int64Codec).SetValue(n)
			},
			ComplianceFailView: func(ctx *server.ViewContext) error {
				return ctx.Require(false, "view failure")
			},
		},
	}
}

type complianceEnv struct {
	t      *testing.T
	srv    *server.Server
	host   wasp.Host
	waiter wasp.ReceiptWaiter
}

func newComplianceEnv(t *testing.T, factory HostFactory) *complianceEnv {
	t.Helper()
	srv, err := server.New(DefaultChainID())
	if err != nil {
		t.Fatalf("server.New failed: %v", err)
	}
	if _, err := srv.Register(context.Background(), ComplianceContractDef()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Run(ctx, 10*time.Millisecond)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	host, waiter := factory(t, srv, DefaultSender())
	return &complianceEnv{t: t, srv: srv, host: host, waiter: waiter}
}

func (e *complianceEnv) post(function wasmtypes.ScHname) wasmtypes.ScRequestID {
	e.t.Helper()
	id, err := e.host.PostRequest(context.Background(), wasmrequests.PostRequest{
		ChainID:  DefaultChainID(),
		Contract: hCompliance,
		Function: function,
		Params:   kv.NewDict().Bytes(),
	})
	if err != nil {
		e.t.Fatalf("PostRequest failed: %v", err)
	}
	return id
}

func (e *complianceEnv) wait(id wasmtypes.ScRequestID) wasp.Receipt {
	e.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), WaitTimeout)
	defer cancel()
	r, err := e.waiter.WaitRequest(ctx, id)
	if err != nil {
		e.t.Fatalf("WaitRequest(%s) failed: %v", id, err)
	}
	return r
}

func (e *complianceEnv) counter() int64 {
	e.t.Helper()
	buf, err := e.host.CallView(context.Background(), wasmrequests.CallRequest{Contract: hCompliance, Function: hCounter})
	if err != nil {
		e.t.Fatalf("CallView failed: %v", err)
	}
	res, err := kv.DictFromBytes(buf)
	if err != nil {
		e.t.Fatalf("view results: %v", err)
	}
	n, err := wasmtypes.Int64FromBytes(res[complianceKey])
	if err != nil {
		e.t.Fatalf("counter: %v", err)
	}
	return n
}

// RunComplianceSuite runs the behaviors every Host implementation must
// share against hosts produced by factory. Each subtest gets a fresh
// server with the compliance contract deployed and a processing loop.
func RunComplianceSuite(t *testing.T, factory HostFactory) {
	t.Helper()

	t.Run("post_and_wait", func(t *testing.T) {
		e := newComplianceEnv(t, factory)
		id := e.post(hIncrement)
		r := e.wait(id)
		if r.Error != "" {
			t.Fatalf("request failed: %s", r.Error)
		}
		if r.RequestID != id || r.Contract != hCompliance || r.Function != hIncrement {
			t.Errorf("receipt does not match request: %+v", r)
		}
		res, err := kv.DictFromBytes(r.Results)
		if err != nil {
			t.Fatalf("results: %v", err)
		}
		if n, _ := wasmtypes.Int64FromBytes(res[complianceKey]); n != 1 {
			t.Errorf("expected result 1, got %d", n)
		}
		if got := e.counter(); got != 1 {
			t.Errorf("expected counter 1, got %d", got)
		}
	})

	t.Run("failed_request_rolls_back", func(t *testing.T) {
		e := newComplianceEnv(t, factory)
		r := e.wait(e.post(hFail))
		reqErr, ok := wasp.IsRequestError(r.Err())
		if !ok {
			t.Fatalf("expected a request error, got %v", r.Err())
		}
		if reqErr.Function != hFail || !strings.Contains(reqErr.Reason, "compliance failure") {
			t.Errorf("unexpected request error %v", reqErr)
		}
		if got := e.counter(); got != 0 {
			t.Errorf("failed request changed state: counter %d", got)
		}
	})

	t.Run("view_failure", func(t *testing.T) {
		e := newComplianceEnv(t, factory)
		_, err := e.host.CallView(context.Background(), wasmrequests.CallRequest{Contract: hCompliance, Function: hFailView})
		reqErr, ok := wasp.IsRequestError(err)
		if !ok {
			t.Fatalf("expected a request error, got %v", err)
		}
		if reqErr.Contract != hCompliance || reqErr.Function != hFailView || !strings.Contains(reqErr.Reason, "view failure") {
			t.Errorf("unexpected request error %v", reqErr)
		}
	})

	t.Run("unknown_targets", func(t *testing.T) {
		e := newComplianceEnv(t, factory)
		_, err := e.host.CallView(context.Background(), wasmrequests.CallRequest{Contract: wasmtypes.NewScHname("nope"), Function: hCounter})
		if !errors.Is(err, wasp.ErrUnknownContract) {
			t.Errorf("expected ErrUnknownContract, got %v", err)
		}
		_, err = e.host.CallView(context.Background(), wasmrequests.CallRequest{Contract: hCompliance, Function: hIncrement})
		if !errors.Is(err, wasp.ErrUnknownFunction) {
			t.Errorf("expected ErrUnknownFunction, got %v", err)
		}
	})

	t.Run("wrong_chain", func(t *testing.T) {
		e := newComplianceEnv(t, factory)
		_, err := e.host.PostRequest(context.Background(), wasmrequests.PostRequest{
			ChainID:  wasmtypes.ScChainID{0xff},
			Contract: hCompliance,
			Function: hIncrement,
		})
		if !errors.Is(err, wasp.ErrWrongChain) {
			t.Errorf("expected ErrWrongChain, got %v", err)
		}
	})

	t.Run("wait_unknown_request", func(t *testing.T) {
		e := newComplianceEnv(t, factory)
		ctx, cancel := context.WithTimeout(context.Background(), WaitTimeout)
		defer cancel()
		_, err := e.waiter.WaitRequest(ctx, wasmtypes.ScRequestID{1})
		if !errors.Is(err, wasp.ErrUnknownRequest) {
			t.Errorf("expected ErrUnknownRequest, got %v", err)
		}
	})

	t.Run("concurrent_posts", func(t *testing.T) {
		e := newComplianceEnv(t, factory)
		const n = 10
		ids := make([]wasmtypes.ScRequestID, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, err := e.host.PostRequest(context.Background(), wasmrequests.PostRequest{
					ChainID:  DefaultChainID(),
					Contract: hCompliance,
					Function: hIncrement,
				})
				if err != nil {
					t.Errorf("concurrent PostRequest failed: %v", err)
					return
				}
				ids[i] = id
			}()
		}
		wg.Wait()

		seen := make(map[wasmtypes.ScRequestID]bool, n)
		for _, id := range ids {
			if seen[id] {
				t.Fatalf("duplicate request id %s", id)
			}
			seen[id] = true
			if r := e.wait(id); r.Error != "" {
				t.Errorf("request %s failed: %s", id, r.Error)
			}
		}
		if got := e.counter(); got != n {
			t.Errorf("expected counter %d, got %d", n, got)
		}
	})

	t.Run("concurrent_views", func(t *testing.T) {
		e := newComplianceEnv(t, factory)
		e.wait(e.post(hIncrement))

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.host.CallView(context.Background(), wasmrequests.CallRequest{Contract: hCompliance, Function: hCounter})
				if err != nil {
					t.Errorf("concurrent CallView failed: %v", err)
				}
			}()
		}
		wg.Wait()
	})
}
