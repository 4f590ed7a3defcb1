package server

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

var (
	testChain  = wasmtypes.ScChainID{0xaa}
	testSender = wasmtypes.NewScAgentID(wasmtypes.ScChainID{0xbb}, 0)

	hCounter    = wasmtypes.NewScHname("counter")
	hIncrement  = wasmtypes.NewScHname("increment")
	hFail       = wasmtypes.NewScHname("fail")
	hPanic      = wasmtypes.NewScHname("panic")
	hSend       = wasmtypes.NewScHname("send")
	hGetCounter = wasmtypes.NewScHname("getCounter")
	hBadView    = wasmtypes.NewScHname("badView")
)

func counterValue(p wasmtypes.Proxy) wasmtypes.ScMutable[int64] {
	return wasmtypes.NewScMutable(p.Root("counter"), wasmtypes.Int64Codec)
}

func increment(ctx *FuncContext) error {
	delta, err := wasmtypes.NewScImmutable(ctx.Params().Root("delta"), wasmtypes.Int64Codec).Value()
	if err != nil {
		return err
	}
	if delta == 0 {
		delta = 1
	}
	counter := counterValue(ctx.State())
	v, err := counter.Value()
	if err != nil {
		return err
	}
	v += delta
	if err := counter.SetValue(v); err != nil {
		return err
	}
	enc := ctx.NewEventEncoder()
	wasmtypes.Int64Encode(enc, v)
	ctx.Event("counter.incremented", enc)
	return counterValue(ctx.Results()).SetValue(v)
}

func counterContract() Contract {
	return Contract{
		Name:        "counter",
		Description: "Counter test contract",
		Funcs: map[string]FuncHandler{
			"init": func(ctx *FuncContext) error {
				v, err := wasmtypes.NewScImmutable(ctx.Params().Root("counter"), wasmtypes.Int64Codec).Value()
				if err != nil {
					return err
				}
				return counterValue(ctx.State()).SetValue(v)
			},
			"increment": increment,
			"fail": func(ctx *FuncContext) error {
				if err := increment(ctx); err != nil {
					return err
				}
				return errors.New("counter refused")
			},
			"panic": func(ctx *FuncContext) error {
				panic("boom")
			},
			"send": func(ctx *FuncContext) error {
				ctx.Send(wasmrequests.SendRequest{
					Address:  ctx.Caller().Address,
					Transfer: wasmtypes.NewScTransferBaseTokens(5).Bytes(),
				})
				return nil
			},
		},
		Views: map[string]ViewHandler{
			"getCounter": func(ctx *ViewContext) error {
				v, err := wasmtypes.NewScImmutable(ctx.State().Root("counter"), wasmtypes.Int64Codec).Value()
				if err != nil {
					return err
				}
				return counterValue(ctx.Results()).SetValue(v)
			},
			"badView": func(ctx *ViewContext) error {
				return ctx.Require(false, "bad view %d", 7)
			},
		},
	}
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	s, err := New(testChain, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Register(context.Background(), counterContract()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return s
}

func post(t *testing.T, s *Server, function wasmtypes.ScHname, params kv.Dict) wasmtypes.ScRequestID {
	t.Helper()
	if params == nil {
		params = kv.NewDict()
	}
	id, err := s.PostRequest(context.Background(), testSender, wasmrequests.PostRequest{
		ChainID:  testChain,
		Contract: hCounter,
		Function: function,
		Params:   params.Bytes(),
	})
	if err != nil {
		t.Fatalf("PostRequest: %v", err)
	}
	return id
}

func process(t *testing.T, s *Server, want int) {
	t.Helper()
	n, err := s.ProcessPending(context.Background())
	if err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if n != want {
		t.Fatalf("processed %d requests, want %d", n, want)
	}
}

func getCounter(t *testing.T, s *Server) int64 {
	t.Helper()
	buf, err := s.CallView(context.Background(), wasmrequests.CallRequest{Contract: hCounter, Function: hGetCounter})
	if err != nil {
		t.Fatalf("CallView: %v", err)
	}
	res, err := kv.DictFromBytes(buf)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	v, err := wasmtypes.Int64FromBytes(res["counter"])
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	return v
}

func TestPostAndProcess(t *testing.T) {
	clock := &testClock{now: time.Unix(0, 258)}
	s := newTestServer(t, WithClock(clock.Now))

	params := kv.NewDict()
	params["delta"] = wasmtypes.Int64ToBytes(5)
	id := post(t, s, hIncrement, params)
	if s.Pending() != 1 {
		t.Fatalf("expected 1 pending request, got %d", s.Pending())
	}
	if _, ok := s.Receipt(id); ok {
		t.Fatal("receipt exists before processing")
	}
	process(t, s, 1)

	r, err := s.WaitRequest(context.Background(), id)
	if err != nil {
		t.Fatalf("WaitRequest: %v", err)
	}
	if r.Error != "" {
		t.Fatalf("request failed: %s", r.Error)
	}
	if r.RequestID != id || r.Contract != hCounter || r.Function != hIncrement {
		t.Fatalf("unexpected receipt header: %+v", r)
	}
	res, err := kv.DictFromBytes(r.Results)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if v, _ := wasmtypes.Int64FromBytes(res["counter"]); v != 5 {
		t.Fatalf("expected result 5, got %d", v)
	}

	// timestamp 258 then the new value, both little endian
	want := "counter.incremented|0x" + "0201000000000000" + "0500000000000000"
	if len(r.Events) != 1 || r.Events[0] != want {
		t.Fatalf("unexpected events %v, want %s", r.Events, want)
	}
	if got := getCounter(t, s); got != 5 {
		t.Fatalf("expected counter 5, got %d", got)
	}
}

func TestRequestIDsAreUnique(t *testing.T) {
	s := newTestServer(t)
	a := post(t, s, hIncrement, nil)
	b := post(t, s, hIncrement, nil)
	if a == b {
		t.Fatal("identical requests got the same id")
	}
	if a.OutputIndex() != 0 {
		t.Fatalf("expected output index 0, got %d", a.OutputIndex())
	}
}

func TestFailedRequestRollsBack(t *testing.T) {
	s := newTestServer(t)
	post(t, s, hIncrement, nil)
	failed := post(t, s, hFail, nil)
	panicked := post(t, s, hPanic, nil)
	process(t, s, 3)

	r, _ := s.Receipt(failed)
	if r.Error != "counter refused" {
		t.Fatalf("expected failure reason, got %q", r.Error)
	}
	if len(r.Events) != 0 || r.Results != nil {
		t.Fatalf("failed request kept side effects: %+v", r)
	}
	reqErr, ok := wasp.IsRequestError(r.Err())
	if !ok || reqErr.Function != hFail {
		t.Fatalf("expected RequestError for fail, got %v", r.Err())
	}

	r, _ = s.Receipt(panicked)
	if !strings.Contains(r.Error, "panic: boom") {
		t.Fatalf("expected panic failure, got %q", r.Error)
	}
	if got := getCounter(t, s); got != 1 {
		t.Fatalf("expected counter 1 after rollback, got %d", got)
	}
}

func TestUnknownTargets(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	id, err := s.PostRequest(ctx, testSender, wasmrequests.PostRequest{ChainID: testChain, Contract: 0x1234, Function: hIncrement})
	if err != nil {
		t.Fatalf("PostRequest: %v", err)
	}
	unknownFunc := post(t, s, hGetCounter, nil)
	process(t, s, 2)
	if r, _ := s.Receipt(id); !strings.Contains(r.Error, "unknown contract") {
		t.Fatalf("expected unknown contract failure, got %q", r.Error)
	}
	if r, _ := s.Receipt(unknownFunc); !strings.Contains(r.Error, "unknown function") {
		t.Fatalf("expected unknown function failure, got %q", r.Error)
	}

	_, err = s.CallView(ctx, wasmrequests.CallRequest{Contract: 0x1234, Function: hGetCounter})
	if !errors.Is(err, wasp.ErrUnknownContract) {
		t.Fatalf("expected ErrUnknownContract, got %v", err)
	}
	_, err = s.CallView(ctx, wasmrequests.CallRequest{Contract: hCounter, Function: hIncrement})
	if !errors.Is(err, wasp.ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction for a func called as view, got %v", err)
	}
}

func TestWrongChain(t *testing.T) {
	s := newTestServer(t)
	_, err := s.PostRequest(context.Background(), testSender, wasmrequests.PostRequest{ChainID: wasmtypes.ScChainID{1}, Contract: hCounter, Function: hIncrement})
	if !errors.Is(err, wasp.ErrWrongChain) {
		t.Fatalf("expected ErrWrongChain, got %v", err)
	}
	if s.Pending() != 0 {
		t.Fatal("rejected request was queued")
	}
}

func TestViewFailure(t *testing.T) {
	s := newTestServer(t)
	_, err := s.CallView(context.Background(), wasmrequests.CallRequest{Contract: hCounter, Function: hBadView})
	reqErr, ok := wasp.IsRequestError(err)
	if !ok {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Reason != "bad view 7" || reqErr.Contract != hCounter || reqErr.Function != hBadView {
		t.Fatalf("unexpected request error: %+v", reqErr)
	}
}

func TestMalformedParams(t *testing.T) {
	s := newTestServer(t)
	id, err := s.PostRequest(context.Background(), testSender, wasmrequests.PostRequest{
		ChainID: testChain, Contract: hCounter, Function: hIncrement, Params: []byte{3, 1},
	})
	if err != nil {
		t.Fatalf("PostRequest: %v", err)
	}
	process(t, s, 1)
	if r, _ := s.Receipt(id); !strings.Contains(r.Error, "params") {
		t.Fatalf("expected params failure, got %q", r.Error)
	}
	_, err = s.CallView(context.Background(), wasmrequests.CallRequest{Contract: hCounter, Function: hGetCounter, Params: []byte{3, 1}})
	if !errors.Is(err, wasmtypes.ErrTruncatedBuffer) {
		t.Fatalf("expected ErrTruncatedBuffer, got %v", err)
	}
}

func TestDelayedRequest(t *testing.T) {
	clock := &testClock{now: time.Unix(1000, 0)}
	s := newTestServer(t, WithClock(clock.Now))
	id, err := s.PostRequest(context.Background(), testSender, wasmrequests.PostRequest{
		ChainID: testChain, Contract: hCounter, Function: hIncrement, Delay: 10,
	})
	if err != nil {
		t.Fatalf("PostRequest: %v", err)
	}
	post(t, s, hIncrement, nil)

	process(t, s, 1)
	if _, ok := s.Receipt(id); ok {
		t.Fatal("delayed request executed early")
	}
	clock.Advance(10 * time.Second)
	process(t, s, 1)
	if _, ok := s.Receipt(id); !ok {
		t.Fatal("delayed request not executed")
	}
	if got := getCounter(t, s); got != 2 {
		t.Fatalf("expected counter 2, got %d", got)
	}
}

func TestWaitRequest(t *testing.T) {
	s := newTestServer(t)

	_, err := s.WaitRequest(context.Background(), wasmtypes.ScRequestID{1})
	if !errors.Is(err, wasp.ErrUnknownRequest) {
		t.Fatalf("expected ErrUnknownRequest, got %v", err)
	}

	id := post(t, s, hIncrement, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := s.WaitRequest(ctx, id); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	done := make(chan wasp.Receipt)
	go func() {
		r, err := s.WaitRequest(context.Background(), id)
		if err != nil {
			t.Errorf("WaitRequest: %v", err)
		}
		done <- r
	}()
	process(t, s, 1)
	select {
	case r := <-done:
		if r.RequestID != id {
			t.Fatalf("waited for %s, got receipt of %s", id, r.RequestID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WaitRequest did not return")
	}
}

func TestRun(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx, time.Hour) }()

	id := post(t, s, hIncrement, nil)
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	if _, err := s.WaitRequest(waitCtx, id); err != nil {
		t.Fatalf("WaitRequest: %v", err)
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled from Run, got %v", err)
	}
}

func TestOutbox(t *testing.T) {
	s := newTestServer(t)
	post(t, s, hSend, nil)
	process(t, s, 1)
	out := s.Outbox()
	if len(out) != 1 {
		t.Fatalf("expected 1 send, got %d", len(out))
	}
	if out[0].Address != testSender.Address {
		t.Fatalf("send to %s, want %s", out[0].Address, testSender.Address)
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	s := newTestServer(t, WithMetrics(m))

	post(t, s, hIncrement, nil)
	post(t, s, hFail, nil)
	if got := testutil.ToFloat64(m.pending); got != 2 {
		t.Fatalf("expected 2 pending, got %v", got)
	}
	process(t, s, 2)
	getCounter(t, s)

	if got := testutil.ToFloat64(m.posted); got != 2 {
		t.Fatalf("expected 2 posted, got %v", got)
	}
	if got := testutil.ToFloat64(m.executed.WithLabelValues("failed")); got != 1 {
		t.Fatalf("expected 1 failed execution, got %v", got)
	}
	// deployments are not posted requests
	if got := testutil.ToFloat64(m.executed.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 successful execution, got %v", got)
	}
	if got := testutil.ToFloat64(m.views.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1 view call, got %v", got)
	}
	if got := testutil.ToFloat64(m.pending); got != 0 {
		t.Fatalf("expected 0 pending, got %v", got)
	}
}
