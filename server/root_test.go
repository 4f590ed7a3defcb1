package server

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

func deployParams(prog wasmtypes.ScHash, name string, counter int64) kv.Dict {
	params := kv.NewDict()
	params[ParamProgramHash] = wasmtypes.HashToBytes(prog)
	params[ParamName] = wasmtypes.StringToBytes(name)
	params["counter"] = wasmtypes.Int64ToBytes(counter)
	return params
}

func postRoot(t *testing.T, s *Server, params kv.Dict) wasmtypes.ScRequestID {
	t.Helper()
	id, err := s.PostRequest(context.Background(), testSender, wasmrequests.PostRequest{
		ChainID:  testChain,
		Contract: HRoot,
		Function: HDeployContract,
		Params:   params.Bytes(),
	})
	if err != nil {
		t.Fatalf("PostRequest: %v", err)
	}
	return id
}

func findContract(t *testing.T, s *Server, hname wasmtypes.ScHname) (ContractRecord, bool) {
	t.Helper()
	params := kv.NewDict()
	params[ParamHname] = wasmtypes.HnameToBytes(hname)
	buf, err := s.CallView(context.Background(), wasmrequests.CallRequest{
		Contract: HRoot,
		Function: wasmtypes.NewScHname(ViewFindContract),
		Params:   params.Bytes(),
	})
	if err != nil {
		t.Fatalf("findContract: %v", err)
	}
	res, err := kv.DictFromBytes(buf)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	found, err := wasmtypes.BoolFromBytes(res[ResultContractFound])
	if err != nil {
		t.Fatalf("found: %v", err)
	}
	if !found {
		return ContractRecord{}, false
	}
	r, err := ContractRecordCodec.FromBytes(res[ResultContractRecData])
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	return r, true
}

func TestRootKnowsItself(t *testing.T) {
	s, err := New(testChain)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if HRoot != 0xcebf5908 || HDeployContract != 0x28232c27 || HInit != 0x1f44d644 {
		t.Fatalf("unexpected root hnames %s %s %s", HRoot, HDeployContract, HInit)
	}
	r, ok := findContract(t, s, HRoot)
	if !ok || r.Name != RootName {
		t.Fatalf("root not registered: %+v", r)
	}
	if _, ok := findContract(t, s, hCounter); ok {
		t.Fatal("counter found before deployment")
	}
}

func TestDeployThroughRoot(t *testing.T) {
	s := newTestServer(t)
	prog := ProgramHash("counter")

	id := postRoot(t, s, deployParams(prog, "counter2", 40))
	dup := postRoot(t, s, deployParams(prog, "counter2", 1))
	unknown := postRoot(t, s, deployParams(wasmtypes.ScHash{9}, "counter3", 1))
	process(t, s, 3)

	if r, _ := s.Receipt(id); r.Error != "" {
		t.Fatalf("deploy failed: %s", r.Error)
	}
	if r, _ := s.Receipt(dup); !strings.Contains(r.Error, "already deployed") {
		t.Fatalf("expected duplicate deploy to fail, got %q", r.Error)
	}
	if r, _ := s.Receipt(unknown); !strings.Contains(r.Error, "unknown program") {
		t.Fatalf("expected unknown program failure, got %q", r.Error)
	}

	h2 := wasmtypes.NewScHname("counter2")
	r, ok := findContract(t, s, h2)
	if !ok || r.Name != "counter2" || r.ProgHash != prog || r.Description != "Counter test contract" {
		t.Fatalf("unexpected record %+v", r)
	}
	if _, ok := findContract(t, s, wasmtypes.NewScHname("counter3")); ok {
		t.Fatal("failed deployment left a record")
	}

	// init ran in the new contract's namespace only
	buf, err := s.CallView(context.Background(), wasmrequests.CallRequest{Contract: h2, Function: hGetCounter})
	if err != nil {
		t.Fatalf("CallView: %v", err)
	}
	res, _ := kv.DictFromBytes(buf)
	if v, _ := wasmtypes.Int64FromBytes(res["counter"]); v != 40 {
		t.Fatalf("expected counter2 at 40, got %d", v)
	}
	if got := getCounter(t, s); got != 0 {
		t.Fatalf("expected counter at 0, got %d", got)
	}
}

func TestDeployFailingInitCommitsNothing(t *testing.T) {
	s := newTestServer(t)
	bad := Contract{
		Name: "bad",
		Funcs: map[string]FuncHandler{
			"init": func(ctx *FuncContext) error {
				if err := ctx.State().Root("x").Set([]byte{1}); err != nil {
					return err
				}
				return errors.New("no")
			},
		},
	}
	_, err := s.Register(context.Background(), bad)
	if err == nil || !strings.Contains(err.Error(), "init bad: no") {
		t.Fatalf("expected init failure, got %v", err)
	}
	if _, ok := findContract(t, s, wasmtypes.NewScHname("bad")); ok {
		t.Fatal("failed init left a record")
	}
	if v, _ := s.Store().Get(append(wasmtypes.NewScHname("bad").Bytes(), 'x')); v != nil {
		t.Fatal("failed init left state behind")
	}

	_, err = s.Register(context.Background(), counterContract())
	if !errors.Is(err, ErrContractExists) {
		t.Fatalf("expected ErrContractExists, got %v", err)
	}
}

func TestGetContractRecords(t *testing.T) {
	s := newTestServer(t)
	buf, err := s.CallView(context.Background(), wasmrequests.CallRequest{
		Contract: HRoot,
		Function: wasmtypes.NewScHname(ViewGetContractRecord),
	})
	if err != nil {
		t.Fatalf("getContractRecords: %v", err)
	}
	res, err := kv.DictFromBytes(buf)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	registry := wasmtypes.NewScImmutableMap(wasmtypes.NewProxy(res).Root(ResultContractRegistry), wasmtypes.HnameKey, ContractRecordCodec)
	hnames, err := registry.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(hnames) != 2 {
		t.Fatalf("expected root and counter, got %v", hnames)
	}
	r, err := registry.GetElem(hCounter).Value()
	if err != nil || r.Name != "counter" {
		t.Fatalf("unexpected counter record %+v: %v", r, err)
	}
	if got := s.Contracts(); len(got) != 2 || got[0].Name != "counter" || got[1].Name != "root" {
		t.Fatalf("unexpected contracts %+v", got)
	}
}

func TestRegistrySurvivesRestart(t *testing.T) {
	store := kv.NewDict()
	s := newTestServer(t, WithStore(store))
	post(t, s, hIncrement, nil)
	process(t, s, 1)

	restarted, err := New(testChain, WithStore(store))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = restarted.CallView(context.Background(), wasmrequests.CallRequest{Contract: hCounter, Function: hGetCounter})
	if err == nil {
		t.Fatal("contract callable before its program is registered")
	}
	if err := restarted.RegisterProgram(ProgramHash("counter"), counterContract()); err != nil {
		t.Fatalf("RegisterProgram: %v", err)
	}
	if got := getCounter(t, restarted); got != 1 {
		t.Fatalf("expected counter 1 after restart, got %d", got)
	}
}
