package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/tadash10/wasp/config"
	"github.com/tadash10/wasp/contracts/coreblob"
	waspgrpc "github.com/tadash10/wasp/grpc"
	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/server"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHnameCommand(t *testing.T) {
	out, err := run(t, "hname", "accounts", "deposit")
	require.NoError(t, err)
	assert.Equal(t, "accounts 0x3c4b5e02\ndeposit  0xbdc9102d\n", out)

	_, err = run(t, "hname")
	require.Error(t, err)
}

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{
		"field=string:title",
		"n=uint16:0x0102",
		"ok=bool:true",
		"h=hname:0xbdc9102d",
		"neg=int8:-1",
	})
	require.NoError(t, err)
	assert.Equal(t, wasmtypes.StringToBytes("title"), params["field"])
	assert.Equal(t, []byte{0x02, 0x01}, params["n"])
	assert.Equal(t, wasmtypes.BoolToBytes(true), params["ok"])
	assert.Equal(t, wasmtypes.HnameToBytes(0xbdc9102d), params["h"])
	assert.Equal(t, []byte{0xff}, params["neg"])

	for _, bad := range []string{"novalue", "=string:x", "k=x", "k=float:1", "k=uint8:256", "k=hash:0x01"} {
		_, err := parseParams([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestResolveHname(t *testing.T) {
	h, err := resolveHname("blob")
	require.NoError(t, err)
	assert.Equal(t, coreblob.HScName, h)
	h, err = resolveHname("0xfd91bc63")
	require.NoError(t, err)
	assert.Equal(t, coreblob.HScName, h)
}

func TestPrintResults(t *testing.T) {
	results := kv.NewDict()
	results["b"] = []byte{2}
	results["a"] = []byte{1}
	results["\x01"] = []byte{3}
	buf := &bytes.Buffer{}
	require.NoError(t, printResults(buf, results.Bytes()))
	assert.Equal(t, "0x01: 0x03\na: 0x01\nb: 0x02\n", buf.String())
}

func startHost(t *testing.T) (string, *server.Server) {
	t.Helper()
	srv, err := newHost(wasmtypes.ScChainID{}, kv.NewDict(), nil, server.NewMetrics())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Run(ctx, 10*time.Millisecond)
	}()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	gs := waspgrpc.NewGRPCServer(srv, nil).NewServer()
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(func() {
		gs.Stop()
		cancel()
		<-done
	})
	return lis.Addr().String(), srv
}

func TestPostAndCall(t *testing.T) {
	addr, _ := startHost(t)

	out, err := run(t, "post", "--addr", addr, "blob", "storeBlob", "-p", "title=bytes:0x6869", "--wait")
	require.NoError(t, err)
	assert.Contains(t, out, "request: 0x")
	assert.Contains(t, out, "event: coreblob.store|0x")

	hash := coreblob.BlobHash(map[string][]byte{"title": []byte("hi")})
	assert.Contains(t, out, "hash: "+wasmtypes.HexEncode(hash.Bytes()))

	out, err = run(t, "call", "--addr", addr, "blob", "getBlobField",
		"-p", "hash=hash:"+wasmtypes.HexEncode(hash[:]), "-p", "field=string:title")
	require.NoError(t, err)
	assert.Equal(t, "bytes: "+wasmtypes.HexEncode(wasmtypes.BytesToBytes([]byte("hi")))+"\n", out)

	_, err = run(t, "call", "--addr", addr, "blob", "getBlobField", "-p", "field=string:title")
	require.ErrorContains(t, err, "not found")

	_, err = run(t, "post", "--addr", addr, "--chain", "0x"+strings.Repeat("11", 32), "blob", "storeBlob")
	require.ErrorContains(t, err, "another chain")
}

func TestPostFailedRequest(t *testing.T) {
	addr, _ := startHost(t)
	out, err := run(t, "post", "--addr", addr, "accounts", "withdraw", "--wait")
	require.ErrorContains(t, err, "empty allowance")
	assert.Contains(t, out, "request: 0x")
}

func TestOpenStore(t *testing.T) {
	for _, backend := range []string{config.StorageMemory, config.StorageBadger, config.StorageLevelDB} {
		t.Run(backend, func(t *testing.T) {
			store, release, err := openStore(config.StorageConfig{
				Backend:   backend,
				Path:      filepath.Join(t.TempDir(), "db"),
				CacheSize: 16,
			})
			require.NoError(t, err)
			defer func() { require.NoError(t, release()) }()
			_, ok := store.(*kv.Cached)
			require.True(t, ok, "cache size enables the read cache")

			srv, err := newHost(wasmtypes.ScChainID{}, store, nil, nil)
			require.NoError(t, err)
			require.Len(t, srv.Contracts(), 3)
		})
	}
}

func TestHostRestartRevivesContracts(t *testing.T) {
	store := kv.NewDict()
	_, err := newHost(wasmtypes.ScChainID{}, store, nil, nil)
	require.NoError(t, err)
	srv, err := newHost(wasmtypes.ScChainID{}, store, nil, nil)
	require.NoError(t, err)
	require.Len(t, srv.Contracts(), 3)
}

func TestServeConfigFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grpc:\n  listen: 127.0.0.1:7000\n"), 0o600))

	cmd := NewServeCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--storage", "leveldb", "--data", "/tmp/x"}))
	opts := &ServeOptions{}
	opts.Config, _ = cmd.Flags().GetString("config")
	opts.Storage, _ = cmd.Flags().GetString("storage")
	opts.DataPath, _ = cmd.Flags().GetString("data")

	cfg, err := loadServeConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7000", cfg.GRPC.Listen)
	assert.Equal(t, config.StorageLevelDB, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/x", cfg.Storage.Path)

	require.NoError(t, cmd.ParseFlags([]string{"--storage", "redis"}))
	opts.Storage = "redis"
	_, err = loadServeConfig(cmd, opts)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestStopGRPCClosesOpenWaits(t *testing.T) {
	srv, err := newHost(wasmtypes.ScChainID{}, kv.NewDict(), nil, nil)
	require.NoError(t, err)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	gs := waspgrpc.NewGRPCServer(srv, nil).NewServer()
	go func() { _ = gs.Serve(lis) }()

	client, err := waspgrpc.Dial(context.Background(), lis.Addr().String(), wasmtypes.ScAgentID{},
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	// Nothing processes the request, so the wait below only ends with the server.
	id, err := client.PostRequest(context.Background(), wasmrequests.PostRequest{
		Contract: coreblob.HScName,
		Function: coreblob.HFuncStoreBlob,
	})
	require.NoError(t, err)
	waited := make(chan error, 1)
	go func() {
		_, err := client.WaitRequest(context.Background(), id)
		waited <- err
	}()
	require.Eventually(t, func() bool { return srv.Pending() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)

	start := time.Now()
	require.False(t, stopGRPC(gs, 100*time.Millisecond))
	require.Less(t, time.Since(start), 5*time.Second)
	select {
	case err := <-waited:
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("wait was not closed by the stop")
	}
}

func TestStopGRPCWithoutCalls(t *testing.T) {
	srv, err := newHost(wasmtypes.ScChainID{}, kv.NewDict(), nil, nil)
	require.NoError(t, err)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	gs := waspgrpc.NewGRPCServer(srv, nil).NewServer()
	go func() { _ = gs.Serve(lis) }()
	require.True(t, stopGRPC(gs, 5*time.Second))
}
