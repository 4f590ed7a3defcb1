package wasmrequests

import (
	"encoding/hex"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmtypes"
)

func fill(b byte) (out [32]byte) {
	for i := range out {
		out[i] = b
	}
	return out
}

func assertGolden(t *testing.T, name string, buf []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(hex.EncodeToString(buf)))
}

func TestCallRequestEndToEnd(t *testing.T) {
	req := CallRequest{
		Contract: wasmtypes.NewScHname("accounts"),
		Function: wasmtypes.NewScHname("deposit"),
		Params:   []byte{},
		Transfer: []byte{},
	}
	require.Equal(t, wasmtypes.ScHname(0x3c4b5e02), req.Contract)
	require.Equal(t, wasmtypes.ScHname(0xbdc9102d), req.Function)

	buf := req.Bytes()
	assertGolden(t, "call_request_empty", buf)

	dec := wasmtypes.NewWasmDecoder(buf)
	back := CallRequestDecode(dec)
	require.NoError(t, dec.Close())
	require.Equal(t, len(buf), dec.Consumed())
	require.Equal(t, req, back)
}

func TestRecordGolden(t *testing.T) {
	var chain wasmtypes.ScChainID
	for i := range chain {
		chain[i] = byte(i)
	}
	post := PostRequest{
		Allowance: []byte{1},
		ChainID:   chain,
		Contract:  wasmtypes.NewScHname("accounts"),
		Delay:     5,
		Function:  wasmtypes.NewScHname("withdraw"),
		Params:    []byte{0xaa, 0xbb},
		Transfer:  []byte{},
	}
	deploy := DeployRequest{
		Description: "counter",
		Name:        "c1",
		Params:      []byte{},
		ProgHash:    fill(0x11),
	}
	send := SendRequest{
		Address:  wasmtypes.NewScAddress(wasmtypes.ScAddressEd25519, fill(0x22)),
		Transfer: wasmtypes.NewScTransferBaseTokens(7).Bytes(),
	}
	transfer := TransferRequest{
		AgentID: wasmtypes.ScAgentID{
			Address: wasmtypes.NewScAddress(wasmtypes.ScAddressAlias, fill(0x33)),
			Hname:   wasmtypes.NewScHname("accounts"),
		},
		Transfer: []byte{},
	}

	assertGolden(t, "post_request", post.Bytes())
	assertGolden(t, "deploy_request", deploy.Bytes())
	assertGolden(t, "send_request", send.Bytes())
	assertGolden(t, "transfer_request", transfer.Bytes())

	gotPost, err := NewPostRequestFromBytes(post.Bytes())
	require.NoError(t, err)
	require.Equal(t, post, gotPost)

	gotDeploy, err := NewDeployRequestFromBytes(deploy.Bytes())
	require.NoError(t, err)
	require.Equal(t, deploy, gotDeploy)

	gotSend, err := NewSendRequestFromBytes(send.Bytes())
	require.NoError(t, err)
	require.Equal(t, send, gotSend)
	assets, err := wasmtypes.NewScAssets(gotSend.Transfer)
	require.NoError(t, err)
	require.Equal(t, uint64(7), assets.BaseTokens)

	gotTransfer, err := NewTransferRequestFromBytes(transfer.Bytes())
	require.NoError(t, err)
	require.Equal(t, transfer, gotTransfer)
}

func TestRecordTruncatedAndTrailing(t *testing.T) {
	buf := CallRequest{Contract: 1, Function: 2}.Bytes()

	for n := 0; n < len(buf); n++ {
		_, err := NewCallRequestFromBytes(buf[:n])
		require.ErrorIs(t, err, wasmtypes.ErrTruncatedBuffer, "length %d", n)
	}

	_, err := NewCallRequestFromBytes(append(append([]byte{}, buf...), 0))
	require.ErrorIs(t, err, wasmtypes.ErrTrailingBytes)
}

func TestRecordDecodeFailureExposesNothing(t *testing.T) {
	buf := DeployRequest{Description: "d", Name: "n", ProgHash: fill(1)}.Bytes()
	got, err := NewDeployRequestFromBytes(buf[:len(buf)-1])
	require.Error(t, err)
	require.Equal(t, DeployRequest{}, got)
}

func TestRecordProxies(t *testing.T) {
	store := kv.NewDict()
	root := wasmtypes.NewProxy(store)
	m := NewMutableTransferRequest(root.Key([]byte("t")))

	_, err := NewImmutableTransferRequest(root.Key([]byte("t"))).Value()
	require.ErrorIs(t, err, wasmtypes.ErrMissingValue)

	want := TransferRequest{AgentID: wasmtypes.NewScAgentID(wasmtypes.ScChainID{}, 7), Transfer: []byte{}}
	require.NoError(t, m.SetValue(want))
	require.Equal(t, want.Bytes(), store["t"])

	got, err := m.Immutable().Value()
	require.NoError(t, err)
	require.Equal(t, want, got)

	// records never touch sibling paths
	other := NewMutableCallRequest(root.Key([]byte("t2")))
	ok, err := other.Exists()
	require.NoError(t, err)
	require.False(t, ok)
}
