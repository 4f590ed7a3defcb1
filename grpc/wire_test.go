package waspgrpc

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

func TestErrorRoundTrip(t *testing.T) {
	for _, sentinel := range []error{
		wasp.ErrUnknownContract,
		wasp.ErrUnknownFunction,
		wasp.ErrUnknownRequest,
		wasp.ErrWrongChain,
		context.Canceled,
		context.DeadlineExceeded,
	} {
		err := fmt.Errorf("%w: detail", sentinel)
		got := errorFromWire(errorToWire(err))
		require.ErrorIs(t, got, sentinel)
		require.Equal(t, err.Error(), got.Error())
	}

	reqErr := wasp.NewRequestError(wasmtypes.ScHname(1), wasmtypes.ScHname(2), "boom")
	got, ok := wasp.IsRequestError(errorFromWire(errorToWire(fmt.Errorf("call: %w", reqErr))))
	require.True(t, ok)
	require.Equal(t, reqErr, got)

	other := errorFromWire(errorToWire(errors.New("disk full")))
	require.ErrorContains(t, other, "disk full")
	require.NoError(t, errorFromWire(errorToWire(nil)))
}

func TestReceiptRoundTrip(t *testing.T) {
	r := wasp.Receipt{
		RequestID: wasmtypes.ScRequestID{1, 2, 3},
		Contract:  wasmtypes.ScHname(0xfd91bc63),
		Function:  wasmtypes.ScHname(0xddd4c281),
		Error:     "failed",
		Results:   []byte{0},
		Events:    []string{"a|0x01", "b|0x02"},
	}
	msg := receiptToWire(r)
	buf, err := CramberryCodec{}.Marshal(msg)
	require.NoError(t, err)
	decoded := new(ReceiptMsg)
	require.NoError(t, CramberryCodec{}.Unmarshal(buf, decoded))

	got, err := receiptFromWire(decoded)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestCodecKeepsPayloadEncodings(t *testing.T) {
	require.Equal(t, "cramberry", CramberryCodec{}.Name())

	req := wasmrequests.PostRequest{
		Contract:  wasmtypes.NewScHname("blob"),
		Function:  wasmtypes.NewScHname("storeBlob"),
		Params:    []byte{0},
		Allowance: []byte{},
		Transfer:  []byte{},
	}
	sender := wasmtypes.ScAgentID{Hname: wasmtypes.ScHname(9)}
	buf, err := CramberryCodec{}.Marshal(&PostRequestMsg{Sender: sender.Bytes(), Request: req.Bytes()})
	require.NoError(t, err)

	msg := new(PostRequestMsg)
	require.NoError(t, CramberryCodec{}.Unmarshal(buf, msg))
	require.Equal(t, sender.Bytes(), msg.Sender)
	back, err := wasmrequests.NewPostRequestFromBytes(msg.Request)
	require.NoError(t, err)
	require.Equal(t, req, back)
}
