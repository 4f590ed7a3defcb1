// Package wasmrequests holds the request records exchanged between callers,
// contracts and the host. Field order is the wire order.
package wasmrequests

import (
	"fmt"

	"github.com/tadash10/wasp/wasmtypes"
)

// CallRequest describes a synchronous call of a view or function.
type CallRequest struct {
	Contract wasmtypes.ScHname
	Function wasmtypes.ScHname
	Params   []byte
	// assets transferred along with the call
	Transfer []byte
}

func NewCallRequestFromBytes(buf []byte) (CallRequest, error) {
	o, err := CallRequestCodec.FromBytes(buf)
	if err != nil {
		return o, fmt.Errorf("call request: %w", err)
	}
	return o, nil
}

func (o CallRequest) Bytes() []byte { return CallRequestCodec.ToBytes(o) }

func CallRequestEncode(enc *wasmtypes.WasmEncoder, o CallRequest) {
	wasmtypes.HnameEncode(enc, o.Contract)
	wasmtypes.HnameEncode(enc, o.Function)
	wasmtypes.BytesEncode(enc, o.Params)
	wasmtypes.BytesEncode(enc, o.Transfer)
}

func CallRequestDecode(dec *wasmtypes.WasmDecoder) (o CallRequest) {
	o.Contract = wasmtypes.HnameDecode(dec)
	o.Function = wasmtypes.HnameDecode(dec)
	o.Params = wasmtypes.BytesDecode(dec)
	o.Transfer = wasmtypes.BytesDecode(dec)
	return o
}

// PostRequest describes an asynchronous request to a contract function,
// possibly on another chain.
type PostRequest struct {
	// caller assets that the callee may take
	Allowance []byte
	ChainID   wasmtypes.ScChainID
	Contract  wasmtypes.ScHname
	// seconds to wait before the request is processed
	Delay    uint32
	Function wasmtypes.ScHname
	Params   []byte
	Transfer []byte
}

func NewPostRequestFromBytes(buf []byte) (PostRequest, error) {
	o, err := PostRequestCodec.FromBytes(buf)
	if err != nil {
		return o, fmt.Errorf("post request: %w", err)
	}
	return o, nil
}

func (o PostRequest) Bytes() []byte { return PostRequestCodec.ToBytes(o) }

func PostRequestEncode(enc *wasmtypes.WasmEncoder, o PostRequest) {
	wasmtypes.BytesEncode(enc, o.Allowance)
	wasmtypes.ChainIDEncode(enc, o.ChainID)
	wasmtypes.HnameEncode(enc, o.Contract)
	wasmtypes.Uint32Encode(enc, o.Delay)
	wasmtypes.HnameEncode(enc, o.Function)
	wasmtypes.BytesEncode(enc, o.Params)
	wasmtypes.BytesEncode(enc, o.Transfer)
}

func PostRequestDecode(dec *wasmtypes.WasmDecoder) (o PostRequest) {
	o.Allowance = wasmtypes.BytesDecode(dec)
	o.ChainID = wasmtypes.ChainIDDecode(dec)
	o.Contract = wasmtypes.HnameDecode(dec)
	o.Delay = wasmtypes.Uint32Decode(dec)
	o.Function = wasmtypes.HnameDecode(dec)
	o.Params = wasmtypes.BytesDecode(dec)
	o.Transfer = wasmtypes.BytesDecode(dec)
	return o
}

// DeployRequest asks the host to deploy a registered program under a new
// contract name.
type DeployRequest struct {
	Description string
	Name        string
	// parameters passed to the init function
	Params   []byte
	ProgHash wasmtypes.ScHash
}

func NewDeployRequestFromBytes(buf []byte) (DeployRequest, error) {
	o, err := DeployRequestCodec.FromBytes(buf)
	if err != nil {
		return o, fmt.Errorf("deploy request: %w", err)
	}
	return o, nil
}

func (o DeployRequest) Bytes() []byte { return DeployRequestCodec.ToBytes(o) }

func DeployRequestEncode(enc *wasmtypes.WasmEncoder, o DeployRequest) {
	wasmtypes.StringEncode(enc, o.Description)
	wasmtypes.StringEncode(enc, o.Name)
	wasmtypes.BytesEncode(enc, o.Params)
	wasmtypes.HashEncode(enc, o.ProgHash)
}

func DeployRequestDecode(dec *wasmtypes.WasmDecoder) (o DeployRequest) {
	o.Description = wasmtypes.StringDecode(dec)
	o.Name = wasmtypes.StringDecode(dec)
	o.Params = wasmtypes.BytesDecode(dec)
	o.ProgHash = wasmtypes.HashDecode(dec)
	return o
}

// SendRequest moves assets to an address outside the chain.
type SendRequest struct {
	Address  wasmtypes.ScAddress
	Transfer []byte
}

func NewSendRequestFromBytes(buf []byte) (SendRequest, error) {
	o, err := SendRequestCodec.FromBytes(buf)
	if err != nil {
		return o, fmt.Errorf("send request: %w", err)
	}
	return o, nil
}

func (o SendRequest) Bytes() []byte { return SendRequestCodec.ToBytes(o) }

func SendRequestEncode(enc *wasmtypes.WasmEncoder, o SendRequest) {
	wasmtypes.AddressEncode(enc, o.Address)
	wasmtypes.BytesEncode(enc, o.Transfer)
}

func SendRequestDecode(dec *wasmtypes.WasmDecoder) (o SendRequest) {
	o.Address = wasmtypes.AddressDecode(dec)
	o.Transfer = wasmtypes.BytesDecode(dec)
	return o
}

// TransferRequest moves assets between accounts on the chain.
type TransferRequest struct {
	AgentID  wasmtypes.ScAgentID
	Transfer []byte
}

func NewTransferRequestFromBytes(buf []byte) (TransferRequest, error) {
	o, err := TransferRequestCodec.FromBytes(buf)
	if err != nil {
		return o, fmt.Errorf("transfer request: %w", err)
	}
	return o, nil
}

func (o TransferRequest) Bytes() []byte { return TransferRequestCodec.ToBytes(o) }

func TransferRequestEncode(enc *wasmtypes.WasmEncoder, o TransferRequest) {
	wasmtypes.AgentIDEncode(enc, o.AgentID)
	wasmtypes.BytesEncode(enc, o.Transfer)
}

func TransferRequestDecode(dec *wasmtypes.WasmDecoder) (o TransferRequest) {
	o.AgentID = wasmtypes.AgentIDDecode(dec)
	o.Transfer = wasmtypes.BytesDecode(dec)
	return o
}

// Records are required: reading one from an empty path is an error, not a
// zero record.
var (
	CallRequestCodec = wasmtypes.Codec[CallRequest]{
		Encode: CallRequestEncode, Decode: CallRequestDecode, Required: true,
	}
	PostRequestCodec = wasmtypes.Codec[PostRequest]{
		Encode: PostRequestEncode, Decode: PostRequestDecode, Required: true,
	}
	DeployRequestCodec = wasmtypes.Codec[DeployRequest]{
		Encode: DeployRequestEncode, Decode: DeployRequestDecode, Required: true,
	}
	SendRequestCodec = wasmtypes.Codec[SendRequest]{
		Encode: SendRequestEncode, Decode: SendRequestDecode, Required: true,
	}
	TransferRequestCodec = wasmtypes.Codec[TransferRequest]{
		Encode: TransferRequestEncode, Decode: TransferRequestDecode, Required: true,
	}
)
