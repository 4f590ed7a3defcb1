package wasmrequests

import "github.com/tadash10/wasp/wasmtypes"

type (
	ImmutableCallRequest     = wasmtypes.ScImmutable[CallRequest]
	MutableCallRequest       = wasmtypes.ScMutable[CallRequest]
	ImmutablePostRequest     = wasmtypes.ScImmutable[PostRequest]
	MutablePostRequest       = wasmtypes.ScMutable[PostRequest]
	ImmutableDeployRequest   = wasmtypes.ScImmutable[DeployRequest]
	MutableDeployRequest     = wasmtypes.ScMutable[DeployRequest]
	ImmutableSendRequest     = wasmtypes.ScImmutable[SendRequest]
	MutableSendRequest       = wasmtypes.ScMutable[SendRequest]
	ImmutableTransferRequest = wasmtypes.ScImmutable[TransferRequest]
	MutableTransferRequest   = wasmtypes.ScMutable[TransferRequest]
)

func NewImmutableCallRequest(p wasmtypes.Proxy) ImmutableCallRequest {
	return wasmtypes.NewScImmutable(p, CallRequestCodec)
}

func NewMutableCallRequest(p wasmtypes.Proxy) MutableCallRequest {
	return wasmtypes.NewScMutable(p, CallRequestCodec)
}

func NewImmutablePostRequest(p wasmtypes.Proxy) ImmutablePostRequest {
	return wasmtypes.NewScImmutable(p, PostRequestCodec)
}

func NewMutablePostRequest(p wasmtypes.Proxy) MutablePostRequest {
	return wasmtypes.NewScMutable(p, PostRequestCodec)
}

func NewImmutableDeployRequest(p wasmtypes.Proxy) ImmutableDeployRequest {
	return wasmtypes.NewScImmutable(p, DeployRequestCodec)
}

func NewMutableDeployRequest(p wasmtypes.Proxy) MutableDeployRequest {
	return wasmtypes.NewScMutable(p, DeployRequestCodec)
}

func NewImmutableSendRequest(p wasmtypes.Proxy) ImmutableSendRequest {
	return wasmtypes.NewScImmutable(p, SendRequestCodec)
}

func NewMutableSendRequest(p wasmtypes.Proxy) MutableSendRequest {
	return wasmtypes.NewScMutable(p, SendRequestCodec)
}

func NewImmutableTransferRequest(p wasmtypes.Proxy) ImmutableTransferRequest {
	return wasmtypes.NewScImmutable(p, TransferRequestCodec)
}

func NewMutableTransferRequest(p wasmtypes.Proxy) MutableTransferRequest {
	return wasmtypes.NewScMutable(p, TransferRequestCodec)
}
