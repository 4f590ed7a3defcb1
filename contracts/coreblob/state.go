package coreblob

import "github.com/tadash10/wasp/wasmtypes"

type ImmutableBlobState struct {
	proxy wasmtypes.Proxy
}

func NewImmutableBlobState(proxy wasmtypes.Proxy) ImmutableBlobState {
	return ImmutableBlobState{proxy: proxy}
}

// BlobSizes maps blob hashes to the total size of their fields.
func (s ImmutableBlobState) BlobSizes() wasmtypes.ScImmutableMap[wasmtypes.ScHash, int32] {
	return wasmtypes.NewScImmutableMap(s.proxy.Root(StateBlobSizes), wasmtypes.HashKey, wasmtypes.Int32Codec)
}

// Fields maps the field names of one blob to their contents.
func (s ImmutableBlobState) Fields(hash wasmtypes.ScHash) wasmtypes.ScImmutableMap[string, []byte] {
	return wasmtypes.NewScImmutableMap(s.proxy.Root(StateFields).Key(hash[:]), wasmtypes.StringKey, wasmtypes.BytesCodec)
}

func (s ImmutableBlobState) FieldSizes(hash wasmtypes.ScHash) wasmtypes.ScImmutableMap[string, int32] {
	return wasmtypes.NewScImmutableMap(s.proxy.Root(StateFieldSizes).Key(hash[:]), wasmtypes.StringKey, wasmtypes.Int32Codec)
}

type MutableBlobState struct {
	proxy wasmtypes.Proxy
}

func NewMutableBlobState(proxy wasmtypes.Proxy) MutableBlobState {
	return MutableBlobState{proxy: proxy}
}

func (s MutableBlobState) BlobSizes() wasmtypes.ScMutableMap[wasmtypes.ScHash, int32] {
	return wasmtypes.NewScMutableMap(s.proxy.Root(StateBlobSizes), wasmtypes.HashKey, wasmtypes.Int32Codec)
}

func (s MutableBlobState) Fields(hash wasmtypes.ScHash) wasmtypes.ScMutableMap[string, []byte] {
	return wasmtypes.NewScMutableMap(s.proxy.Root(StateFields).Key(hash[:]), wasmtypes.StringKey, wasmtypes.BytesCodec)
}

func (s MutableBlobState) FieldSizes(hash wasmtypes.ScHash) wasmtypes.ScMutableMap[string, int32] {
	return wasmtypes.NewScMutableMap(s.proxy.Root(StateFieldSizes).Key(hash[:]), wasmtypes.StringKey, wasmtypes.Int32Codec)
}

func (s MutableBlobState) Immutable() ImmutableBlobState {
	return ImmutableBlobState{proxy: s.proxy}
}
