package coreblob

import "github.com/tadash10/wasp/wasmtypes"

type ImmutableStoreBlobParams struct {
	proxy wasmtypes.Proxy
}

func NewImmutableStoreBlobParams(proxy wasmtypes.Proxy) ImmutableStoreBlobParams {
	return ImmutableStoreBlobParams{proxy: proxy}
}

// Blobs maps field names to field contents.
func (s ImmutableStoreBlobParams) Blobs() wasmtypes.ScImmutableMap[string, []byte] {
	return wasmtypes.NewScImmutableMap(s.proxy, wasmtypes.StringKey, wasmtypes.BytesCodec)
}

type MutableStoreBlobParams struct {
	proxy wasmtypes.Proxy
}

func NewMutableStoreBlobParams(proxy wasmtypes.Proxy) MutableStoreBlobParams {
	return MutableStoreBlobParams{proxy: proxy}
}

func (s MutableStoreBlobParams) Blobs() wasmtypes.ScMutableMap[string, []byte] {
	return wasmtypes.NewScMutableMap(s.proxy, wasmtypes.StringKey, wasmtypes.BytesCodec)
}

type ImmutableGetBlobFieldParams struct {
	proxy wasmtypes.Proxy
}

func NewImmutableGetBlobFieldParams(proxy wasmtypes.Proxy) ImmutableGetBlobFieldParams {
	return ImmutableGetBlobFieldParams{proxy: proxy}
}

func (s ImmutableGetBlobFieldParams) Field() wasmtypes.ScImmutable[string] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ParamField), wasmtypes.StringCodec)
}

func (s ImmutableGetBlobFieldParams) Hash() wasmtypes.ScImmutable[wasmtypes.ScHash] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ParamHash), wasmtypes.HashCodec)
}

type MutableGetBlobFieldParams struct {
	proxy wasmtypes.Proxy
}

func NewMutableGetBlobFieldParams(proxy wasmtypes.Proxy) MutableGetBlobFieldParams {
	return MutableGetBlobFieldParams{proxy: proxy}
}

func (s MutableGetBlobFieldParams) Field() wasmtypes.ScMutable[string] {
	return wasmtypes.NewScMutable(s.proxy.Root(ParamField), wasmtypes.StringCodec)
}

func (s MutableGetBlobFieldParams) Hash() wasmtypes.ScMutable[wasmtypes.ScHash] {
	return wasmtypes.NewScMutable(s.proxy.Root(ParamHash), wasmtypes.HashCodec)
}

type ImmutableGetBlobInfoParams struct {
	proxy wasmtypes.Proxy
}

func NewImmutableGetBlobInfoParams(proxy wasmtypes.Proxy) ImmutableGetBlobInfoParams {
	return ImmutableGetBlobInfoParams{proxy: proxy}
}

func (s ImmutableGetBlobInfoParams) Hash() wasmtypes.ScImmutable[wasmtypes.ScHash] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ParamHash), wasmtypes.HashCodec)
}

type MutableGetBlobInfoParams struct {
	proxy wasmtypes.Proxy
}

func NewMutableGetBlobInfoParams(proxy wasmtypes.Proxy) MutableGetBlobInfoParams {
	return MutableGetBlobInfoParams{proxy: proxy}
}

func (s MutableGetBlobInfoParams) Hash() wasmtypes.ScMutable[wasmtypes.ScHash] {
	return wasmtypes.NewScMutable(s.proxy.Root(ParamHash), wasmtypes.HashCodec)
}
