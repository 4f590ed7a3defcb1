package coreblob

import "github.com/tadash10/wasp/wasmtypes"

type ImmutableStoreBlobResults struct {
	proxy wasmtypes.Proxy
}

func NewImmutableStoreBlobResults(proxy wasmtypes.Proxy) ImmutableStoreBlobResults {
	return ImmutableStoreBlobResults{proxy: proxy}
}

func (s ImmutableStoreBlobResults) Hash() wasmtypes.ScImmutable[wasmtypes.ScHash] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ResultHash), wasmtypes.HashCodec)
}

type MutableStoreBlobResults struct {
	proxy wasmtypes.Proxy
}

func NewMutableStoreBlobResults(proxy wasmtypes.Proxy) MutableStoreBlobResults {
	return MutableStoreBlobResults{proxy: proxy}
}

func (s MutableStoreBlobResults) Hash() wasmtypes.ScMutable[wasmtypes.ScHash] {
	return wasmtypes.NewScMutable(s.proxy.Root(ResultHash), wasmtypes.HashCodec)
}

type ImmutableGetBlobFieldResults struct {
	proxy wasmtypes.Proxy
}

func NewImmutableGetBlobFieldResults(proxy wasmtypes.Proxy) ImmutableGetBlobFieldResults {
	return ImmutableGetBlobFieldResults{proxy: proxy}
}

func (s ImmutableGetBlobFieldResults) Bytes() wasmtypes.ScImmutable[[]byte] {
	return wasmtypes.NewScImmutable(s.proxy.Root(ResultBytes), wasmtypes.BytesCodec)
}

type MutableGetBlobFieldResults struct {
	proxy wasmtypes.Proxy
}

func NewMutableGetBlobFieldResults(proxy wasmtypes.Proxy) MutableGetBlobFieldResults {
	return MutableGetBlobFieldResults{proxy: proxy}
}

func (s MutableGetBlobFieldResults) Bytes() wasmtypes.ScMutable[[]byte] {
	return wasmtypes.NewScMutable(s.proxy.Root(ResultBytes), wasmtypes.BytesCodec)
}

// ImmutableGetBlobInfoResults maps each field of a blob to its size.
type ImmutableGetBlobInfoResults struct {
	proxy wasmtypes.Proxy
}

func NewImmutableGetBlobInfoResults(proxy wasmtypes.Proxy) ImmutableGetBlobInfoResults {
	return ImmutableGetBlobInfoResults{proxy: proxy}
}

func (s ImmutableGetBlobInfoResults) BlobSizes() wasmtypes.ScImmutableMap[string, int32] {
	return wasmtypes.NewScImmutableMap(s.proxy, wasmtypes.StringKey, wasmtypes.Int32Codec)
}

type MutableGetBlobInfoResults struct {
	proxy wasmtypes.Proxy
}

func NewMutableGetBlobInfoResults(proxy wasmtypes.Proxy) MutableGetBlobInfoResults {
	return MutableGetBlobInfoResults{proxy: proxy}
}

func (s MutableGetBlobInfoResults) BlobSizes() wasmtypes.ScMutableMap[string, int32] {
	return wasmtypes.NewScMutableMap(s.proxy, wasmtypes.StringKey, wasmtypes.Int32Codec)
}

// ImmutableListBlobsResults maps each blob hash to the total size of its
// fields.
type ImmutableListBlobsResults struct {
	proxy wasmtypes.Proxy
}

func NewImmutableListBlobsResults(proxy wasmtypes.Proxy) ImmutableListBlobsResults {
	return ImmutableListBlobsResults{proxy: proxy}
}

func (s ImmutableListBlobsResults) BlobSizes() wasmtypes.ScImmutableMap[wasmtypes.ScHash, int32] {
	return wasmtypes.NewScImmutableMap(s.proxy, wasmtypes.HashKey, wasmtypes.Int32Codec)
}

type MutableListBlobsResults struct {
	proxy wasmtypes.Proxy
}

func NewMutableListBlobsResults(proxy wasmtypes.Proxy) MutableListBlobsResults {
	return MutableListBlobsResults{proxy: proxy}
}

func (s MutableListBlobsResults) BlobSizes() wasmtypes.ScMutableMap[wasmtypes.ScHash, int32] {
	return wasmtypes.NewScMutableMap(s.proxy, wasmtypes.HashKey, wasmtypes.Int32Codec)
}
