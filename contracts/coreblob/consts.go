// Package coreblob binds the blob store contract: immutable sets of named
// binary fields addressed by the hash of their content.
package coreblob

import "github.com/tadash10/wasp/wasmtypes"

const (
	ScName        = "blob"
	ScDescription = "Blob store contract"
	HScName       = wasmtypes.ScHname(0xfd91bc63)
)

// ParamBlobs and ResultBlobSizes address the root of the container: every
// field of the container is an element.
const (
	ParamBlobs = "this"
	ParamField = "field"
	ParamHash  = "hash"
)

const (
	ResultBlobSizes = "this"
	ResultBytes     = "bytes"
	ResultHash      = "hash"
)

const (
	StateBlobSizes  = "b"
	StateFields     = "f"
	StateFieldSizes = "s"
)

const (
	FuncStoreBlob    = "storeBlob"
	ViewGetBlobField = "getBlobField"
	ViewGetBlobInfo  = "getBlobInfo"
	ViewListBlobs    = "listBlobs"
)

const (
	HFuncStoreBlob    = wasmtypes.ScHname(0xddd4c281)
	HViewGetBlobField = wasmtypes.ScHname(0x1f448130)
	HViewGetBlobInfo  = wasmtypes.ScHname(0xfde4ab46)
	HViewListBlobs    = wasmtypes.ScHname(0x62ca7990)
)
