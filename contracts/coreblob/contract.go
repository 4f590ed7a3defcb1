package coreblob

import (
	"math"
	"slices"

	"golang.org/x/crypto/blake2b"

	"github.com/tadash10/wasp/server"
	"github.com/tadash10/wasp/wasmtypes"
)

// Contract returns the host implementation of the blob contract.
func Contract() server.Contract {
	return server.Contract{
		Name:        ScName,
		Description: ScDescription,
		Funcs: map[string]server.FuncHandler{
			FuncStoreBlob: funcStoreBlob,
		},
		Views: map[string]server.ViewHandler{
			ViewGetBlobField: viewGetBlobField,
			ViewGetBlobInfo:  viewGetBlobInfo,
			ViewListBlobs:    viewListBlobs,
		},
	}
}

// BlobHash returns the hash identifying a blob: blake2b-256 over the field
// names and contents in ascending name order.
func BlobHash(fields map[string][]byte) wasmtypes.ScHash {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)
	enc := wasmtypes.NewWasmEncoder()
	for _, name := range names {
		wasmtypes.StringEncode(enc, name)
		wasmtypes.BytesEncode(enc, fields[name])
	}
	return blake2b.Sum256(enc.Buf())
}

func funcStoreBlob(ctx *server.FuncContext) error {
	blobs := NewImmutableStoreBlobParams(ctx.Params()).Blobs()
	names, err := blobs.Keys()
	if err != nil {
		return err
	}
	if err := ctx.Require(len(names) > 0, "blob without fields"); err != nil {
		return err
	}
	fields := make(map[string][]byte, len(names))
	var total int64
	for _, name := range names {
		v, err := blobs.GetElem(name).Value()
		if err != nil {
			return err
		}
		fields[name] = v
		total += int64(len(v))
	}
	if err := ctx.Require(total <= math.MaxInt32, "blob too large: %d bytes", total); err != nil {
		return err
	}

	hash := BlobHash(fields)
	state := NewMutableBlobState(ctx.State())
	results := NewMutableStoreBlobResults(ctx.Results())
	exists, err := state.BlobSizes().GetElem(hash).Exists()
	if err != nil {
		return err
	}
	if exists {
		return results.Hash().SetValue(hash)
	}

	for _, name := range names {
		if err := state.Fields(hash).GetElem(name).SetValue(fields[name]); err != nil {
			return err
		}
		if err := state.FieldSizes(hash).GetElem(name).SetValue(int32(len(fields[name]))); err != nil {
			return err
		}
	}
	if err := state.BlobSizes().GetElem(hash).SetValue(int32(total)); err != nil {
		return err
	}

	enc := ctx.NewEventEncoder()
	wasmtypes.HashEncode(enc, hash)
	wasmtypes.Int32Encode(enc, int32(total))
	ctx.Event("coreblob.store", enc)
	return results.Hash().SetValue(hash)
}

func viewGetBlobField(ctx *server.ViewContext) error {
	params := NewImmutableGetBlobFieldParams(ctx.Params())
	hash, err := params.Hash().Value()
	if err != nil {
		return err
	}
	field, err := params.Field().Value()
	if err != nil {
		return err
	}
	elem := NewImmutableBlobState(ctx.State()).Fields(hash).GetElem(field)
	exists, err := elem.Exists()
	if err != nil {
		return err
	}
	if err := ctx.Require(exists, "blob field %q not found in %s", field, hash); err != nil {
		return err
	}
	v, err := elem.Value()
	if err != nil {
		return err
	}
	return NewMutableGetBlobFieldResults(ctx.Results()).Bytes().SetValue(v)
}

func viewGetBlobInfo(ctx *server.ViewContext) error {
	hash, err := NewImmutableGetBlobInfoParams(ctx.Params()).Hash().Value()
	if err != nil {
		return err
	}
	state := NewImmutableBlobState(ctx.State())
	exists, err := state.BlobSizes().GetElem(hash).Exists()
	if err != nil {
		return err
	}
	if err := ctx.Require(exists, "blob %s not found", hash); err != nil {
		return err
	}
	sizes := state.FieldSizes(hash)
	names, err := sizes.Keys()
	if err != nil {
		return err
	}
	out := NewMutableGetBlobInfoResults(ctx.Results()).BlobSizes()
	for _, name := range names {
		size, err := sizes.GetElem(name).Value()
		if err != nil {
			return err
		}
		if err := out.GetElem(name).SetValue(size); err != nil {
			return err
		}
	}
	return nil
}

func viewListBlobs(ctx *server.ViewContext) error {
	sizes := NewImmutableBlobState(ctx.State()).BlobSizes()
	hashes, err := sizes.Keys()
	if err != nil {
		return err
	}
	out := NewMutableListBlobsResults(ctx.Results()).BlobSizes()
	for _, hash := range hashes {
		size, err := sizes.GetElem(hash).Value()
		if err != nil {
			return err
		}
		if err := out.GetElem(hash).SetValue(size); err != nil {
			return err
		}
	}
	return nil
}
