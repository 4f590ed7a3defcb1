package wasmclient

import (
	"fmt"

	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmtypes"
)

// Results exposes the decoded result container of a call.
//
// Getters are lenient: a key that is absent yields the zero value and no
// error. Callers that need a key call Mandatory first.
type Results struct {
	res kv.Dict
}

// NewResultsFromBytes decodes a result container. On failure no field is
// exposed.
func NewResultsFromBytes(buf []byte) (*Results, error) {
	res, err := kv.DictFromBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}
	return &Results{res: res}, nil
}

func (r *Results) Exists(key string) bool {
	_, ok := r.res[key]
	return ok
}

// Mandatory fails with ErrMissingMandatoryField if key is absent.
func (r *Results) Mandatory(key string) error {
	if !r.Exists(key) {
		return fmt.Errorf("%w: %q", ErrMissingMandatoryField, key)
	}
	return nil
}

// Keys lists the result keys in ascending order.
func (r *Results) Keys() []string { return r.res.Keys() }

// Raw returns the encoded value under key, or nil.
func (r *Results) Raw(key string) []byte { return r.res[key] }

// Proxy returns a read-only root proxy over the results.
func (r *Results) Proxy() wasmtypes.Proxy {
	return wasmtypes.NewProxy(kv.NewReadOnly(r.res))
}

func (r *Results) Bytes() []byte { return r.res.Bytes() }

func getResult[T any](r *Results, key string, codec wasmtypes.Codec[T]) (T, error) {
	buf, ok := r.res[key]
	if !ok {
		var zero T
		return zero, nil
	}
	v, err := codec.FromBytes(buf)
	if err != nil {
		return v, fmt.Errorf("result %q: %w", key, err)
	}
	return v, nil
}

func (r *Results) GetBool(key string) (bool, error) {
	return getResult(r, key, wasmtypes.BoolCodec)
}

func (r *Results) GetInt8(key string) (int8, error) {
	return getResult(r, key, wasmtypes.Int8Codec)
}

func (r *Results) GetInt16(key string) (int16, error) {
	return getResult(r, key, wasmtypes.Int16Codec)
}

func (r *Results) GetInt32(key string) (int32, error) {
	return getResult(r, key, wasmtypes.Int32Codec)
}

func (r *Results) GetInt64(key string) (int64, error) {
	return getResult(r, key, wasmtypes.Int64Codec)
}

func (r *Results) GetUint8(key string) (uint8, error) {
	return getResult(r, key, wasmtypes.Uint8Codec)
}

func (r *Results) GetUint16(key string) (uint16, error) {
	return getResult(r, key, wasmtypes.Uint16Codec)
}

func (r *Results) GetUint32(key string) (uint32, error) {
	return getResult(r, key, wasmtypes.Uint32Codec)
}

func (r *Results) GetUint64(key string) (uint64, error) {
	return getResult(r, key, wasmtypes.Uint64Codec)
}

func (r *Results) GetString(key string) (string, error) {
	return getResult(r, key, wasmtypes.StringCodec)
}

func (r *Results) GetBytes(key string) ([]byte, error) {
	return getResult(r, key, wasmtypes.BytesCodec)
}

func (r *Results) GetHash(key string) (wasmtypes.ScHash, error) {
	return getResult(r, key, wasmtypes.HashCodec)
}

func (r *Results) GetHname(key string) (wasmtypes.ScHname, error) {
	return getResult(r, key, wasmtypes.HnameCodec)
}

func (r *Results) GetAddress(key string) (wasmtypes.ScAddress, error) {
	return getResult(r, key, wasmtypes.AddressCodec)
}

func (r *Results) GetAgentID(key string) (wasmtypes.ScAgentID, error) {
	return getResult(r, key, wasmtypes.AgentIDCodec)
}

func (r *Results) GetChainID(key string) (wasmtypes.ScChainID, error) {
	return getResult(r, key, wasmtypes.ChainIDCodec)
}

func (r *Results) GetRequestID(key string) (wasmtypes.ScRequestID, error) {
	return getResult(r, key, wasmtypes.RequestIDCodec)
}

func (r *Results) GetTokenID(key string) (wasmtypes.ScTokenID, error) {
	return getResult(r, key, wasmtypes.TokenIDCodec)
}
