package wasmclient

import (
	"fmt"

	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmtypes"
)

// Arguments collects the encoded parameters of one call. Every setter
// stores the codec encoding of the value under a short field key.
type Arguments struct {
	args kv.Dict
}

func NewArguments() *Arguments {
	return &Arguments{args: kv.NewDict()}
}

// Set stores an already encoded value.
func (a *Arguments) Set(key string, value []byte) {
	a.args[key] = append([]byte{}, value...)
}

func (a *Arguments) SetBool(key string, v bool) { a.Set(key, wasmtypes.BoolToBytes(v)) }
func (a *Arguments) SetInt8(key string, v int8) { a.Set(key, wasmtypes.Int8ToBytes(v)) }
func (a *Arguments) SetInt16(key string, v int16) { a.Set(key, wasmtypes.Int16ToBytes(v)) }
func (a *Arguments) SetInt32(key string, v int32) { a.Set(key, wasmtypes.Int32ToBytes(v)) }
func (a *Arguments) SetInt64(key string, v int64) { a.Set(key, wasmtypes.Int64ToBytes(v)) }
func (a *Arguments) SetUint8(key string, v uint8) { a.Set(key, wasmtypes.Uint8ToBytes(v)) }
func (a *Arguments) SetUint16(key string, v uint16) { a.Set(key, wasmtypes.Uint16ToBytes(v)) }
func (a *Arguments) SetUint32(key string, v uint32) { a.Set(key, wasmtypes.Uint32ToBytes(v)) }
func (a *Arguments) SetUint64(key string, v uint64) { a.Set(key, wasmtypes.Uint64ToBytes(v)) }
func (a *Arguments) SetString(key string, v string) { a.Set(key, wasmtypes.StringToBytes(v)) }
func (a *Arguments) SetBytes(key string, v []byte) { a.Set(key, wasmtypes.BytesToBytes(v)) }

func (a *Arguments) SetHash(key string, v wasmtypes.ScHash) { a.Set(key, wasmtypes.HashToBytes(v)) }
func (a *Arguments) SetHname(key string, v wasmtypes.ScHname) { a.Set(key, wasmtypes.HnameToBytes(v)) }

func (a *Arguments) SetAddress(key string, v wasmtypes.ScAddress) {
	a.Set(key, wasmtypes.AddressToBytes(v))
}

func (a *Arguments) SetAgentID(key string, v wasmtypes.ScAgentID) {
	a.Set(key, wasmtypes.AgentIDToBytes(v))
}

func (a *Arguments) SetChainID(key string, v wasmtypes.ScChainID) {
	a.Set(key, wasmtypes.ChainIDToBytes(v))
}

func (a *Arguments) SetRequestID(key string, v wasmtypes.ScRequestID) {
	a.Set(key, wasmtypes.RequestIDToBytes(v))
}

func (a *Arguments) SetTokenID(key string, v wasmtypes.ScTokenID) {
	a.Set(key, wasmtypes.TokenIDToBytes(v))
}

// Mandatory fails with ErrMissingMandatoryField if key was never set.
func (a *Arguments) Mandatory(key string) error {
	if _, ok := a.args[key]; !ok {
		return fmt.Errorf("%w: %q", ErrMissingMandatoryField, key)
	}
	return nil
}

// Proxy returns the root proxy over the arguments. Typed parameter structs
// are built on it.
func (a *Arguments) Proxy() wasmtypes.Proxy {
	return wasmtypes.NewProxy(a.args)
}

// Bytes returns the container encoding of the arguments.
func (a *Arguments) Bytes() []byte {
	return a.args.Bytes()
}
