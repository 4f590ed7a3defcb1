// Package kv provides key-value namespaces for wasmtypes proxies: an
// in-memory Dict, prefixed, read-only and buffered views, persistent Badger
// and LevelDB stores and an LRU read cache.
package kv

import (
	"bytes"
	"errors"
	"fmt"
	"slices"

	"github.com/tadash10/wasp/wasmtypes"
)

// ErrReadOnly is returned by writes through a read-only view.
var ErrReadOnly = errors.New("kv: namespace is read-only")

// Batcher is implemented by stores that can apply a set of mutations
// atomically. A nil value in the mutation map deletes the key.
type Batcher interface {
	Apply(mutations map[string][]byte) error
}

// Dict is an in-memory namespace. It is also the argument and result
// container exchanged with the host.
//
// A Dict is not safe for concurrent use.
type Dict map[string][]byte

func NewDict() Dict {
	return make(Dict)
}

// DictFromBytes decodes the container encoding produced by Bytes.
func DictFromBytes(buf []byte) (Dict, error) {
	dec := wasmtypes.NewWasmDecoder(buf)
	d := DecodeDict(dec)
	if err := dec.Close(); err != nil {
		return nil, fmt.Errorf("decode dict: %w", err)
	}
	return d, nil
}

// DecodeDict reads a compact entry count followed by key/value pairs in
// ascending key order.
func DecodeDict(dec *wasmtypes.WasmDecoder) Dict {
	count := dec.VluDecode(32)
	d := make(Dict)
	var prev []byte
	for i := uint64(0); i < count && dec.Err() == nil; i++ {
		key := dec.Bytes()
		value := dec.Bytes()
		if dec.Err() != nil {
			break
		}
		if i > 0 && bytes.Compare(prev, key) >= 0 {
			dec.Fail(fmt.Errorf("%w: dict keys out of order", wasmtypes.ErrInvalidEncoding))
			break
		}
		d[string(key)] = value
		prev = key
	}
	if dec.Err() != nil {
		return nil
	}
	return d
}

// Encode writes the container encoding of d.
func (d Dict) Encode(enc *wasmtypes.WasmEncoder) {
	keys := d.Keys()
	enc.VluEncode(uint64(len(keys)))
	for _, k := range keys {
		enc.Bytes([]byte(k))
		enc.Bytes(d[k])
	}
}

func (d Dict) Bytes() []byte {
	enc := wasmtypes.NewWasmEncoder()
	d.Encode(enc)
	return enc.Buf()
}

// Keys returns the keys in ascending order.
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (d Dict) Clone() Dict {
	c := make(Dict, len(d))
	for k, v := range d {
		c[k] = append([]byte{}, v...)
	}
	return c
}

func (d Dict) Get(key []byte) ([]byte, error) {
	v, ok := d[string(key)]
	if !ok {
		return nil, nil
	}
	return v, nil
}

func (d Dict) Has(key []byte) (bool, error) {
	_, ok := d[string(key)]
	return ok, nil
}

func (d Dict) Set(key, value []byte) error {
	d[string(key)] = append([]byte{}, value...)
	return nil
}

func (d Dict) Delete(key []byte) error {
	delete(d, string(key))
	return nil
}

// IterateKeys visits matching keys in ascending order.
func (d Dict) IterateKeys(prefix []byte, f func(key []byte) bool) error {
	for _, k := range d.Keys() {
		if !bytes.HasPrefix([]byte(k), prefix) {
			continue
		}
		if !f([]byte(k)) {
			break
		}
	}
	return nil
}

func (d Dict) Apply(mutations map[string][]byte) error {
	for k, v := range mutations {
		if v == nil {
			delete(d, k)
			continue
		}
		d[k] = v
	}
	return nil
}
