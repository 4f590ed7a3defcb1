package wasmtypes

import (
	"errors"
	"fmt"
)

// KVStore is the flat key-value namespace that proxies read and write.
//
// Get returns nil and no error for an absent key. Implementations decide
// their own synchronization; proxies add none.
type KVStore interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVIterator is implemented by namespaces that can enumerate their keys.
// Map clearing and key listing need it.
type KVIterator interface {
	// IterateKeys calls f for every key that starts with prefix until f
	// returns false. The key passed to f is only valid during the call.
	IterateKeys(prefix []byte, f func(key []byte) bool) error
}

// ErrNotIterable is returned by operations that need to enumerate keys on a
// namespace that does not implement KVIterator.
var ErrNotIterable = errors.New("wasmtypes: namespace cannot enumerate keys")

const (
	keySeparator   = '.'
	indexSeparator = '#'
)

// Proxy is a capability to one key path in a namespace. Deriving child
// proxies never touches the namespace.
type Proxy struct {
	store KVStore
	key   []byte
}

// NewProxy returns the root proxy of store. The root path is empty.
func NewProxy(store KVStore) Proxy {
	return Proxy{store: store}
}

func (p Proxy) Store() KVStore { return p.store }

// KeyBytes returns a copy of the path.
func (p Proxy) KeyBytes() []byte {
	return append([]byte{}, p.key...)
}

// Root returns the proxy at the absolute path key.
func (p Proxy) Root(key string) Proxy {
	return Proxy{store: p.store, key: []byte(key)}
}

// Key returns the child at suffix. A child of the empty root path is the
// bare suffix; otherwise the suffix follows a '.' separator.
func (p Proxy) Key(suffix []byte) Proxy {
	if len(p.key) == 0 {
		return Proxy{store: p.store, key: append([]byte{}, suffix...)}
	}
	key := make([]byte, 0, len(p.key)+1+len(suffix))
	key = append(key, p.key...)
	key = append(key, keySeparator)
	key = append(key, suffix...)
	return Proxy{store: p.store, key: key}
}

// Index returns the array element at index. The element path is the base
// path followed by '#' and the little-endian uint32 index.
func (p Proxy) Index(index uint32) Proxy {
	key := make([]byte, 0, len(p.key)+1+ScUint32Length)
	key = append(key, p.key...)
	key = append(key, indexSeparator)
	key = append(key, Uint32ToBytes(index)...)
	return Proxy{store: p.store, key: key}
}

// Length returns the element count of the array rooted at this path.
func (p Proxy) Length() (uint32, error) {
	buf, err := p.Get()
	if err != nil || buf == nil {
		return 0, err
	}
	n, err := Uint32FromBytes(buf)
	if err != nil {
		return 0, fmt.Errorf("array length at %q: %w", p.key, err)
	}
	return n, nil
}

// Append grows the array by one element and returns the new element.
func (p Proxy) Append() (Proxy, error) {
	n, err := p.Length()
	if err != nil {
		return Proxy{}, err
	}
	if err := p.Set(Uint32ToBytes(n + 1)); err != nil {
		return Proxy{}, err
	}
	return p.Index(n), nil
}

// ClearArray deletes every element of the array and its length.
func (p Proxy) ClearArray() error {
	n, err := p.Length()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		if err := p.Index(i).Delete(); err != nil {
			return err
		}
	}
	return p.Delete()
}

// ChildKeys returns the suffixes of every key below this path, as produced
// by Key. The namespace must implement KVIterator.
func (p Proxy) ChildKeys() ([][]byte, error) {
	it, ok := p.store.(KVIterator)
	if !ok {
		return nil, ErrNotIterable
	}
	prefix := p.key
	if len(prefix) != 0 {
		prefix = append(append([]byte{}, p.key...), keySeparator)
	}
	var keys [][]byte
	err := it.IterateKeys(prefix, func(key []byte) bool {
		keys = append(keys, append([]byte{}, key[len(prefix):]...))
		return true
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// ClearMap deletes every key below this path.
func (p Proxy) ClearMap() error {
	keys, err := p.ChildKeys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := p.Key(k).Delete(); err != nil {
			return err
		}
	}
	return nil
}

func (p Proxy) Exists() (bool, error) { return p.store.Has(p.key) }

func (p Proxy) Get() ([]byte, error) { return p.store.Get(p.key) }

func (p Proxy) Set(value []byte) error { return p.store.Set(p.key, value) }

func (p Proxy) Delete() error { return p.store.Delete(p.key) }

// Immutable returns the read-only half of p.
func (p Proxy) Immutable() ImmutableProxy { return ImmutableProxy{p: p} }

// ImmutableProxy is a Proxy that can only derive paths and read. Read-only
// typed values hand out this type so their holders cannot write.
type ImmutableProxy struct {
	p Proxy
}

func (p ImmutableProxy) KeyBytes() []byte { return p.p.KeyBytes() }

func (p ImmutableProxy) Key(suffix []byte) ImmutableProxy { return ImmutableProxy{p: p.p.Key(suffix)} }

func (p ImmutableProxy) Index(index uint32) ImmutableProxy { return ImmutableProxy{p: p.p.Index(index)} }

func (p ImmutableProxy) Length() (uint32, error) { return p.p.Length() }

func (p ImmutableProxy) ChildKeys() ([][]byte, error) { return p.p.ChildKeys() }

func (p ImmutableProxy) Exists() (bool, error) { return p.p.Exists() }

func (p ImmutableProxy) Get() ([]byte, error) { return p.p.Get() }
