package kv

import (
	"bytes"
	"slices"
	"sync"

	"github.com/tadash10/wasp/wasmtypes"
)

// ----------------------------------------------------------------------------
// prefixed

type prefixed struct {
	store  wasmtypes.KVStore
	prefix []byte
}

// NewPrefixed returns a view of store in which every key is implicitly
// preceded by prefix.
func NewPrefixed(store wasmtypes.KVStore, prefix []byte) wasmtypes.KVStore {
	return &prefixed{store: store, prefix: append([]byte{}, prefix...)}
}

func (p *prefixed) key(key []byte) []byte {
	k := make([]byte, 0, len(p.prefix)+len(key))
	return append(append(k, p.prefix...), key...)
}

func (p *prefixed) Get(key []byte) ([]byte, error) { return p.store.Get(p.key(key)) }
func (p *prefixed) Has(key []byte) (bool, error) { return p.store.Has(p.key(key)) }
func (p *prefixed) Set(key, value []byte) error { return p.store.Set(p.key(key), value) }
func (p *prefixed) Delete(key []byte) error { return p.store.Delete(p.key(key)) }

func (p *prefixed) IterateKeys(prefix []byte, f func(key []byte) bool) error {
	it, ok := p.store.(wasmtypes.KVIterator)
	if !ok {
		return wasmtypes.ErrNotIterable
	}
	return it.IterateKeys(p.key(prefix), func(key []byte) bool {
		return f(key[len(p.prefix):])
	})
}

// ----------------------------------------------------------------------------
// read-only

type readOnly struct {
	store wasmtypes.KVStore
}

// NewReadOnly returns a view of store that rejects writes with ErrReadOnly.
func NewReadOnly(store wasmtypes.KVStore) wasmtypes.KVStore {
	return readOnly{store: store}
}

func (r readOnly) Get(key []byte) ([]byte, error) { return r.store.Get(key) }
func (r readOnly) Has(key []byte) (bool, error) { return r.store.Has(key) }
func (r readOnly) Set([]byte, []byte) error { return ErrReadOnly }
func (r readOnly) Delete([]byte) error { return ErrReadOnly }

func (r readOnly) IterateKeys(prefix []byte, f func(key []byte) bool) error {
	it, ok := r.store.(wasmtypes.KVIterator)
	if !ok {
		return wasmtypes.ErrNotIterable
	}
	return it.IterateKeys(prefix, f)
}

// ----------------------------------------------------------------------------
// buffered

// Buffered records writes in memory over a base store. Reads see the
// buffered writes first. Nothing reaches the base store until Commit.
type Buffered struct {
	mu        sync.RWMutex
	base      wasmtypes.KVStore
	mutations map[string][]byte
}

func NewBuffered(base wasmtypes.KVStore) *Buffered {
	return &Buffered{base: base, mutations: make(map[string][]byte)}
}

func (b *Buffered) Get(key []byte) ([]byte, error) {
	b.mu.RLock()
	v, ok := b.mutations[string(key)]
	b.mu.RUnlock()
	if ok {
		return v, nil
	}
	return b.base.Get(key)
}

func (b *Buffered) Has(key []byte) (bool, error) {
	b.mu.RLock()
	v, ok := b.mutations[string(key)]
	b.mu.RUnlock()
	if ok {
		return v != nil, nil
	}
	return b.base.Has(key)
}

func (b *Buffered) Set(key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mutations[string(key)] = append([]byte{}, value...)
	return nil
}

func (b *Buffered) Delete(key []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mutations[string(key)] = nil
	return nil
}

// IterateKeys merges the buffered writes with the base store keys.
func (b *Buffered) IterateKeys(prefix []byte, f func(key []byte) bool) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	seen := make(map[string]bool)
	var keys []string
	if it, ok := b.base.(wasmtypes.KVIterator); ok {
		err := it.IterateKeys(prefix, func(key []byte) bool {
			seen[string(key)] = true
			keys = append(keys, string(key))
			return true
		})
		if err != nil {
			return err
		}
	} else if len(b.mutations) == 0 {
		return wasmtypes.ErrNotIterable
	}
	for k := range b.mutations {
		if bytes.HasPrefix([]byte(k), prefix) && !seen[k] {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		if v, ok := b.mutations[k]; ok && v == nil {
			continue
		}
		if !f([]byte(k)) {
			break
		}
	}
	return nil
}

// Len returns the number of buffered mutations.
func (b *Buffered) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.mutations)
}

// Commit writes the buffered mutations to the base store and clears the
// buffer. Stores implementing Batcher apply them atomically.
func (b *Buffered) Commit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.mutations) == 0 {
		return nil
	}
	if batcher, ok := b.base.(Batcher); ok {
		if err := batcher.Apply(b.mutations); err != nil {
			return err
		}
	} else {
		for k, v := range b.mutations {
			var err error
			if v == nil {
				err = b.base.Delete([]byte(k))
			} else {
				err = b.base.Set([]byte(k), v)
			}
			if err != nil {
				return err
			}
		}
	}
	b.mutations = make(map[string][]byte)
	return nil
}

// Discard drops the buffered mutations.
func (b *Buffered) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mutations = make(map[string][]byte)
}
