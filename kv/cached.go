package kv

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tadash10/wasp/wasmtypes"
)

// Cached keeps recently read values of a store in an LRU cache. Writes go
// through to the store and update the cache, so the store must not be
// mutated behind the Cached wrapper.
type Cached struct {
	store wasmtypes.KVStore
	cache *lru.Cache[string, []byte]
}

// NewCached wraps store with a cache of up to size entries. Absent keys are
// cached too.
func NewCached(store wasmtypes.KVStore, size int) (*Cached, error) {
	cache, err := lru.New[string, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("kv cache: %w", err)
	}
	return &Cached{store: store, cache: cache}, nil
}

func (c *Cached) Get(key []byte) ([]byte, error) {
	if v, ok := c.cache.Get(string(key)); ok {
		return v, nil
	}
	v, err := c.store.Get(key)
	if err != nil {
		return nil, err
	}
	c.cache.Add(string(key), v)
	return v, nil
}

func (c *Cached) Has(key []byte) (bool, error) {
	if v, ok := c.cache.Get(string(key)); ok {
		return v != nil, nil
	}
	return c.store.Has(key)
}

func (c *Cached) Set(key, value []byte) error {
	if err := c.store.Set(key, value); err != nil {
		c.cache.Remove(string(key))
		return err
	}
	c.cache.Add(string(key), append([]byte{}, value...))
	return nil
}

func (c *Cached) Delete(key []byte) error {
	if err := c.store.Delete(key); err != nil {
		c.cache.Remove(string(key))
		return err
	}
	c.cache.Add(string(key), nil)
	return nil
}

func (c *Cached) IterateKeys(prefix []byte, f func(key []byte) bool) error {
	it, ok := c.store.(wasmtypes.KVIterator)
	if !ok {
		return wasmtypes.ErrNotIterable
	}
	return it.IterateKeys(prefix, f)
}

// Apply forwards a batch to the store and drops the touched keys from the
// cache.
func (c *Cached) Apply(mutations map[string][]byte) error {
	for k := range mutations {
		c.cache.Remove(k)
	}
	if batcher, ok := c.store.(Batcher); ok {
		return batcher.Apply(mutations)
	}
	for k, v := range mutations {
		var err error
		if v == nil {
			err = c.store.Delete([]byte(k))
		} else {
			err = c.store.Set([]byte(k), v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of cached entries.
func (c *Cached) Len() int { return c.cache.Len() }
