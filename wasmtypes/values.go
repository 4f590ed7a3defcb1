package wasmtypes

import (
	"errors"
	"fmt"
)

// ErrMissingValue is returned when a required value is absent from its path.
var ErrMissingValue = errors.New("wasmtypes: missing value")

// ScImmutable is a read-only typed view of one path.
type ScImmutable[T any] struct {
	proxy Proxy
	codec Codec[T]
}

func NewScImmutable[T any](proxy Proxy, codec Codec[T]) ScImmutable[T] {
	return ScImmutable[T]{proxy: proxy, codec: codec}
}

func (v ScImmutable[T]) Proxy() ImmutableProxy { return v.proxy.Immutable() }

func (v ScImmutable[T]) Exists() (bool, error) { return v.proxy.Exists() }

// Value decodes the stored value. An absent value is the zero value unless
// the codec is required, in which case it is ErrMissingValue.
func (v ScImmutable[T]) Value() (T, error) {
	return readValue(v.proxy, v.codec)
}

// ScMutable is a read-write typed view of one path.
type ScMutable[T any] struct {
	proxy Proxy
	codec Codec[T]
}

func NewScMutable[T any](proxy Proxy, codec Codec[T]) ScMutable[T] {
	return ScMutable[T]{proxy: proxy, codec: codec}
}

func (v ScMutable[T]) Proxy() Proxy { return v.proxy }

func (v ScMutable[T]) Exists() (bool, error) { return v.proxy.Exists() }

func (v ScMutable[T]) Value() (T, error) {
	return readValue(v.proxy, v.codec)
}

// SetValue stores the full encoding of value at the path.
func (v ScMutable[T]) SetValue(value T) error {
	return v.proxy.Set(v.codec.ToBytes(value))
}

func (v ScMutable[T]) Delete() error { return v.proxy.Delete() }

// Immutable returns a read-only view of the same path.
func (v ScMutable[T]) Immutable() ScImmutable[T] {
	return ScImmutable[T]{proxy: v.proxy, codec: v.codec}
}

func readValue[T any](proxy Proxy, codec Codec[T]) (T, error) {
	var zero T
	buf, err := proxy.Get()
	if err != nil {
		return zero, err
	}
	if buf == nil {
		if codec.Required {
			return zero, fmt.Errorf("%w at %q", ErrMissingValue, proxy.key)
		}
		return zero, nil
	}
	value, err := codec.FromBytes(buf)
	if err != nil {
		return zero, fmt.Errorf("value at %q: %w", proxy.key, err)
	}
	return value, nil
}
