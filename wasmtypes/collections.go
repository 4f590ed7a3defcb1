package wasmtypes

// KeyCodec maps map keys to the raw path suffix used to address elements.
// Unlike stored values, keys carry no length prefix.
//
// Size is the encoded width of fixed-size keys and zero for variable ones.
// Maps with variable keys must be flat: their elements cannot be arrays or
// nested maps, since a key may itself contain '.' or '#'.
type KeyCodec[K any] struct {
	Encode func(key K) []byte
	Decode func(buf []byte) (K, error)
	Size   int
}

var (
	StringKey = KeyCodec[string]{
		Encode: func(key string) []byte { return []byte(key) },
		Decode: func(buf []byte) (string, error) { return string(buf), nil },
	}
	BytesKey = KeyCodec[[]byte]{
		Encode: func(key []byte) []byte { return key },
		Decode: func(buf []byte) ([]byte, error) { return buf, nil },
	}
	HashKey    = FixedKey(HashCodec)
	HnameKey   = FixedKey(HnameCodec)
	AgentIDKey = FixedKey(AgentIDCodec)
	TokenIDKey = FixedKey(TokenIDCodec)
)

// FixedKey uses the codec encoding of a fixed-size type as the key.
func FixedKey[K any](codec Codec[K]) KeyCodec[K] {
	var zero K
	return KeyCodec[K]{Encode: codec.ToBytes, Decode: codec.FromBytes, Size: len(codec.ToBytes(zero))}
}

// ----------------------------------------------------------------------------
// arrays

type ScImmutableArray[T any] struct {
	proxy Proxy
	codec Codec[T]
}

func NewScImmutableArray[T any](proxy Proxy, codec Codec[T]) ScImmutableArray[T] {
	return ScImmutableArray[T]{proxy: proxy, codec: codec}
}

func (a ScImmutableArray[T]) Length() (uint32, error) { return a.proxy.Length() }

func (a ScImmutableArray[T]) GetElem(index uint32) ScImmutable[T] {
	return NewScImmutable(a.proxy.Index(index), a.codec)
}

type ScMutableArray[T any] struct {
	proxy Proxy
	codec Codec[T]
}

func NewScMutableArray[T any](proxy Proxy, codec Codec[T]) ScMutableArray[T] {
	return ScMutableArray[T]{proxy: proxy, codec: codec}
}

func (a ScMutableArray[T]) Length() (uint32, error) { return a.proxy.Length() }

func (a ScMutableArray[T]) GetElem(index uint32) ScMutable[T] {
	return NewScMutable(a.proxy.Index(index), a.codec)
}

// AppendElem grows the array and returns the new, still unset, element.
func (a ScMutableArray[T]) AppendElem() (ScMutable[T], error) {
	elem, err := a.proxy.Append()
	if err != nil {
		return ScMutable[T]{}, err
	}
	return NewScMutable(elem, a.codec), nil
}

// Clear removes every element and resets the length to zero.
func (a ScMutableArray[T]) Clear() error { return a.proxy.ClearArray() }

func (a ScMutableArray[T]) Immutable() ScImmutableArray[T] {
	return NewScImmutableArray(a.proxy, a.codec)
}

// ----------------------------------------------------------------------------
// maps

type ScImmutableMap[K, T any] struct {
	proxy Proxy
	keys  KeyCodec[K]
	codec Codec[T]
}

func NewScImmutableMap[K, T any](proxy Proxy, keys KeyCodec[K], codec Codec[T]) ScImmutableMap[K, T] {
	return ScImmutableMap[K, T]{proxy: proxy, keys: keys, codec: codec}
}

func (m ScImmutableMap[K, T]) GetElem(key K) ScImmutable[T] {
	return NewScImmutable(m.proxy.Key(m.keys.Encode(key)), m.codec)
}

// Keys lists the element keys. The namespace must implement KVIterator.
func (m ScImmutableMap[K, T]) Keys() ([]K, error) {
	return mapKeys(m.proxy, m.keys)
}

type ScMutableMap[K, T any] struct {
	proxy Proxy
	keys  KeyCodec[K]
	codec Codec[T]
}

func NewScMutableMap[K, T any](proxy Proxy, keys KeyCodec[K], codec Codec[T]) ScMutableMap[K, T] {
	return ScMutableMap[K, T]{proxy: proxy, keys: keys, codec: codec}
}

func (m ScMutableMap[K, T]) GetElem(key K) ScMutable[T] {
	return NewScMutable(m.proxy.Key(m.keys.Encode(key)), m.codec)
}

func (m ScMutableMap[K, T]) Keys() ([]K, error) {
	return mapKeys(m.proxy, m.keys)
}

// Clear removes every element. The namespace must implement KVIterator.
func (m ScMutableMap[K, T]) Clear() error { return m.proxy.ClearMap() }

func (m ScMutableMap[K, T]) Immutable() ScImmutableMap[K, T] {
	return NewScImmutableMap(m.proxy, m.keys, m.codec)
}

func mapKeys[K any](proxy Proxy, codec KeyCodec[K]) ([]K, error) {
	raw, err := proxy.ChildKeys()
	if err != nil {
		return nil, err
	}
	keys := make([]K, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, r := range raw {
		// Paths below a fixed-size key belong to a nested element.
		if codec.Size > 0 && len(r) > codec.Size && (r[codec.Size] == keySeparator || r[codec.Size] == indexSeparator) {
			r = r[:codec.Size]
		}
		if seen[string(r)] {
			continue
		}
		seen[string(r)] = true
		k, err := codec.Decode(r)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
