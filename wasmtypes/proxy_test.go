package wasmtypes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmtypes"
)

func TestProxyPaths(t *testing.T) {
	root := wasmtypes.NewProxy(kv.NewDict())
	require.Empty(t, root.KeyBytes())
	require.Equal(t, []byte("a"), root.Key([]byte("a")).KeyBytes())
	require.Equal(t, []byte("a.b"), root.Key([]byte("a")).Key([]byte("b")).KeyBytes())
	require.Equal(t, []byte("x"), root.Root("x").KeyBytes())
	require.Equal(t, []byte{'a', '#', 2, 0, 0, 0}, root.Key([]byte("a")).Index(2).KeyBytes())
}

func TestDerivingProxiesTouchesNothing(t *testing.T) {
	store := kv.NewDict()
	p := wasmtypes.NewProxy(store).Key([]byte("a")).Index(7).Key([]byte("b"))
	_ = wasmtypes.NewScMutable(p, wasmtypes.StringCodec)
	require.Empty(t, store)
}

func TestProxyIsolation(t *testing.T) {
	store := kv.NewDict()
	root := wasmtypes.NewProxy(store)
	a := wasmtypes.NewScMutable(root.Key([]byte("a")), wasmtypes.Int32Codec)
	ab := wasmtypes.NewScMutable(root.Key([]byte("ab")), wasmtypes.Int32Codec)
	aChild := wasmtypes.NewScMutable(root.Key([]byte("a")).Key([]byte("c")), wasmtypes.Int32Codec)

	require.NoError(t, ab.SetValue(5))
	require.NoError(t, aChild.SetValue(6))
	require.NoError(t, a.SetValue(7))
	require.NoError(t, a.SetValue(8))

	v, err := ab.Value()
	require.NoError(t, err)
	require.Equal(t, int32(5), v)
	v, err = aChild.Value()
	require.NoError(t, err)
	require.Equal(t, int32(6), v)

	require.NoError(t, a.Delete())
	ok, err := a.Exists()
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = ab.Exists()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestValueMissing(t *testing.T) {
	root := wasmtypes.NewProxy(kv.NewDict())

	s := wasmtypes.NewScImmutable(root.Key([]byte("s")), wasmtypes.StringCodec)
	v, err := s.Value()
	require.NoError(t, err)
	require.Equal(t, "", v)

	required := wasmtypes.StringCodec
	required.Required = true
	r := wasmtypes.NewScImmutable(root.Key([]byte("r")), required)
	_, err = r.Value()
	require.ErrorIs(t, err, wasmtypes.ErrMissingValue)
}

func TestValueStoredGarbage(t *testing.T) {
	store := kv.NewDict()
	store["n"] = []byte{1, 2, 3}
	n := wasmtypes.NewScImmutable(wasmtypes.NewProxy(store).Key([]byte("n")), wasmtypes.Uint32Codec)
	_, err := n.Value()
	require.ErrorIs(t, err, wasmtypes.ErrTruncatedBuffer)
}

func TestMutableImmutableShareThePath(t *testing.T) {
	root := wasmtypes.NewProxy(kv.NewDict())
	m := wasmtypes.NewScMutable(root.Key([]byte("h")), wasmtypes.HnameCodec)
	require.NoError(t, m.SetValue(wasmtypes.NewScHname("deposit")))
	v, err := m.Immutable().Value()
	require.NoError(t, err)
	require.Equal(t, wasmtypes.ScHname(0xbdc9102d), v)
}

func TestImmutableProxyCannotWrite(t *testing.T) {
	root := wasmtypes.NewProxy(kv.NewDict())
	m := wasmtypes.NewScMutable(root.Key([]byte("n")), wasmtypes.Uint32Codec)
	require.NoError(t, m.SetValue(7))

	p := m.Immutable().Proxy()
	_, canSet := any(p).(interface{ Set([]byte) error })
	_, canDelete := any(p).(interface{ Delete() error })
	require.False(t, canSet)
	require.False(t, canDelete)

	buf, err := p.Get()
	require.NoError(t, err)
	require.Equal(t, wasmtypes.Uint32ToBytes(7), buf)
	require.Equal(t, []byte("n.x"), p.Key([]byte("x")).KeyBytes())

	ok, err := m.Exists()
	require.NoError(t, err)
	require.True(t, ok)
}

func TestArray(t *testing.T) {
	store := kv.NewDict()
	arr := wasmtypes.NewScMutableArray(wasmtypes.NewProxy(store).Key([]byte("list")), wasmtypes.StringCodec)

	n, err := arr.Length()
	require.NoError(t, err)
	require.Zero(t, n)

	for _, s := range []string{"x", "y", "z"} {
		elem, err := arr.AppendElem()
		require.NoError(t, err)
		require.NoError(t, elem.SetValue(s))
	}
	n, err = arr.Immutable().Length()
	require.NoError(t, err)
	require.Equal(t, uint32(3), n)

	v, err := arr.Immutable().GetElem(1).Value()
	require.NoError(t, err)
	require.Equal(t, "y", v)

	require.NoError(t, arr.Clear())
	require.Empty(t, store)
}

func TestMap(t *testing.T) {
	store := kv.NewDict()
	root := wasmtypes.NewProxy(store)
	m := wasmtypes.NewScMutableMap(root.Key([]byte("m")), wasmtypes.StringKey, wasmtypes.Uint64Codec)
	other := wasmtypes.NewScMutable(root.Key([]byte("mx")), wasmtypes.Uint64Codec)

	require.NoError(t, m.GetElem("one").SetValue(1))
	require.NoError(t, m.GetElem("two").SetValue(2))
	require.NoError(t, other.SetValue(99))
	require.Contains(t, store, "m.one")

	keys, err := m.Immutable().Keys()
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two"}, keys)

	require.NoError(t, m.Clear())
	keys, err = m.Keys()
	require.NoError(t, err)
	require.Empty(t, keys)

	v, err := other.Value()
	require.NoError(t, err)
	require.Equal(t, uint64(99), v)
}

func TestMapAtRoot(t *testing.T) {
	store := kv.NewDict()
	m := wasmtypes.NewScMutableMap(wasmtypes.NewProxy(store), wasmtypes.StringKey, wasmtypes.Int32Codec)
	require.NoError(t, m.GetElem("field").SetValue(3))
	require.Equal(t, wasmtypes.Int32ToBytes(3), store["field"])
}

func TestMapOfNestedElements(t *testing.T) {
	store := kv.NewDict()
	root := wasmtypes.NewProxy(store)
	h1, h2 := wasmtypes.NewScHname("one"), wasmtypes.NewScHname("two")

	lists := wasmtypes.NewScMutableMap(root.Key([]byte("l")), wasmtypes.HnameKey, wasmtypes.BytesCodec)
	arr := wasmtypes.NewScMutableArray(lists.GetElem(h1).Proxy(), wasmtypes.StringCodec)
	for _, s := range []string{"a", "b"} {
		elem, err := arr.AppendElem()
		require.NoError(t, err)
		require.NoError(t, elem.SetValue(s))
	}
	inner := wasmtypes.NewScMutableMap(lists.GetElem(h2).Proxy(), wasmtypes.StringKey, wasmtypes.BoolCodec)
	require.NoError(t, inner.GetElem("x").SetValue(true))
	require.NoError(t, inner.GetElem("y").SetValue(true))

	keys, err := lists.Keys()
	require.NoError(t, err)
	require.ElementsMatch(t, []wasmtypes.ScHname{h1, h2}, keys)
}

func TestMapClearNeedsIterator(t *testing.T) {
	var s wasmtypes.KVStore = struct{ wasmtypes.KVStore }{kv.NewDict()}
	m := wasmtypes.NewScMutableMap(wasmtypes.NewProxy(s), wasmtypes.StringKey, wasmtypes.BoolCodec)
	require.ErrorIs(t, m.Clear(), wasmtypes.ErrNotIterable)
}

func TestAssets(t *testing.T) {
	empty := wasmtypes.ScAssets{}
	require.Empty(t, empty.Bytes())
	back, err := wasmtypes.NewScAssets(nil)
	require.NoError(t, err)
	require.True(t, back.IsEmpty())

	var t1, t2 wasmtypes.ScTokenID
	t1[0], t2[0] = 2, 1
	a := wasmtypes.NewScTransferBaseTokens(100)
	a.Set(t1, 5)
	a.Set(t2, 7)
	require.Equal(t, []wasmtypes.ScTokenID{t2, t1}, a.TokenIDs())

	buf := a.Bytes()
	require.Len(t, buf, 8+1+2*(wasmtypes.ScTokenIDLength+8))
	decoded, err := wasmtypes.NewScAssets(buf)
	require.NoError(t, err)
	require.Equal(t, a, decoded)

	b := a.Clone()
	require.NoError(t, b.Sub(wasmtypes.NewScTransferTokens(t1, 5)))
	require.Zero(t, b.Balance(t1))
	require.Equal(t, uint64(5), a.Balance(t1))
	require.Error(t, b.Sub(wasmtypes.NewScTransferBaseTokens(101)))
	require.Equal(t, uint64(100), b.BaseTokens)

	require.NoError(t, b.Add(wasmtypes.NewScTransferTokens(t1, 1)))
	require.Equal(t, uint64(1), b.Balance(t1))

	full := wasmtypes.NewScTransferTokens(t1, ^uint64(0))
	require.ErrorIs(t, b.Add(full), wasmtypes.ErrAssetsOverflow)
	require.Equal(t, uint64(1), b.Balance(t1))
	require.Equal(t, uint64(100), b.BaseTokens)
	require.ErrorIs(t, b.Add(wasmtypes.NewScTransferBaseTokens(^uint64(0))), wasmtypes.ErrAssetsOverflow)
	require.Equal(t, uint64(100), b.BaseTokens)
}
