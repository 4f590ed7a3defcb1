package wasmtypes

import (
	"bytes"
	"errors"
	"fmt"
	"math/bits"
	"slices"
)

// ErrAssetsOverflow is returned when adding assets would exceed a uint64
// amount.
var ErrAssetsOverflow = errors.New("wasmtypes: asset amount overflow")

// ScAssets describes an amount of base tokens plus native token balances.
//
// Assets are always carried as a standalone buffer (a transfer, an
// allowance, an account balance). The empty set encodes to an empty buffer;
// otherwise the encoding is the base amount, a compact token count and the
// (token id, amount) pairs in ascending token id order.
type ScAssets struct {
	BaseTokens uint64
	Tokens     map[ScTokenID]uint64
}

// NewScAssets decodes assets from buf.
func NewScAssets(buf []byte) (ScAssets, error) {
	return AssetsCodec.FromBytes(buf)
}

// NewScTransferBaseTokens returns assets holding only base tokens.
func NewScTransferBaseTokens(amount uint64) ScAssets {
	return ScAssets{BaseTokens: amount}
}

// NewScTransferTokens returns assets holding one native token amount.
func NewScTransferTokens(token ScTokenID, amount uint64) ScAssets {
	a := ScAssets{}
	a.Set(token, amount)
	return a
}

func (a ScAssets) Bytes() []byte { return AssetsCodec.ToBytes(a) }

// IsEmpty reports whether the assets hold nothing.
func (a ScAssets) IsEmpty() bool {
	if a.BaseTokens != 0 {
		return false
	}
	for _, amount := range a.Tokens {
		if amount != 0 {
			return false
		}
	}
	return true
}

// Balance returns the amount held of token.
func (a ScAssets) Balance(token ScTokenID) uint64 {
	return a.Tokens[token]
}

// Set sets the amount of token. A zero amount removes the token.
func (a *ScAssets) Set(token ScTokenID, amount uint64) {
	if amount == 0 {
		delete(a.Tokens, token)
		return
	}
	if a.Tokens == nil {
		a.Tokens = make(map[ScTokenID]uint64)
	}
	a.Tokens[token] = amount
}

// TokenIDs returns the held token ids in ascending order.
func (a ScAssets) TokenIDs() []ScTokenID {
	ids := make([]ScTokenID, 0, len(a.Tokens))
	for id, amount := range a.Tokens {
		if amount != 0 {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(x, y ScTokenID) int { return bytes.Compare(x[:], y[:]) })
	return ids
}

// Clone returns a deep copy.
func (a ScAssets) Clone() ScAssets {
	c := ScAssets{BaseTokens: a.BaseTokens}
	for id, amount := range a.Tokens {
		c.Set(id, amount)
	}
	return c
}

// Add adds other to a. It fails without modifying a when any resulting
// amount would overflow.
func (a *ScAssets) Add(other ScAssets) error {
	if _, carry := bits.Add64(a.BaseTokens, other.BaseTokens, 0); carry != 0 {
		return fmt.Errorf("%w: base tokens", ErrAssetsOverflow)
	}
	for id, amount := range other.Tokens {
		if _, carry := bits.Add64(a.Tokens[id], amount, 0); carry != 0 {
			return fmt.Errorf("%w: token %s", ErrAssetsOverflow, id)
		}
	}
	a.BaseTokens += other.BaseTokens
	for id, amount := range other.Tokens {
		a.Set(id, a.Tokens[id]+amount)
	}
	return nil
}

// Covers reports whether a holds at least other.
func (a ScAssets) Covers(other ScAssets) bool {
	if a.BaseTokens < other.BaseTokens {
		return false
	}
	for id, amount := range other.Tokens {
		if a.Tokens[id] < amount {
			return false
		}
	}
	return true
}

// Sub removes other from a. It fails without modifying a when a does not
// cover other.
func (a *ScAssets) Sub(other ScAssets) error {
	if !a.Covers(other) {
		return fmt.Errorf("insufficient assets: have %s, need %s", a, other)
	}
	a.BaseTokens -= other.BaseTokens
	for id, amount := range other.Tokens {
		a.Set(id, a.Tokens[id]-amount)
	}
	return nil
}

func (a ScAssets) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "base=%d", a.BaseTokens)
	for _, id := range a.TokenIDs() {
		fmt.Fprintf(&b, " %s=%d", id, a.Tokens[id])
	}
	return b.String()
}

func AssetsEncode(enc *WasmEncoder, value ScAssets) {
	if value.IsEmpty() {
		return
	}
	Uint64Encode(enc, value.BaseTokens)
	ids := value.TokenIDs()
	enc.VluEncode(uint64(len(ids)))
	for _, id := range ids {
		TokenIDEncode(enc, id)
		Uint64Encode(enc, value.Tokens[id])
	}
}

// AssetsDecode reads assets up to the end of the buffer. An exhausted
// buffer yields empty assets.
func AssetsDecode(dec *WasmDecoder) ScAssets {
	var a ScAssets
	if dec.Err() != nil || dec.Remaining() == 0 {
		return a
	}
	a.BaseTokens = Uint64Decode(dec)
	count := dec.VluDecode(32)
	var prev *ScTokenID
	for i := uint64(0); i < count && dec.Err() == nil; i++ {
		id := TokenIDDecode(dec)
		amount := Uint64Decode(dec)
		if dec.Err() != nil {
			break
		}
		if prev != nil && bytes.Compare(prev[:], id[:]) >= 0 {
			dec.Fail(fmt.Errorf("%w: token ids out of order", ErrInvalidEncoding))
			break
		}
		a.Set(id, amount)
		prev = &id
	}
	return a
}

var AssetsCodec = Codec[ScAssets]{Encode: AssetsEncode, Decode: AssetsDecode}
