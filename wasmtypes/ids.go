package wasmtypes

import (
	"encoding/binary"
	"fmt"
)

const (
	ScHashLength      = 32
	ScChainIDLength   = 32
	ScAddressLength   = 33
	ScAgentIDLength   = ScAddressLength + ScHnameLength
	ScRequestIDLength = 34
	ScTokenIDLength   = 38
)

// Address kinds. The kind is the first byte of an encoded address.
const (
	ScAddressEd25519 byte = 0x00
	ScAddressAlias   byte = 0x08
	ScAddressNFT     byte = 0x10
)

// ----------------------------------------------------------------------------
// ScHash

type ScHash [ScHashLength]byte

func (h ScHash) Bytes() []byte { return HashToBytes(h) }
func (h ScHash) String() string { return HexEncode(h[:]) }

// HashFromString parses the hex form produced by String.
func HashFromString(s string) (ScHash, error) {
	var h ScHash
	buf, err := hexFixed(s, ScHashLength, "hash")
	if err != nil {
		return h, err
	}
	copy(h[:], buf)
	return h, nil
}

func HashEncode(enc *WasmEncoder, value ScHash) { enc.FixedBytes(value[:]) }

func HashDecode(dec *WasmDecoder) (h ScHash) {
	copy(h[:], dec.FixedBytes(ScHashLength))
	return h
}

// ----------------------------------------------------------------------------
// ScChainID

type ScChainID [ScChainIDLength]byte

func (c ScChainID) Bytes() []byte { return ChainIDToBytes(c) }
func (c ScChainID) String() string { return HexEncode(c[:]) }

// Address returns the alias address that controls the chain.
func (c ScChainID) Address() ScAddress {
	var a ScAddress
	a[0] = ScAddressAlias
	copy(a[1:], c[:])
	return a
}

func ChainIDFromString(s string) (ScChainID, error) {
	var c ScChainID
	buf, err := hexFixed(s, ScChainIDLength, "chain id")
	if err != nil {
		return c, err
	}
	copy(c[:], buf)
	return c, nil
}

func ChainIDEncode(enc *WasmEncoder, value ScChainID) { enc.FixedBytes(value[:]) }

func ChainIDDecode(dec *WasmDecoder) (c ScChainID) {
	copy(c[:], dec.FixedBytes(ScChainIDLength))
	return c
}

// ----------------------------------------------------------------------------
// ScAddress

// ScAddress is a kind byte followed by a 32-byte digest.
type ScAddress [ScAddressLength]byte

// NewScAddress builds an address of the given kind.
func NewScAddress(kind byte, digest [32]byte) ScAddress {
	var a ScAddress
	a[0] = kind
	copy(a[1:], digest[:])
	return a
}

func (a ScAddress) Kind() byte { return a[0] }
func (a ScAddress) Bytes() []byte { return AddressToBytes(a) }
func (a ScAddress) String() string { return HexEncode(a[:]) }
func (a ScAddress) AsAgentID() ScAgentID { return ScAgentID{Address: a} }

func AddressFromString(s string) (ScAddress, error) {
	var a ScAddress
	buf, err := hexFixed(s, ScAddressLength, "address")
	if err != nil {
		return a, err
	}
	copy(a[:], buf)
	return a, nil
}

func AddressEncode(enc *WasmEncoder, value ScAddress) { enc.FixedBytes(value[:]) }

func AddressDecode(dec *WasmDecoder) (a ScAddress) {
	copy(a[:], dec.FixedBytes(ScAddressLength))
	return a
}

// ----------------------------------------------------------------------------
// ScAgentID

// ScAgentID identifies an account owner: either a plain address (zero
// hname) or a contract on the chain behind the address.
type ScAgentID struct {
	Address ScAddress
	Hname   ScHname
}

// NewScAgentID returns the agent id of contract hname on chain.
func NewScAgentID(chain ScChainID, hname ScHname) ScAgentID {
	return ScAgentID{Address: chain.Address(), Hname: hname}
}

// IsAddress reports whether the agent is a plain address.
func (a ScAgentID) IsAddress() bool { return a.Hname == 0 }

func (a ScAgentID) Bytes() []byte { return AgentIDToBytes(a) }

func (a ScAgentID) String() string {
	return a.Address.String() + "@" + a.Hname.String()
}

// AgentIDFromString parses the form produced by String.
func AgentIDFromString(s string) (ScAgentID, error) {
	var id ScAgentID
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != '@' {
			continue
		}
		addr, err := AddressFromString(s[:i])
		if err != nil {
			return id, err
		}
		hname, err := HnameFromString(s[i+1:])
		if err != nil {
			return id, err
		}
		return ScAgentID{Address: addr, Hname: hname}, nil
	}
	return id, fmt.Errorf("%w: agent id %q has no '@'", ErrInvalidEncoding, s)
}

func AgentIDEncode(enc *WasmEncoder, value ScAgentID) {
	AddressEncode(enc, value.Address)
	HnameEncode(enc, value.Hname)
}

func AgentIDDecode(dec *WasmDecoder) ScAgentID {
	return ScAgentID{
		Address: AddressDecode(dec),
		Hname:   HnameDecode(dec),
	}
}

// ----------------------------------------------------------------------------
// ScRequestID

// ScRequestID is a 32-byte transaction id followed by a little-endian
// uint16 output index.
type ScRequestID [ScRequestIDLength]byte

// NewScRequestID builds a request id from its parts.
func NewScRequestID(txID [32]byte, index uint16) ScRequestID {
	var r ScRequestID
	copy(r[:], txID[:])
	binary.LittleEndian.PutUint16(r[32:], index)
	return r
}

func (r ScRequestID) TransactionID() (tx [32]byte) {
	copy(tx[:], r[:32])
	return tx
}

func (r ScRequestID) OutputIndex() uint16 { return binary.LittleEndian.Uint16(r[32:]) }
func (r ScRequestID) Bytes() []byte { return RequestIDToBytes(r) }
func (r ScRequestID) String() string { return HexEncode(r[:]) }

func RequestIDFromString(s string) (ScRequestID, error) {
	var r ScRequestID
	buf, err := hexFixed(s, ScRequestIDLength, "request id")
	if err != nil {
		return r, err
	}
	copy(r[:], buf)
	return r, nil
}

func RequestIDEncode(enc *WasmEncoder, value ScRequestID) { enc.FixedBytes(value[:]) }

func RequestIDDecode(dec *WasmDecoder) (r ScRequestID) {
	copy(r[:], dec.FixedBytes(ScRequestIDLength))
	return r
}

// ----------------------------------------------------------------------------
// ScTokenID

type ScTokenID [ScTokenIDLength]byte

func (t ScTokenID) Bytes() []byte { return TokenIDToBytes(t) }
func (t ScTokenID) String() string { return HexEncode(t[:]) }

func TokenIDFromString(s string) (ScTokenID, error) {
	var t ScTokenID
	buf, err := hexFixed(s, ScTokenIDLength, "token id")
	if err != nil {
		return t, err
	}
	copy(t[:], buf)
	return t, nil
}

func TokenIDEncode(enc *WasmEncoder, value ScTokenID) { enc.FixedBytes(value[:]) }

func TokenIDDecode(dec *WasmDecoder) (t ScTokenID) {
	copy(t[:], dec.FixedBytes(ScTokenIDLength))
	return t
}

// ----------------------------------------------------------------------------

var (
	HashCodec      = Codec[ScHash]{Encode: HashEncode, Decode: HashDecode}
	ChainIDCodec   = Codec[ScChainID]{Encode: ChainIDEncode, Decode: ChainIDDecode}
	AddressCodec   = Codec[ScAddress]{Encode: AddressEncode, Decode: AddressDecode}
	AgentIDCodec   = Codec[ScAgentID]{Encode: AgentIDEncode, Decode: AgentIDDecode}
	RequestIDCodec = Codec[ScRequestID]{Encode: RequestIDEncode, Decode: RequestIDDecode}
	TokenIDCodec   = Codec[ScTokenID]{Encode: TokenIDEncode, Decode: TokenIDDecode}
)

func HashToBytes(value ScHash) []byte { return HashCodec.ToBytes(value) }
func HashFromBytes(buf []byte) (ScHash, error) { return HashCodec.FromBytes(buf) }
func ChainIDToBytes(value ScChainID) []byte { return ChainIDCodec.ToBytes(value) }
func ChainIDFromBytes(buf []byte) (ScChainID, error) { return ChainIDCodec.FromBytes(buf) }
func AddressToBytes(value ScAddress) []byte { return AddressCodec.ToBytes(value) }
func AddressFromBytes(buf []byte) (ScAddress, error) { return AddressCodec.FromBytes(buf) }
func AgentIDToBytes(value ScAgentID) []byte { return AgentIDCodec.ToBytes(value) }
func AgentIDFromBytes(buf []byte) (ScAgentID, error) { return AgentIDCodec.FromBytes(buf) }
func RequestIDToBytes(value ScRequestID) []byte { return RequestIDCodec.ToBytes(value) }
func RequestIDFromBytes(buf []byte) (ScRequestID, error) { return RequestIDCodec.FromBytes(buf) }
func TokenIDToBytes(value ScTokenID) []byte { return TokenIDCodec.ToBytes(value) }
func TokenIDFromBytes(buf []byte) (ScTokenID, error) { return TokenIDCodec.FromBytes(buf) }
