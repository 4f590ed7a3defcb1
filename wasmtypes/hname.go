package wasmtypes

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

const ScHnameLength = 4

// ScHname is the 32-bit identifier of a contract, function or view.
type ScHname uint32

// NewScHname hashes name into an identifier.
//
// The identifier is the first little-endian 32-bit word of the blake2b-256
// digest that is neither 0 nor 0xffffffff. Both are reserved. If every word
// of the digest is reserved the identifier is 1.
//
// Two distinct names may map to the same identifier. Nothing here detects
// that; names within one contract are chosen by the schema author.
func NewScHname(name string) ScHname {
	digest := blake2b.Sum256([]byte(name))
	for i := 0; i < len(digest); i += ScHnameLength {
		word := binary.LittleEndian.Uint32(digest[i : i+ScHnameLength])
		if word != 0 && word != 0xffffffff {
			return ScHname(word)
		}
	}
	return 1
}

// String renders the identifier as eight lowercase hex digits.
func (h ScHname) String() string {
	return fmt.Sprintf("%08x", uint32(h))
}

func (h ScHname) Bytes() []byte {
	return HnameToBytes(h)
}

// HnameFromString parses the eight hex digit form produced by String. A
// leading "0x" is accepted.
func HnameFromString(s string) (ScHname, error) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	value, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: hname %q", ErrInvalidEncoding, s)
	}
	return ScHname(value), nil
}

func HnameEncode(enc *WasmEncoder, value ScHname) { Uint32Encode(enc, uint32(value)) }

func HnameDecode(dec *WasmDecoder) ScHname { return ScHname(Uint32Decode(dec)) }

var HnameCodec = Codec[ScHname]{Encode: HnameEncode, Decode: HnameDecode}

func HnameToBytes(value ScHname) []byte { return HnameCodec.ToBytes(value) }

func HnameFromBytes(buf []byte) (ScHname, error) { return HnameCodec.FromBytes(buf) }
