package wasmtypes

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Codec binds the encode and decode halves of one wire type so that generic
// proxies, collections and containers can work with any schema type.
type Codec[T any] struct {
	Encode func(enc *WasmEncoder, value T)
	Decode func(dec *WasmDecoder) T
	// Required marks types whose absence from the namespace is an error
	// rather than the zero value. Records are required, scalars are not.
	Required bool
}

// ToBytes encodes value as a standalone buffer.
func (c Codec[T]) ToBytes(value T) []byte {
	enc := NewWasmEncoder()
	c.Encode(enc, value)
	return enc.Buf()
}

// FromBytes decodes a standalone buffer. The whole buffer must be consumed.
func (c Codec[T]) FromBytes(buf []byte) (T, error) {
	dec := NewWasmDecoder(buf)
	value := c.Decode(dec)
	if err := dec.Close(); err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

// ----------------------------------------------------------------------------
// bool

func BoolEncode(enc *WasmEncoder, value bool) {
	if value {
		enc.Byte(1)
		return
	}
	enc.Byte(0)
}

func BoolDecode(dec *WasmDecoder) bool {
	b := dec.Byte()
	switch {
	case dec.Err() != nil:
		return false
	case b == 0:
		return false
	case b == 1:
		return true
	}
	dec.Fail(fmt.Errorf("%w: bool byte 0x%02x", ErrInvalidEncoding, b))
	return false
}

// ----------------------------------------------------------------------------
// fixed-width integers, little-endian

func Int8Encode(enc *WasmEncoder, value int8) { enc.Byte(byte(value)) }

func Int8Decode(dec *WasmDecoder) int8 { return int8(dec.Byte()) }

func Uint8Encode(enc *WasmEncoder, value uint8) { enc.Byte(value) }

func Uint8Decode(dec *WasmDecoder) uint8 { return dec.Byte() }

func Int16Encode(enc *WasmEncoder, value int16) { Uint16Encode(enc, uint16(value)) }

func Int16Decode(dec *WasmDecoder) int16 { return int16(Uint16Decode(dec)) }

func Uint16Encode(enc *WasmEncoder, value uint16) {
	enc.FixedBytes(binary.LittleEndian.AppendUint16(nil, value))
}

func Uint16Decode(dec *WasmDecoder) uint16 {
	buf := dec.FixedBytes(ScUint16Length)
	if buf == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(buf)
}

func Int32Encode(enc *WasmEncoder, value int32) { Uint32Encode(enc, uint32(value)) }

func Int32Decode(dec *WasmDecoder) int32 { return int32(Uint32Decode(dec)) }

func Uint32Encode(enc *WasmEncoder, value uint32) {
	enc.FixedBytes(binary.LittleEndian.AppendUint32(nil, value))
}

func Uint32Decode(dec *WasmDecoder) uint32 {
	buf := dec.FixedBytes(ScUint32Length)
	if buf == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(buf)
}

func Int64Encode(enc *WasmEncoder, value int64) { Uint64Encode(enc, uint64(value)) }

func Int64Decode(dec *WasmDecoder) int64 { return int64(Uint64Decode(dec)) }

func Uint64Encode(enc *WasmEncoder, value uint64) {
	enc.FixedBytes(binary.LittleEndian.AppendUint64(nil, value))
}

func Uint64Decode(dec *WasmDecoder) uint64 {
	buf := dec.FixedBytes(ScUint64Length)
	if buf == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(buf)
}

// ----------------------------------------------------------------------------
// variable-length values

func BytesEncode(enc *WasmEncoder, value []byte) { enc.Bytes(value) }

func BytesDecode(dec *WasmDecoder) []byte { return dec.Bytes() }

func StringEncode(enc *WasmEncoder, value string) { enc.Bytes([]byte(value)) }

func StringDecode(dec *WasmDecoder) string {
	buf := dec.Bytes()
	if buf == nil {
		return ""
	}
	if !utf8.Valid(buf) {
		dec.Fail(fmt.Errorf("%w: string is not valid UTF-8", ErrInvalidEncoding))
		return ""
	}
	return string(buf)
}

const (
	ScBoolLength   = 1
	ScUint8Length  = 1
	ScUint16Length = 2
	ScUint32Length = 4
	ScUint64Length = 8
)

var (
	BoolCodec   = Codec[bool]{Encode: BoolEncode, Decode: BoolDecode}
	Int8Codec   = Codec[int8]{Encode: Int8Encode, Decode: Int8Decode}
	Int16Codec  = Codec[int16]{Encode: Int16Encode, Decode: Int16Decode}
	Int32Codec  = Codec[int32]{Encode: Int32Encode, Decode: Int32Decode}
	Int64Codec  = Codec[int64]{Encode: Int64Encode, Decode: Int64Decode}
	Uint8Codec  = Codec[uint8]{Encode: Uint8Encode, Decode: Uint8Decode}
	Uint16Codec = Codec[uint16]{Encode: Uint16Encode, Decode: Uint16Decode}
	Uint32Codec = Codec[uint32]{Encode: Uint32Encode, Decode: Uint32Decode}
	Uint64Codec = Codec[uint64]{Encode: Uint64Encode, Decode: Uint64Decode}
	BytesCodec  = Codec[[]byte]{Encode: BytesEncode, Decode: BytesDecode}
	StringCodec = Codec[string]{Encode: StringEncode, Decode: StringDecode}
)

func BoolToBytes(value bool) []byte { return BoolCodec.ToBytes(value) }
func BoolFromBytes(buf []byte) (bool, error) { return BoolCodec.FromBytes(buf) }
func Int8ToBytes(value int8) []byte { return Int8Codec.ToBytes(value) }
func Int8FromBytes(buf []byte) (int8, error) { return Int8Codec.FromBytes(buf) }
func Int16ToBytes(value int16) []byte { return Int16Codec.ToBytes(value) }
func Int16FromBytes(buf []byte) (int16, error) { return Int16Codec.FromBytes(buf) }
func Int32ToBytes(value int32) []byte { return Int32Codec.ToBytes(value) }
func Int32FromBytes(buf []byte) (int32, error) { return Int32Codec.FromBytes(buf) }
func Int64ToBytes(value int64) []byte { return Int64Codec.ToBytes(value) }
func Int64FromBytes(buf []byte) (int64, error) { return Int64Codec.FromBytes(buf) }
func Uint8ToBytes(value uint8) []byte { return Uint8Codec.ToBytes(value) }
func Uint8FromBytes(buf []byte) (uint8, error) { return Uint8Codec.FromBytes(buf) }
func Uint16ToBytes(value uint16) []byte { return Uint16Codec.ToBytes(value) }
func Uint16FromBytes(buf []byte) (uint16, error) { return Uint16Codec.FromBytes(buf) }
func Uint32ToBytes(value uint32) []byte { return Uint32Codec.ToBytes(value) }
func Uint32FromBytes(buf []byte) (uint32, error) { return Uint32Codec.FromBytes(buf) }
func Uint64ToBytes(value uint64) []byte { return Uint64Codec.ToBytes(value) }
func Uint64FromBytes(buf []byte) (uint64, error) { return Uint64Codec.FromBytes(buf) }
func BytesToBytes(value []byte) []byte { return BytesCodec.ToBytes(value) }
func BytesFromBytes(buf []byte) ([]byte, error) { return BytesCodec.FromBytes(buf) }
func StringToBytes(value string) []byte { return StringCodec.ToBytes(value) }
func StringFromBytes(buf []byte) (string, error) { return StringCodec.FromBytes(buf) }
