package wasmtypes

import (
	"errors"
	"fmt"

	"github.com/multiformats/go-varint"
)

var (
	// ErrTruncatedBuffer is returned when fewer bytes remain than the
	// value being decoded requires.
	ErrTruncatedBuffer = errors.New("wasmtypes: truncated buffer")

	// ErrTrailingBytes is returned when a top-level decode completes with
	// unconsumed bytes left in the buffer.
	ErrTrailingBytes = errors.New("wasmtypes: trailing bytes")

	// ErrInvalidEncoding is returned for byte sequences that can never be
	// produced by the encoder (bool other than 0/1, invalid UTF-8,
	// malformed length prefix).
	ErrInvalidEncoding = errors.New("wasmtypes: invalid encoding")
)

// WasmEncoder appends encoded values to a growing buffer.
type WasmEncoder struct {
	buf []byte
}

func NewWasmEncoder() *WasmEncoder {
	return &WasmEncoder{buf: make([]byte, 0, 128)}
}

// Buf returns the encoded bytes.
func (e *WasmEncoder) Buf() []byte {
	return e.buf
}

func (e *WasmEncoder) Byte(value byte) *WasmEncoder {
	e.buf = append(e.buf, value)
	return e
}

// Bytes appends a length-prefixed byte string.
func (e *WasmEncoder) Bytes(value []byte) *WasmEncoder {
	e.VluEncode(uint64(len(value)))
	e.buf = append(e.buf, value...)
	return e
}

// FixedBytes appends raw bytes without a length prefix. The caller
// guarantees that len(value) equals the schema size of the field.
func (e *WasmEncoder) FixedBytes(value []byte) *WasmEncoder {
	e.buf = append(e.buf, value...)
	return e
}

// VluEncode appends an unsigned LEB128 compact integer.
func (e *WasmEncoder) VluEncode(value uint64) *WasmEncoder {
	e.buf = append(e.buf, varint.ToUvarint(value)...)
	return e
}

// WasmDecoder reads encoded values from a buffer, advancing a cursor.
//
// The first failure is sticky: once a read fails every following read
// returns the zero value and Err/Close report the original failure. This
// lets generated record decoders read all fields unconditionally and check
// for an error once at the end.
type WasmDecoder struct {
	buf []byte
	pos int
	err error
}

func NewWasmDecoder(buf []byte) *WasmDecoder {
	return &WasmDecoder{buf: buf}
}

// Err returns the first decoding failure, if any.
func (d *WasmDecoder) Err() error {
	return d.err
}

// Consumed returns the number of bytes read so far.
func (d *WasmDecoder) Consumed() int {
	return d.pos
}

// Remaining returns the number of unread bytes.
func (d *WasmDecoder) Remaining() int {
	return len(d.buf) - d.pos
}

// Close finishes a top-level decode. It returns the first decoding failure
// or ErrTrailingBytes when bytes are left unconsumed.
func (d *WasmDecoder) Close() error {
	if d.err != nil {
		return d.err
	}
	if rest := d.Remaining(); rest != 0 {
		d.err = fmt.Errorf("%w: %d unconsumed of %d", ErrTrailingBytes, rest, len(d.buf))
	}
	return d.err
}

// Fail records err as the decoder failure unless one is already recorded.
func (d *WasmDecoder) Fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *WasmDecoder) Byte() byte {
	buf := d.FixedBytes(1)
	if buf == nil {
		return 0
	}
	return buf[0]
}

// Bytes reads a length-prefixed byte string. The result is a copy and never
// aliases the decoder buffer.
func (d *WasmDecoder) Bytes() []byte {
	length := d.VluDecode(32)
	if d.err != nil {
		return nil
	}
	buf := d.FixedBytes(uint32(length))
	if buf == nil {
		return nil
	}
	return append([]byte{}, buf...)
}

// FixedBytes returns the next size bytes. The returned slice aliases the
// decoder buffer; callers that keep it must copy.
func (d *WasmDecoder) FixedBytes(size uint32) []byte {
	if d.err != nil {
		return nil
	}
	if uint64(d.Remaining()) < uint64(size) {
		d.err = fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncatedBuffer, size, d.pos, d.Remaining())
		return nil
	}
	buf := d.buf[d.pos : d.pos+int(size)]
	d.pos += int(size)
	return buf
}

// VluDecode reads an unsigned LEB128 compact integer that must fit in the
// given number of bits.
func (d *WasmDecoder) VluDecode(bits int) uint64 {
	if d.err != nil {
		return 0
	}
	value, n, err := varint.FromUvarint(d.buf[d.pos:])
	if err != nil {
		if errors.Is(err, varint.ErrUnderflow) {
			d.err = fmt.Errorf("%w: compact integer at offset %d", ErrTruncatedBuffer, d.pos)
		} else {
			d.err = fmt.Errorf("%w: compact integer at offset %d: %v", ErrInvalidEncoding, d.pos, err)
		}
		return 0
	}
	if bits < 64 && value>>uint(bits) != 0 {
		d.err = fmt.Errorf("%w: compact integer %d exceeds %d bits", ErrInvalidEncoding, value, bits)
		return 0
	}
	d.pos += n
	return value
}
