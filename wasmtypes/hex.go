package wasmtypes

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HexEncode renders buf as a 0x-prefixed lowercase hex string.
func HexEncode(buf []byte) string {
	return "0x" + hex.EncodeToString(buf)
}

// HexDecode parses a hex string with or without the 0x prefix.
func HexDecode(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	buf, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: hex: %v", ErrInvalidEncoding, err)
	}
	return buf, nil
}

// hexFixed decodes s into exactly size bytes.
func hexFixed(s string, size int, what string) ([]byte, error) {
	buf, err := HexDecode(s)
	if err != nil {
		return nil, err
	}
	if len(buf) != size {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrInvalidEncoding, what, size, len(buf))
	}
	return buf, nil
}
