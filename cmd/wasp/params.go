package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmtypes"
)

// encoders turn the textual value of a -p flag into its wire encoding.
var encoders = map[string]func(string) ([]byte, error){
	"string": func(s string) ([]byte, error) { return wasmtypes.StringToBytes(s), nil },
	"bytes": func(s string) ([]byte, error) {
		buf, err := wasmtypes.HexDecode(s)
		return wasmtypes.BytesToBytes(buf), err
	},
	"bool": func(s string) ([]byte, error) {
		v, err := strconv.ParseBool(s)
		return wasmtypes.BoolToBytes(v), err
	},
	"int8":   intEncoder(8, func(v int64) []byte { return wasmtypes.Int8ToBytes(int8(v)) }),
	"int16":  intEncoder(16, func(v int64) []byte { return wasmtypes.Int16ToBytes(int16(v)) }),
	"int32":  intEncoder(32, func(v int64) []byte { return wasmtypes.Int32ToBytes(int32(v)) }),
	"int64":  intEncoder(64, wasmtypes.Int64ToBytes),
	"uint8":  uintEncoder(8, func(v uint64) []byte { return wasmtypes.Uint8ToBytes(uint8(v)) }),
	"uint16": uintEncoder(16, func(v uint64) []byte { return wasmtypes.Uint16ToBytes(uint16(v)) }),
	"uint32": uintEncoder(32, func(v uint64) []byte { return wasmtypes.Uint32ToBytes(uint32(v)) }),
	"uint64": uintEncoder(64, wasmtypes.Uint64ToBytes),
	"hname": func(s string) ([]byte, error) {
		h, err := wasmtypes.HnameFromString(s)
		return wasmtypes.HnameToBytes(h), err
	},
	"hash": func(s string) ([]byte, error) {
		h, err := wasmtypes.HashFromString(s)
		return wasmtypes.HashToBytes(h), err
	},
	"address": func(s string) ([]byte, error) {
		a, err := wasmtypes.AddressFromString(s)
		return wasmtypes.AddressToBytes(a), err
	},
	"agentid": func(s string) ([]byte, error) {
		a, err := wasmtypes.AgentIDFromString(s)
		return wasmtypes.AgentIDToBytes(a), err
	},
	"chainid": func(s string) ([]byte, error) {
		c, err := wasmtypes.ChainIDFromString(s)
		return wasmtypes.ChainIDToBytes(c), err
	},
	"tokenid": func(s string) ([]byte, error) {
		t, err := wasmtypes.TokenIDFromString(s)
		return wasmtypes.TokenIDToBytes(t), err
	},
}

func intEncoder(bits int, enc func(int64) []byte) func(string) ([]byte, error) {
	return func(s string) ([]byte, error) {
		v, err := strconv.ParseInt(s, 0, bits)
		return enc(v), err
	}
}

func uintEncoder(bits int, enc func(uint64) []byte) func(string) ([]byte, error) {
	return func(s string) ([]byte, error) {
		v, err := strconv.ParseUint(s, 0, bits)
		return enc(v), err
	}
}

// parseParams builds an argument container from key=type:value flags.
func parseParams(flags []string) (kv.Dict, error) {
	params := kv.NewDict()
	for _, flag := range flags {
		key, typed, ok := strings.Cut(flag, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("param %q: want key=type:value", flag)
		}
		typ, value, ok := strings.Cut(typed, ":")
		if !ok {
			return nil, fmt.Errorf("param %q: missing type", flag)
		}
		enc, ok := encoders[typ]
		if !ok {
			return nil, fmt.Errorf("param %q: unknown type %q", flag, typ)
		}
		buf, err := enc(value)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", flag, err)
		}
		params[key] = buf
	}
	return params, nil
}

// resolveHname accepts a name or a 0x-prefixed hname.
func resolveHname(s string) (wasmtypes.ScHname, error) {
	if strings.HasPrefix(s, "0x") {
		return wasmtypes.HnameFromString(s)
	}
	return wasmtypes.NewScHname(s), nil
}

// printResults writes one line per result key in key order.
func printResults(w io.Writer, buf []byte) error {
	results, err := kv.DictFromBytes(buf)
	if err != nil {
		return err
	}
	for _, key := range results.Keys() {
		name := key
		if !utf8.ValidString(key) || strings.ContainsFunc(key, func(r rune) bool { return r < ' ' }) {
			name = wasmtypes.HexEncode([]byte(key))
		}
		fmt.Fprintf(w, "%s: %s\n", name, wasmtypes.HexEncode(results[key]))
	}
	return nil
}
