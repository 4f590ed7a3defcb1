// Package wasmtypes defines the wire-exact binary codec shared by contract
// clients and contracts, the 32-bit name hash used to address contracts and
// their entry points, and the typed key-path proxies that layer structured
// values over a flat key-value namespace.
//
// The encoding carries no type tags and no version byte. Field order is
// fixed by the schema and both sides must agree on it:
//
//   - fixed-width integers are little-endian,
//   - variable-length values (bytes, strings) carry an unsigned LEB128
//     length prefix followed by the raw bytes,
//   - fixed-size identifiers (hash, chain id, address, request id, token id)
//     are written as raw bytes.
//
// Decoding advances a cursor over the buffer. A short buffer fails with
// [ErrTruncatedBuffer]; bytes left over after a top-level decode fail with
// [ErrTrailingBytes].
package wasmtypes
