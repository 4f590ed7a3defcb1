// Package waspgrpc carries the host boundary over gRPC, using cramberry
// for the message envelopes.
//
// No protobuf code generation is required. Requests, results and receipts
// travel in their own wasmrequests encodings wrapped in small cramberry
// structs, and failures travel in-band so the client can rebuild the
// wasp sentinel errors and request errors.
package waspgrpc

import (
	"fmt"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"google.golang.org/grpc/encoding"
)

const codecName = "cramberry"

// CramberryCodec is the grpc/encoding.Codec of the HostService. It
// marshals the request and reply envelopes of wire.go; their byte fields
// already hold wasm-codec encodings and pass through untouched.
type CramberryCodec struct{}

func (CramberryCodec) Marshal(v any) ([]byte, error) {
	data, err := cramberry.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("wasp grpc: marshal %T: %w", v, err)
	}
	return data, nil
}

func (CramberryCodec) Unmarshal(data []byte, v any) error {
	if err := cramberry.Unmarshal(data, v); err != nil {
		return fmt.Errorf("wasp grpc: unmarshal %T: %w", v, err)
	}
	return nil
}

func (CramberryCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(CramberryCodec{})
}
