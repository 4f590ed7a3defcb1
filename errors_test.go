package wasp

import (
	"fmt"
	"testing"

	"github.com/tadash10/wasp/wasmtypes"
)

func TestRequestError(t *testing.T) {
	err := NewRequestError(0x3c4b5e02, 0x9dcc0f41, "insufficient funds")
	if err.Contract != 0x3c4b5e02 {
		t.Errorf("expected contract 3c4b5e02, got %s", err.Contract)
	}
	if err.Reason != "insufficient funds" {
		t.Errorf("unexpected reason: %s", err.Reason)
	}

	expected := "request 3c4b5e02::9dcc0f41 failed: insufficient funds"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestIsRequestError(t *testing.T) {
	reqErr := NewRequestError(1, 2, "boom")

	// Direct.
	r, ok := IsRequestError(reqErr)
	if !ok {
		t.Fatal("expected IsRequestError to return true")
	}
	if r.Function != 2 {
		t.Errorf("expected function 2, got %s", r.Function)
	}

	// Wrapped.
	wrapped := fmt.Errorf("wrapped: %w", reqErr)
	r2, ok2 := IsRequestError(wrapped)
	if !ok2 {
		t.Fatal("expected IsRequestError to unwrap wrapped error")
	}
	if r2.Reason != "boom" {
		t.Errorf("expected reason boom, got %s", r2.Reason)
	}

	// Other errors.
	if _, ok := IsRequestError(ErrUnknownContract); ok {
		t.Fatal("expected IsRequestError to return false for a sentinel")
	}

	// Nil.
	if _, ok := IsRequestError(nil); ok {
		t.Fatal("expected IsRequestError to return false for nil")
	}
}

func TestReceiptErr(t *testing.T) {
	ok := Receipt{Contract: 1, Function: 2}
	if ok.Err() != nil {
		t.Fatalf("expected nil error for successful receipt, got %v", ok.Err())
	}

	failed := Receipt{
		RequestID: wasmtypes.NewScRequestID([32]byte{1}, 0),
		Contract:  1,
		Function:  2,
		Error:     "nope",
	}
	r, isReq := IsRequestError(failed.Err())
	if !isReq {
		t.Fatal("expected receipt error to be a RequestError")
	}
	if r.Contract != 1 || r.Function != 2 || r.Reason != "nope" {
		t.Errorf("unexpected request error: %+v", r)
	}
}
