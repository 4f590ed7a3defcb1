package server

import (
	"context"
	"fmt"

	"github.com/tadash10/wasp/kv"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// FuncHandler implements a state-mutating function. Returning an error
// fails the request and discards every state change it made.
type FuncHandler func(ctx *FuncContext) error

// ViewHandler implements a read-only view.
type ViewHandler func(ctx *ViewContext) error

// Contract is a native contract program: named entry points and their
// handlers. A func named "init" runs once when the program is deployed.
type Contract struct {
	Name        string
	Description string
	Funcs       map[string]FuncHandler
	Views       map[string]ViewHandler
}

// deployed is a contract program instantiated under a name.
type deployed struct {
	record ContractRecord
	hname  wasmtypes.ScHname
	funcs  map[wasmtypes.ScHname]FuncHandler
	views  map[wasmtypes.ScHname]ViewHandler
}

func instantiate(record ContractRecord, c Contract) *deployed {
	d := &deployed{
		record: record,
		hname:  wasmtypes.NewScHname(record.Name),
		funcs:  make(map[wasmtypes.ScHname]FuncHandler, len(c.Funcs)),
		views:  make(map[wasmtypes.ScHname]ViewHandler, len(c.Views)),
	}
	for name, h := range c.Funcs {
		d.funcs[wasmtypes.NewScHname(name)] = h
	}
	for name, h := range c.Views {
		d.views[wasmtypes.NewScHname(name)] = h
	}
	return d
}

// ----------------------------------------------------------------------------
// FuncContext

// FuncContext is the sandbox of one executing function. Its state, events,
// sends and deployments take effect only if the request succeeds.
type FuncContext struct {
	ctx       context.Context
	srv       *Server
	tx        *execution
	contract  wasmtypes.ScHname
	function  wasmtypes.ScHname
	params    kv.Dict
	results   kv.Dict
	caller    wasmtypes.ScAgentID
	transfer  wasmtypes.ScAssets
	allowance wasmtypes.ScAssets
}

// execution collects the side effects of one request.
type execution struct {
	id        wasmtypes.ScRequestID
	timestamp uint64
	state     *kv.Buffered
	events    []string
	sends     []wasmrequests.SendRequest
	deploys   []*deployed
}

func (c *FuncContext) Context() context.Context { return c.ctx }

// Params returns a read-only root proxy over the call parameters.
func (c *FuncContext) Params() wasmtypes.Proxy {
	return wasmtypes.NewProxy(kv.NewReadOnly(c.params))
}

// Results returns the root proxy the function writes its results to.
func (c *FuncContext) Results() wasmtypes.Proxy {
	return wasmtypes.NewProxy(c.results)
}

// State returns the mutable root proxy of the contract namespace.
func (c *FuncContext) State() wasmtypes.Proxy {
	return wasmtypes.NewProxy(kv.NewPrefixed(c.tx.state, c.contract.Bytes()))
}

func (c *FuncContext) Caller() wasmtypes.ScAgentID { return c.caller }
func (c *FuncContext) Transfer() wasmtypes.ScAssets { return c.transfer.Clone() }
func (c *FuncContext) Allowance() wasmtypes.ScAssets { return c.allowance.Clone() }
func (c *FuncContext) ChainID() wasmtypes.ScChainID { return c.srv.chainID }
func (c *FuncContext) Contract() wasmtypes.ScHname { return c.contract }
func (c *FuncContext) Function() wasmtypes.ScHname { return c.function }
func (c *FuncContext) RequestID() wasmtypes.ScRequestID { return c.tx.id }

// AccountID returns the agent id of the executing contract.
func (c *FuncContext) AccountID() wasmtypes.ScAgentID {
	return wasmtypes.NewScAgentID(c.srv.chainID, c.contract)
}

// Timestamp returns the request execution time in nanoseconds since the
// Unix epoch. It is the same for every call within one request.
func (c *FuncContext) Timestamp() uint64 { return c.tx.timestamp }

// Require returns an error with the formatted message when cond is false.
func (c *FuncContext) Require(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return fmt.Errorf(format, args...)
}

// NewEventEncoder returns an encoder that already holds the timestamp,
// the first field of every event.
func (c *FuncContext) NewEventEncoder() *wasmtypes.WasmEncoder {
	enc := wasmtypes.NewWasmEncoder()
	wasmtypes.Uint64Encode(enc, c.tx.timestamp)
	return enc
}

// Event emits topic with the encoded fields as "topic|hex".
func (c *FuncContext) Event(topic string, enc *wasmtypes.WasmEncoder) {
	c.tx.events = append(c.tx.events, topic+"|"+wasmtypes.HexEncode(enc.Buf()))
}

// Send queues a transfer to an address outside the chain.
func (c *FuncContext) Send(req wasmrequests.SendRequest) {
	c.tx.sends = append(c.tx.sends, req)
}

// ----------------------------------------------------------------------------
// ViewContext

// ViewContext is the sandbox of one view call. State is read-only.
type ViewContext struct {
	ctx      context.Context
	srv      *Server
	contract wasmtypes.ScHname
	function wasmtypes.ScHname
	params   kv.Dict
	results  kv.Dict
}

func (c *ViewContext) Context() context.Context { return c.ctx }

func (c *ViewContext) Params() wasmtypes.Proxy {
	return wasmtypes.NewProxy(kv.NewReadOnly(c.params))
}

func (c *ViewContext) Results() wasmtypes.Proxy {
	return wasmtypes.NewProxy(c.results)
}

// State returns a read-only root proxy of the contract namespace.
func (c *ViewContext) State() wasmtypes.Proxy {
	return wasmtypes.NewProxy(kv.NewReadOnly(kv.NewPrefixed(c.srv.store, c.contract.Bytes())))
}

func (c *ViewContext) ChainID() wasmtypes.ScChainID { return c.srv.chainID }
func (c *ViewContext) Contract() wasmtypes.ScHname { return c.contract }
func (c *ViewContext) Function() wasmtypes.ScHname { return c.function }

func (c *ViewContext) Require(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return fmt.Errorf(format, args...)
}
