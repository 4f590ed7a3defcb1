package waspgrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"

	"github.com/tadash10/wasp"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// Compile-time interface checks.
var (
	_ wasp.Host          = (*Client)(nil)
	_ wasp.ReceiptWaiter = (*Client)(nil)
)

// Client is a wasp.Host for a remote reference host. It posts every
// request on behalf of one sender.
type Client struct {
	cc     *grpc.ClientConn
	sender wasmtypes.ScAgentID
}

// Dial connects to a remote host.
func Dial(ctx context.Context, addr string, sender wasmtypes.ScAgentID, opts ...grpc.DialOption) (*Client, error) {
	opts = append(opts, grpc.WithDefaultCallOptions(
		grpc.ForceCodec(CramberryCodec{}),
	))
	cc, err := grpc.DialContext(ctx, addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("wasp client: dial %s: %w", addr, err)
	}
	return &Client{cc: cc, sender: sender}, nil
}

func (c *Client) Close() error {
	return c.cc.Close()
}

// Sender returns the agent the client posts as.
func (c *Client) Sender() wasmtypes.ScAgentID { return c.sender }

func (c *Client) invoke(ctx context.Context, method string, req, resp any) error {
	if err := c.cc.Invoke(ctx, fullMethod(method), req, resp); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("wasp client: %s: %w", method, err)
	}
	return nil
}

func (c *Client) PostRequest(ctx context.Context, req wasmrequests.PostRequest) (wasmtypes.ScRequestID, error) {
	msg := &PostRequestMsg{Sender: wasmtypes.AgentIDToBytes(c.sender), Request: req.Bytes()}
	resp := new(PostRequestReply)
	if err := c.invoke(ctx, "PostRequest", msg, resp); err != nil {
		return wasmtypes.ScRequestID{}, err
	}
	if err := errorFromWire(resp.Error); err != nil {
		return wasmtypes.ScRequestID{}, err
	}
	return wasmtypes.RequestIDFromBytes(resp.RequestID)
}

func (c *Client) CallView(ctx context.Context, req wasmrequests.CallRequest) ([]byte, error) {
	resp := new(CallViewReply)
	if err := c.invoke(ctx, "CallView", &CallViewMsg{Request: req.Bytes()}, resp); err != nil {
		return nil, err
	}
	if err := errorFromWire(resp.Error); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) WaitRequest(ctx context.Context, id wasmtypes.ScRequestID) (wasp.Receipt, error) {
	resp := new(WaitRequestReply)
	msg := &WaitRequestMsg{RequestID: wasmtypes.RequestIDToBytes(id)}
	if err := c.invoke(ctx, "WaitRequest", msg, resp); err != nil {
		return wasp.Receipt{}, err
	}
	if err := errorFromWire(resp.Error); err != nil {
		return wasp.Receipt{}, err
	}
	if resp.Receipt == nil {
		return wasp.Receipt{}, fmt.Errorf("wasp client: empty receipt for %s", id)
	}
	return receiptFromWire(resp.Receipt)
}
