package waspgrpc

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/tadash10/wasp/server"
	"github.com/tadash10/wasp/wasmrequests"
	"github.com/tadash10/wasp/wasmtypes"
)

// Compile-time interface check.
var _ HostServiceServer = (*GRPCServer)(nil)

// GRPCServer exposes a reference host over gRPC.
type GRPCServer struct {
	srv *server.Server
	log *zap.Logger
}

// NewGRPCServer wraps srv. A nil logger falls back to the package logger.
func NewGRPCServer(srv *server.Server, log *zap.Logger) *GRPCServer {
	if log == nil {
		log = Logger()
	}
	return &GRPCServer{srv: srv, log: log}
}

// Register adds the host service to a gRPC server.
func (s *GRPCServer) Register(gs *grpc.Server) {
	RegisterHostServiceServer(gs, s)
}

// NewServer returns a gRPC server with the host service and call logging
// installed.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.logCalls))
	gs := grpc.NewServer(opts...)
	s.Register(gs)
	return gs
}

// Serve starts a gRPC server on the given listener.
func (s *GRPCServer) Serve(lis net.Listener, opts ...grpc.ServerOption) error {
	return s.NewServer(opts...).Serve(lis)
}

// Server returns the underlying server for advanced use.
func (s *GRPCServer) Server() *server.Server {
	return s.srv
}

func (s *GRPCServer) logCalls(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	s.log.Debug("grpc call",
		zap.String("method", info.FullMethod),
		zap.Duration("took", time.Since(start)),
		zap.Error(err),
	)
	return resp, err
}

func (s *GRPCServer) PostRequest(ctx context.Context, msg *PostRequestMsg) (*PostRequestReply, error) {
	sender, err := wasmtypes.AgentIDFromBytes(msg.Sender)
	if err != nil {
		return &PostRequestReply{Error: errorToWire(err)}, nil
	}
	req, err := wasmrequests.NewPostRequestFromBytes(msg.Request)
	if err != nil {
		return &PostRequestReply{Error: errorToWire(err)}, nil
	}
	id, err := s.srv.PostRequest(ctx, sender, req)
	if err != nil {
		return &PostRequestReply{Error: errorToWire(err)}, nil
	}
	return &PostRequestReply{RequestID: wasmtypes.RequestIDToBytes(id)}, nil
}

func (s *GRPCServer) CallView(ctx context.Context, msg *CallViewMsg) (*CallViewReply, error) {
	req, err := wasmrequests.NewCallRequestFromBytes(msg.Request)
	if err != nil {
		return &CallViewReply{Error: errorToWire(err)}, nil
	}
	results, err := s.srv.CallView(ctx, req)
	if err != nil {
		return &CallViewReply{Error: errorToWire(err)}, nil
	}
	return &CallViewReply{Results: results}, nil
}

func (s *GRPCServer) WaitRequest(ctx context.Context, msg *WaitRequestMsg) (*WaitRequestReply, error) {
	id, err := wasmtypes.RequestIDFromBytes(msg.RequestID)
	if err != nil {
		return &WaitRequestReply{Error: errorToWire(err)}, nil
	}
	r, err := s.srv.WaitRequest(ctx, id)
	if err != nil {
		return &WaitRequestReply{Error: errorToWire(err)}, nil
	}
	return &WaitRequestReply{Receipt: receiptToWire(r)}, nil
}
