package waspgrpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

const serviceName = "wasp.v1.HostService"

// HostServiceServer is the server-side interface of the host service.
type HostServiceServer interface {
	PostRequest(context.Context, *PostRequestMsg) (*PostRequestReply, error)
	CallView(context.Context, *CallViewMsg) (*CallViewReply, error)
	WaitRequest(context.Context, *WaitRequestMsg) (*WaitRequestReply, error)
}

// RegisterHostServiceServer registers srv on a gRPC server.
func RegisterHostServiceServer(s *grpc.Server, srv HostServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func handlerPostRequest(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(PostRequestMsg)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HostServiceServer).PostRequest(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("PostRequest")}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(HostServiceServer).PostRequest(ctx, req.(*PostRequestMsg))
	})
}

func handlerCallView(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(CallViewMsg)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HostServiceServer).CallView(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("CallView")}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(HostServiceServer).CallView(ctx, req.(*CallViewMsg))
	})
}

func handlerWaitRequest(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	req := new(WaitRequestMsg)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(HostServiceServer).WaitRequest(ctx, req)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod("WaitRequest")}
	return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
		return srv.(HostServiceServer).WaitRequest(ctx, req.(*WaitRequestMsg))
	})
}

// fullMethod builds the full gRPC method path.
func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

// serviceDesc is the manual gRPC service descriptor of the host service.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*HostServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PostRequest", Handler: handlerPostRequest},
		{MethodName: "CallView", Handler: handlerCallView},
		{MethodName: "WaitRequest", Handler: handlerWaitRequest},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wasp/v1/host.cram",
}
