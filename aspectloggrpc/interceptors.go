package aspectloggrpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/Station-Manager/aspectlog"
)

// UnaryServerInterceptor observes unary RPC handlers. The request is logged as
// the single argument and the response as the result.
func UnaryServerInterceptor(ic *aspectlog.Interceptor) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !ic.Installed() {
			return handler(ctx, req)
		}
		return ic.Invoke(info.FullMethod, []any{req}, func() (any, error) {
			return handler(ctx, req)
		})
	}
}

// UnaryClientInterceptor observes outgoing unary RPCs. The reply message is
// logged as the result once the invoker returns.
func UnaryClientInterceptor(ic *aspectlog.Interceptor) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		if !ic.Installed() {
			return invoker(ctx, method, req, reply, cc, opts...)
		}
		_, err := ic.Invoke(method, []any{req}, func() (any, error) {
			if err := invoker(ctx, method, req, reply, cc, opts...); err != nil {
				return nil, err
			}
			return reply, nil
		})
		return err
	}
}

// StreamServerInterceptor observes streaming RPC handlers. Streams carry no
// single request or response, so the before-call line has no arguments and
// the after-return line shows a <nil> result.
func StreamServerInterceptor(ic *aspectlog.Interceptor) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if !ic.Installed() {
			return handler(srv, ss)
		}
		return aspectlog.Action(ic, info.FullMethod, func() error {
			return handler(srv, ss)
		})()
	}
}
