package grpc

import (
	"context"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"AncientWarfare/modules/kit/tracex"
)

// propagated 是跨进程透传的 ctx 字段与 metadata 头的对应关系。
var propagated = []struct {
	header string
	get    func(context.Context) (string, bool)
	set    func(context.Context, string) context.Context
}{
	{"x-trace-id", tracex.TraceIDFrom, tracex.WithTraceID},
	{"x-span-id", tracex.SpanIDFrom, tracex.WithSpanID},
	{"x-battle-id", tracex.BattleIDFrom, tracex.WithBattleID},
}

// UnaryClientTraceInterceptor 把 ctx 里的 trace/span/battle 写进 outgoing metadata。
func UnaryClientTraceInterceptor() gogrpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *gogrpc.ClientConn, invoker gogrpc.UnaryInvoker, opts ...gogrpc.CallOption) error {
		return invoker(injectTraceToOutgoing(ctx), method, req, reply, cc, opts...)
	}
}

func UnaryServerTraceInterceptor() gogrpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, _ *gogrpc.UnaryServerInfo, handler gogrpc.UnaryHandler) (any, error) {
		return handler(extractTraceFromIncoming(ctx), req)
	}
}

// StreamServerTraceInterceptor 覆盖 health Watch 这类流式调用。
func StreamServerTraceInterceptor() gogrpc.StreamServerInterceptor {
	return func(srv any, ss gogrpc.ServerStream, _ *gogrpc.StreamServerInfo, handler gogrpc.StreamHandler) error {
		return handler(srv, &tracedStream{ServerStream: ss, ctx: extractTraceFromIncoming(ss.Context())})
	}
}

type tracedStream struct {
	gogrpc.ServerStream
	ctx context.Context
}

func (s *tracedStream) Context() context.Context { return s.ctx }

func injectTraceToOutgoing(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	kv := make([]string, 0, 2*len(propagated))
	for _, p := range propagated {
		if v, ok := p.get(ctx); ok {
			kv = append(kv, p.header, v)
		}
	}
	if len(kv) == 0 {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

func extractTraceFromIncoming(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ctx
	}
	for _, p := range propagated {
		if vs := md.Get(p.header); len(vs) > 0 && vs[0] != "" {
			ctx = p.set(ctx, vs[0])
		}
	}
	return ctx
}
