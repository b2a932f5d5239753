// Package grpc 提供战斗服务的 gRPC 健康检查服务端与探针客户端。
package grpc

import (
	"context"
	"fmt"
	"net"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName 是健康检查里登记的服务名。
const ServiceName = "ancientwarfare.battle"

type Server struct {
	srv    *gogrpc.Server
	health *health.Server
	addr   string
}

func NewServer(addr string) *Server {
	srv := gogrpc.NewServer(
		gogrpc.ChainUnaryInterceptor(UnaryServerTraceInterceptor()),
		gogrpc.ChainStreamInterceptor(StreamServerTraceInterceptor()),
	)
	h := health.NewServer()
	healthpb.RegisterHealthServer(srv, h)
	h.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	return &Server{srv: srv, health: h, addr: addr}
}

// SetServing 在依赖（actor 系统、存储）就绪后切换健康状态。
func (s *Server) SetServing(ok bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve 阻塞直到 Stop。
func (s *Server) Serve() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("grpc listen %s: %w", s.addr, err)
	}
	return s.ServeListener(lis)
}

func (s *Server) ServeListener(lis net.Listener) error {
	return s.srv.Serve(lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

// Probe 调用远端健康检查，返回服务状态是否为 SERVING。
func Probe(ctx context.Context, target string) (bool, error) {
	conn, err := gogrpc.NewClient(target,
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithChainUnaryInterceptor(UnaryClientTraceInterceptor()),
	)
	if err != nil {
		return false, fmt.Errorf("dial battle service failed: %w", err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return false, err
	}
	return resp.GetStatus() == healthpb.HealthCheckResponse_SERVING, nil
}
