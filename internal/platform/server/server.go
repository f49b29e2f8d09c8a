package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ogurasousui/grpc-employee-records/internal/adapters/grpc/employeev1"
	"github.com/ogurasousui/grpc-employee-records/internal/adapters/grpc/handler"
	"github.com/ogurasousui/grpc-employee-records/internal/adapters/grpc/interceptor"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *zap.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
// EmployeeService とヘルスチェックを登録し、パニック回復とアクセスログのインターセプターを適用します。
func New(listenAddr string, svc employee.UseCase, logger *zap.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("grpc")

	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			interceptor.Logging(logger),
			interceptor.Recovery(logger),
		),
	}, opts...)

	srv := grpc.NewServer(opts...)
	employeev1.RegisterEmployeeServiceServer(srv, handler.NewEmployeeGrpcHandler(svc))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus(employeev1.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, healthSrv)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthSrv,
		logger:     logger,
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は与えられたリスナーで待ち受けます。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		s.GracefulStop()
	}()

	s.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルスチェックを NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
