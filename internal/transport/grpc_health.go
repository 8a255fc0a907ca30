package transport

import (
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ScannerService is the health service name that tracks scanner readiness.
const ScannerService = "sentinel.Scanner"

// NewGRPCServer builds the gRPC server with the standard interceptor chain
// and the health service registered.
func NewGRPCServer(logger *zap.Logger, healthServer *health.Server) *grpc.Server {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	server := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
	)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(server)

	healthpb.RegisterHealthServer(server, healthServer)
	return server
}

// ReportReadiness marks the node serving and the scanner according to ready.
func ReportReadiness(healthServer *health.Server, scannerReady bool) {
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if scannerReady {
		status = healthpb.HealthCheckResponse_SERVING
	}
	healthServer.SetServingStatus(ScannerService, status)
}
