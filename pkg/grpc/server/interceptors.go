package server

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

// Probes hit the health service constantly, so they are logged at debug.
func levelFor(method string, err error) zapcore.Level {
	switch {
	case err != nil:
		return zapcore.ErrorLevel
	case strings.HasPrefix(method, "/grpc.health.v1.Health/"):
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

func clientAddr(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return "unknown"
}

func logCall(logger *zap.Logger, ctx context.Context, method string, start time.Time, err error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("client_addr", clientAddr(ctx)),
		zap.Duration("duration", time.Since(start)),
		zap.String("status_code", status.Code(err).String()),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if ce := logger.Check(levelFor(method, err), "gRPC call"); ce != nil {
		ce.Write(fields...)
	}
}

// LoggingInterceptor creates a gRPC unary interceptor for request/response logging.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(logger, ctx, info.FullMethod, start, err)
		return resp, err
	}
}

// StreamLoggingInterceptor logs streaming calls such as health Watch once they end.
func StreamLoggingInterceptor(logger *zap.Logger) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		logCall(logger, ss.Context(), info.FullMethod, start, err)
		return err
	}
}
