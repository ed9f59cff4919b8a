package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/simaogato/coinflow-backend/internal/logger"
)

// LoggingInterceptor returns a gRPC unary server interceptor that logs every call
// with its method, status code and duration. The request logger is stored in the
// context so handlers can retrieve it with logger.FromContext.
// Failed calls are logged at warn level, successful ones at info.
func LoggingInterceptor(l *slog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		reqLogger := l.With("method", info.FullMethod)

		resp, err := handler(logger.ToContext(ctx, reqLogger), req)

		code := status.Code(err)
		attrs := []any{"code", code.String(), "duration", time.Since(start)}
		if err != nil {
			reqLogger.Warn("gRPC call failed", append(attrs, "error", err)...)
		} else {
			reqLogger.Info("gRPC call", attrs...)
		}

		return resp, err
	}
}
