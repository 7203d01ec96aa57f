package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/msto63/mlox/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDHeader carries the request ID in gRPC metadata
const RequestIDHeader = "x-request-id"

type requestIDKey struct{}

// WithRequestID stores a request ID in ctx
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the ID stored by WithRequestID, else the one sent by
// the peer in incoming metadata, else ""
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(RequestIDHeader); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// EnsureRequestID returns ctx with a request ID, minting a UUID when ctx
// has none
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	id := RequestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	return WithRequestID(ctx, id), id
}

// serverInterceptor tags each call with a request ID and echoes it in the
// response header, turns a handler panic into codes.Internal and logs the
// call once it returns
func serverInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		ctx, id := EnsureRequestID(ctx)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, id))
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				logger.Error("gRPC panic recovered",
					"request_id", id,
					"method", info.FullMethod,
					"panic", r,
					"stack", string(debug.Stack()),
				)
				resp, err = nil, status.Error(codes.Internal, "internal server error")
			}
			logCall(logger, "gRPC request", id, info.FullMethod, err, time.Since(start))
		}()

		return handler(ctx, req)
	}
}

// clientInterceptor sends the request ID of ctx, minting one when absent,
// and logs the call at debug level
func clientInterceptor(logger *logging.Logger) grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		ctx, id := EnsureRequestID(ctx)
		ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, id)
		start := time.Now()

		err := invoker(ctx, method, req, reply, cc, opts...)

		logger.Debug("gRPC client request",
			"request_id", id,
			"method", method,
			"status", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return err
	}
}

// logCall logs server failures at warn level and everything else,
// including rejected input, at info level
func logCall(logger *logging.Logger, message, id, method string, err error, elapsed time.Duration) {
	code := status.Code(err)
	kv := []interface{}{
		"request_id", id,
		"method", method,
		"status", code.String(),
		"duration", elapsed,
	}

	switch code {
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss:
		logger.Warn(message, kv...)
	default:
		logger.Info(message, kv...)
	}
}
