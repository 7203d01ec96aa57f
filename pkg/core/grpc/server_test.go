package grpc

import (
	"bytes"
	"context"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/pkg/core/logging"
)

// syncBuffer guards a buffer written from server goroutines
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLogger(out *syncBuffer) *logging.Logger {
	return logging.Wrap(mdwlog.NewWithConfig(mdwlog.Config{
		Level:  mdwlog.LevelDebug,
		Format: mdwlog.FormatText,
		Output: out,
	}), "grpc-test")
}

func startBufconn(t *testing.T, out *syncBuffer) *grpc.ClientConn {
	t.Helper()

	listener := bufconn.Listen(1024 * 1024)
	cfg := DefaultServerConfig()
	cfg.Logger = testLogger(out)
	server := NewServer(cfg)
	healthpb.RegisterHealthServer(server.GRPCServer(), health.NewServer())

	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	clientCfg := DefaultClientConfig("passthrough:///bufnet")
	clientCfg.Logger = testLogger(out)
	conn, err := Dial(clientCfg, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return listener.DialContext(ctx)
	}))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestServer_RequestIDRoundTrip(t *testing.T) {
	var out syncBuffer
	conn := startBufconn(t, &out)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx = WithRequestID(ctx, "req-42")

	var header metadata.MD
	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{}, grpc.Header(&header))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("status = %v, want SERVING", resp.GetStatus())
	}

	if got := header.Get(RequestIDHeader); len(got) != 1 || got[0] != "req-42" {
		t.Errorf("response header %s = %v, want [req-42]", RequestIDHeader, got)
	}

	logs := out.String()
	if !strings.Contains(logs, "gRPC request") || !strings.Contains(logs, "request_id=req-42") {
		t.Errorf("server log missing request entry: %q", logs)
	}
	if !strings.Contains(logs, "gRPC client request") {
		t.Errorf("client log missing: %q", logs)
	}
}

func TestServer_GeneratesRequestID(t *testing.T) {
	var out syncBuffer
	conn := startBufconn(t, &out)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var header metadata.MD
	if _, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{}, grpc.Header(&header)); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	got := header.Get(RequestIDHeader)
	if len(got) != 1 || len(got[0]) != 36 {
		t.Errorf("expected generated uuid request id, got %v", got)
	}
}

func TestServerInterceptor_RecoversPanics(t *testing.T) {
	var out syncBuffer
	interceptor := serverInterceptor(testLogger(&out))
	info := &grpc.UnaryServerInfo{FullMethod: "/mlox.v1.Evaluator/Evaluate"}
	ctx := WithRequestID(context.Background(), "req-7")

	resp, err := interceptor(ctx, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		panic("boom")
	})

	if resp != nil || status.Code(err) != codes.Internal {
		t.Errorf("interceptor() = %v, %v; want nil, Internal", resp, err)
	}
	logs := out.String()
	if !strings.Contains(logs, "gRPC panic recovered") || !strings.Contains(logs, "request_id=req-7") {
		t.Errorf("panic not logged: %q", logs)
	}
	if !strings.Contains(logs, "[WRN]") || !strings.Contains(logs, "status=Internal") {
		t.Errorf("failed call should be logged as a warning: %q", logs)
	}
}

func TestServerInterceptor_PassesRequestID(t *testing.T) {
	var out syncBuffer
	interceptor := serverInterceptor(testLogger(&out))
	info := &grpc.UnaryServerInfo{FullMethod: "/mlox.v1.Evaluator/Evaluate"}
	incoming := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "from-peer"))

	var seen string
	_, err := interceptor(incoming, nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = RequestID(ctx)
		return nil, status.Error(codes.InvalidArgument, "source is required")
	})

	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("code = %v, want InvalidArgument", status.Code(err))
	}
	if seen != "from-peer" {
		t.Errorf("handler saw request id %q, want from-peer", seen)
	}
	if logs := out.String(); !strings.Contains(logs, "[INF]") || !strings.Contains(logs, "status=InvalidArgument") {
		t.Errorf("rejected input should be logged at info: %q", logs)
	}
}

func TestRequestID(t *testing.T) {
	if got := RequestID(context.Background()); got != "" {
		t.Errorf("RequestID() = %q, want empty", got)
	}

	incoming := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "abc"))
	if got := RequestID(incoming); got != "abc" {
		t.Errorf("RequestID() = %q, want abc", got)
	}
	if got := RequestID(WithRequestID(incoming, "override")); got != "override" {
		t.Errorf("RequestID() = %q, want override", got)
	}

	ctx, id := EnsureRequestID(context.Background())
	if len(id) != 36 || RequestID(ctx) != id {
		t.Errorf("EnsureRequestID() = %q, stored %q", id, RequestID(ctx))
	}
	if _, kept := EnsureRequestID(incoming); kept != "abc" {
		t.Errorf("EnsureRequestID() replaced an existing id with %q", kept)
	}
}
