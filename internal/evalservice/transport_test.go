package evalservice

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/msto63/mlox/pkg/core/config"
	coregrpc "github.com/msto63/mlox/pkg/core/grpc"
	corehealth "github.com/msto63/mlox/pkg/core/health"
	"github.com/msto63/mlox/pkg/core/version"
)

func startGRPC(t *testing.T) (*Client, *grpc.ClientConn) {
	t.Helper()

	listener := bufconn.Listen(1024 * 1024)
	server := coregrpc.NewServer(coregrpc.DefaultServerConfig())
	RegisterEvaluatorServer(server.GRPCServer(), NewGRPCServer(newTestService()))
	go func() { _ = server.Serve(listener) }()
	t.Cleanup(server.Stop)

	conn, err := coregrpc.Dial(coregrpc.DefaultClientConfig("passthrough:///bufnet"),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}))
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn, 5*time.Second), conn
}

func TestGRPC_Evaluate(t *testing.T) {
	client, _ := startGRPC(t)
	ctx := context.Background()

	resp, err := client.Evaluate(ctx, "2 * 3 * 4", ModeEval)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if resp.Value != "24" || resp.Type != "number" || resp.Tree != "(* 2 (* 3 4))" {
		t.Errorf("resp = %+v", resp)
	}

	resp, err = client.Evaluate(ctx, "(1", ModeAST)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if resp.Error == nil || resp.Error.Kind != "syntax" || resp.Error.Rendered != "[line 1] Error: expected ')' after expression" {
		t.Errorf("resp.Error = %+v", resp.Error)
	}

	resp, err = client.Evaluate(ctx, "nil", ModeTokens)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if len(resp.Tokens) != 2 || resp.Tokens[0].Type != "NIL" || resp.Tokens[1].Type != "EOF" {
		t.Errorf("Tokens = %+v", resp.Tokens)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestGRPC_InvalidRequests(t *testing.T) {
	client, conn := startGRPC(t)
	ctx := context.Background()

	_, err := client.Evaluate(ctx, "1", "compile")
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("unknown mode: code = %v, want InvalidArgument", status.Code(err))
	}

	tests := []struct {
		name   string
		fields map[string]interface{}
	}{
		{"missing source", map[string]interface{}{"mode": "eval"}},
		{"non-string source", map[string]interface{}{"source": 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := structpb.NewStruct(tt.fields)
			if err != nil {
				t.Fatalf("NewStruct() error = %v", err)
			}
			err = conn.Invoke(ctx, MethodEvaluate, req, new(structpb.Struct))
			if status.Code(err) != codes.InvalidArgument {
				t.Errorf("code = %v, want InvalidArgument", status.Code(err))
			}
		})
	}
}

func TestResponseStructRoundTrip(t *testing.T) {
	resp, err := newTestService().Evaluate(context.Background(), "1 / 0", ModeEval)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	encoded, err := ResponseToStruct(resp)
	if err != nil {
		t.Fatalf("ResponseToStruct() error = %v", err)
	}
	if encoded.GetFields()["value"].GetStringValue() != "inf" {
		t.Errorf("value field = %v", encoded.GetFields()["value"])
	}

	decoded, err := ResponseFromStruct(encoded)
	if err != nil {
		t.Fatalf("ResponseFromStruct() error = %v", err)
	}
	if decoded.Value != resp.Value || decoded.Tree != resp.Tree || decoded.Mode != resp.Mode {
		t.Errorf("decoded = %+v, want %+v", decoded, resp)
	}
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsReply struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func roundTrip(t *testing.T, conn *websocket.Conn, msg interface{}) wsReply {
	t.Helper()

	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var reply wsReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return reply
}

func TestWebSocket(t *testing.T) {
	server := httptest.NewServer(NewHTTPHandler(newTestService()))
	defer server.Close()
	conn := dialWS(t, server)

	t.Run("eval", func(t *testing.T) {
		reply := roundTrip(t, conn, map[string]interface{}{"type": "eval", "payload": map[string]string{"source": "1 == 1"}})
		if reply.Type != "result" {
			t.Fatalf("type = %q, payload %s", reply.Type, reply.Payload)
		}
		var resp Response
		if err := json.Unmarshal(reply.Payload, &resp); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if resp.Value != "true" || resp.Type != "boolean" {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("lox error", func(t *testing.T) {
		reply := roundTrip(t, conn, map[string]interface{}{"type": "eval", "payload": map[string]string{"source": "1 + nil"}})
		if reply.Type != "error" {
			t.Fatalf("type = %q", reply.Type)
		}
		var resp Response
		if err := json.Unmarshal(reply.Payload, &resp); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if resp.Error == nil || resp.Error.Kind != "runtime" || resp.Error.Lexeme != "+" {
			t.Errorf("resp.Error = %+v", resp.Error)
		}
	})

	t.Run("tokens and ast", func(t *testing.T) {
		reply := roundTrip(t, conn, map[string]interface{}{"type": "tokens", "payload": map[string]string{"source": "true"}})
		if reply.Type != "result" || !strings.Contains(string(reply.Payload), `"TRUE"`) {
			t.Errorf("tokens reply = %s %s", reply.Type, reply.Payload)
		}
		reply = roundTrip(t, conn, map[string]interface{}{"type": "ast", "payload": map[string]string{"source": "!true"}})
		if reply.Type != "result" || !strings.Contains(string(reply.Payload), `"(! true)"`) {
			t.Errorf("ast reply = %s %s", reply.Type, reply.Payload)
		}
	})

	t.Run("ping", func(t *testing.T) {
		reply := roundTrip(t, conn, map[string]interface{}{"type": "ping"})
		if reply.Type != "pong" || !strings.Contains(string(reply.Payload), version.Protocol) {
			t.Errorf("reply = %s %s", reply.Type, reply.Payload)
		}
	})

	t.Run("protocol errors", func(t *testing.T) {
		reply := roundTrip(t, conn, map[string]interface{}{"type": "compile"})
		if reply.Type != "error" || !strings.Contains(string(reply.Payload), "unknown_type") {
			t.Errorf("reply = %s %s", reply.Type, reply.Payload)
		}
		reply = roundTrip(t, conn, map[string]interface{}{"type": "eval", "payload": "not an object"})
		if reply.Type != "error" || !strings.Contains(string(reply.Payload), "invalid_payload") {
			t.Errorf("reply = %s %s", reply.Type, reply.Payload)
		}
	})
}

func TestHealthz(t *testing.T) {
	server := httptest.NewServer(NewHTTPHandler(newTestService()))
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	var body struct {
		Status  string       `json:"status"`
		Version version.Info `json:"version"`
		Checks  []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"checks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" || body.Version.Version != version.Platform {
		t.Errorf("body = %+v", body)
	}
	if len(body.Checks) != 1 || body.Checks[0].Name != "engine" || body.Checks[0].Status != "healthy" {
		t.Errorf("checks = %+v", body.Checks)
	}
}

func TestHealthz_Unhealthy(t *testing.T) {
	service := newTestService()
	service.Health().RegisterFunc("broken", func(ctx context.Context) corehealth.CheckResult {
		return corehealth.CheckResult{Status: corehealth.StatusUnhealthy, Message: "down"}
	})
	server := httptest.NewServer(NewHTTPHandler(service))
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
}

func TestServer_RunAndShutdown(t *testing.T) {
	grpcListener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	httpListener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	server := NewServer(newTestService(), config.Default().Server)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx, grpcListener, httpListener) }()

	client, err := Dial(grpcListener.Addr().String())
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	resp, err := client.Evaluate(context.Background(), "\"ok\"", ModeEval)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if resp.Value != `"ok"` {
		t.Errorf("Value = %q", resp.Value)
	}
	client.Close()

	conn, err := grpc.NewClient(grpcListener.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	healthResp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("health Check() error = %v", err)
	}
	if healthResp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("gRPC health = %v", healthResp.GetStatus())
	}
	conn.Close()

	httpResp, err := http.Get("http://" + httpListener.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	var report struct {
		Status string `json:"status"`
		Checks []struct {
			Name string `json:"name"`
		} `json:"checks"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	httpResp.Body.Close()
	if report.Status != "healthy" || len(report.Checks) != 2 || report.Checks[1].Name != "grpc" {
		t.Errorf("report = %+v", report)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
