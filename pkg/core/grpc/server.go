package grpc

import (
	"context"
	"net"
	"time"

	"github.com/msto63/mlox/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

// ServerConfig configures the gRPC endpoint of the evaluation service
type ServerConfig struct {
	// MaxRecvMsgSize must exceed the engine's source length limit
	MaxRecvMsgSize    int
	MaxSendMsgSize    int
	KeepaliveInterval time.Duration
	KeepaliveTimeout  time.Duration
	Logger            *logging.Logger
}

// DefaultServerConfig returns a default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		MaxRecvMsgSize:    4 << 20,
		MaxSendMsgSize:    4 << 20,
		KeepaliveInterval: 30 * time.Second,
		KeepaliveTimeout:  10 * time.Second,
	}
}

// Server is a grpc.Server whose unary calls carry request IDs, recover
// from panics and are logged
type Server struct {
	server *grpc.Server
	logger *logging.Logger
}

// NewServer creates a server; opts are applied after the defaults
func NewServer(cfg ServerConfig, opts ...grpc.ServerOption) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("grpc-server")
	}

	serverOpts := append([]grpc.ServerOption{
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    cfg.KeepaliveInterval,
			Timeout: cfg.KeepaliveTimeout,
		}),
		grpc.ChainUnaryInterceptor(serverInterceptor(logger)),
	}, opts...)

	return &Server{
		server: grpc.NewServer(serverOpts...),
		logger: logger,
	}
}

// GRPCServer returns the underlying server for service registration
func (s *Server) GRPCServer() *grpc.Server {
	return s.server
}

// Serve serves on listener until Stop
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("gRPC server listening", "address", listener.Addr().String())
	return s.server.Serve(listener)
}

// Stop waits for pending calls to finish
func (s *Server) Stop() {
	s.server.GracefulStop()
}

// StopWithTimeout stops gracefully until ctx is done, then forcibly
func (s *Server) StopWithTimeout(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.server.Stop()
	}
}
