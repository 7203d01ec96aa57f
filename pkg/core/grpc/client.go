package grpc

import (
	"fmt"
	"time"

	"github.com/msto63/mlox/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ClientConfig configures connections to an evaluation service
type ClientConfig struct {
	Target string
	// Timeout bounds each call made through the connection's owner
	Timeout time.Duration
	Logger  *logging.Logger
}

// DefaultClientConfig returns the defaults for target
func DefaultClientConfig(target string) ClientConfig {
	return ClientConfig{Target: target, Timeout: 30 * time.Second}
}

// Dial creates a plaintext client connection that propagates request IDs.
// The connection is established lazily on the first call.
func Dial(cfg ClientConfig, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.New("grpc-client")
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(clientInterceptor(logger)),
	}, opts...)

	conn, err := grpc.NewClient(cfg.Target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", cfg.Target, err)
	}
	return conn, nil
}
