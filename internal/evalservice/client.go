// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     evalservice
// Description: gRPC client for mlox.v1.Evaluator
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package evalservice

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	coregrpc "github.com/msto63/mlox/pkg/core/grpc"
)

// Client calls a remote evaluation service
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
	owned   bool
}

// NewClient wraps an existing connection. Close leaves conn open.
func NewClient(conn *grpc.ClientConn, timeout time.Duration) *Client {
	return &Client{conn: conn, timeout: timeout}
}

// Dial connects to a service at target
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	cfg := coregrpc.DefaultClientConfig(target)
	conn, err := coregrpc.Dial(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, timeout: cfg.Timeout, owned: true}, nil
}

// Evaluate sends one request
func (c *Client) Evaluate(ctx context.Context, source string, mode Mode) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := structpb.NewStruct(map[string]interface{}{
		"source": source,
		"mode":   string(mode),
	})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, MethodEvaluate, req, out); err != nil {
		return nil, err
	}
	return ResponseFromStruct(out)
}

// Close closes the connection if the client opened it
func (c *Client) Close() error {
	if c.owned {
		return c.conn.Close()
	}
	return nil
}
