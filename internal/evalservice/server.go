// ============================================================================
// mlox - Lox expression engine
// ============================================================================
//
// Package:     evalservice
// Description: Runs the gRPC and HTTP endpoints side by side
// Author:      Mike Stoffels
// Created:     2026-10-12
// License:     MIT
// ============================================================================

package evalservice

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/msto63/mlox/pkg/core/config"
	coregrpc "github.com/msto63/mlox/pkg/core/grpc"
	corehealth "github.com/msto63/mlox/pkg/core/health"
	"github.com/msto63/mlox/pkg/core/logging"
)

// shutdownTimeout bounds graceful shutdown of both endpoints
const shutdownTimeout = 5 * time.Second

// Server hosts the evaluation service on gRPC and HTTP/WebSocket
type Server struct {
	service *Service
	grpc    *coregrpc.Server
	http    *http.Server
	health  *health.Server
	cfg     config.ServerConfig
	logger  *logging.Logger
}

// NewServer wires a service to both transports
func NewServer(service *Service, cfg config.ServerConfig) *Server {
	logger := logging.New("evalservice")

	grpcCfg := coregrpc.DefaultServerConfig()
	grpcCfg.Logger = logger
	grpcServer := coregrpc.NewServer(grpcCfg)
	RegisterEvaluatorServer(grpcServer.GRPCServer(), NewGRPCServer(service))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer.GRPCServer(), healthServer)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort),
		Handler:      NewHTTPHandler(service),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	return &Server{
		service: service,
		grpc:    grpcServer,
		http:    httpServer,
		health:  healthServer,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run serves on the given listeners until ctx is done or one endpoint
// fails, then shuts both down
func (s *Server) Run(ctx context.Context, grpcListener, httpListener net.Listener) error {
	errCh := make(chan error, 2)

	s.service.Health().Register(corehealth.TCPCheck("grpc", grpcListener.Addr().String(), time.Second))
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)

	go func() {
		errCh <- s.grpc.Serve(grpcListener)
	}()
	go func() {
		s.logger.Info("HTTP server listening", "address", httpListener.Addr().String())
		err := s.http.Serve(httpListener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutting down evaluation service")
	case runErr = <-errCh:
		s.logger.Error("evaluation service endpoint failed", "error", runErr)
	}

	s.health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.grpc.StopWithTimeout(shutdownCtx)
	if err := s.http.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// ListenAndServe opens the configured addresses and calls Run
func (s *Server) ListenAndServe(ctx context.Context) error {
	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	httpListener, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		grpcListener.Close()
		return fmt.Errorf("failed to listen for HTTP: %w", err)
	}
	return s.Run(ctx, grpcListener, httpListener)
}
