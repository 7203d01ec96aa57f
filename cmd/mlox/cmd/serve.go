package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/mlox/foundation/core/log"
	"github.com/msto63/mlox/internal/evalservice"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host     string
		grpcPort int
		httpPort int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve evaluation over gRPC and WebSocket",
		Long: fmt.Sprintf(`Start the evaluation service.

gRPC:      %s
WebSocket: ws://<host>:<http-port>/ws
Health:    http://<host>:<http-port>/healthz

The service stops on SIGINT or SIGTERM.`, evalservice.ServiceName),
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCfg := a.cfg.Server
			if cmd.Flags().Changed("host") {
				serverCfg.Host = host
			}
			if cmd.Flags().Changed("grpc-port") {
				serverCfg.GRPCPort = grpcPort
			}
			if cmd.Flags().Changed("http-port") {
				serverCfg.HTTPPort = httpPort
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}

			service := evalservice.NewService(engine, a.logger,
				evalservice.WithParseCache(serverCfg.ParseCacheSize, serverCfg.ParseCacheTTL.Duration))
			defer service.Close()

			server := evalservice.NewServer(service, serverCfg)

			a.logger.Info("starting evaluation service", mdwlog.Fields{
				"grpc": fmt.Sprintf("%s:%d", serverCfg.Host, serverCfg.GRPCPort),
				"http": fmt.Sprintf("%s:%d", serverCfg.Host, serverCfg.HTTPPort),
			})
			fmt.Fprintf(a.out, "mlox evaluation service: gRPC %s:%d, HTTP %s:%d\n",
				serverCfg.Host, serverCfg.GRPCPort, serverCfg.Host, serverCfg.HTTPPort)

			return server.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config)")
	cmd.Flags().IntVar(&grpcPort, "grpc-port", 0, "gRPC port (default from config)")
	cmd.Flags().IntVar(&httpPort, "http-port", 0, "HTTP/WebSocket port (default from config)")
	return cmd
}
