package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/foomo/recorddescription-mcp/config"
	"github.com/foomo/recorddescription-mcp/mcp"
	"github.com/foomo/recorddescription-mcp/service"
	"github.com/foomo/recorddescription-mcp/service/metrics"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	var httpAddr, endpoint string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long: `Run the MCP server. Without --http the server speaks MCP over stdio and
logs to stderr. With --http it serves the streamable MCP endpoint, the SSE
endpoints and /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			if httpAddr != "" {
				cfg.Server.HTTPAddr = httpAddr
			}
			if endpoint != "" {
				cfg.Server.Endpoint = endpoint
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	serveCmd.Flags().StringVar(&httpAddr, "http", "", "HTTP server address (e.g., ':8080'), stdio when empty")
	serveCmd.Flags().StringVar(&endpoint, "endpoint", "", "Path of the MCP endpoint (default from config)")
	return serveCmd
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	source, httpClient := newSolrClient(cfg)
	svc := service.NewService(logger, source, metrics.New(reg), cfg.ServiceSettings())

	if cfg.Server.HTTPAddr == "" {
		logger.Info("starting MCP server in stdio mode", zap.String("solr", cfg.Solr.URL))
		s := mcp.NewServer(logger, httpClient, svc)
		return server.ServeStdio(s, server.WithErrorLogger(zap.NewStdLog(logger)))
	}

	sseServer := mcp.NewMCPSSEServer(logger, svc, &mcp.SSEServerConfig{
		KeepaliveInterval: cfg.SSE.KeepaliveInterval,
		BufferSize:        cfg.SSE.BufferSize,
		ClientTimeout:     cfg.SSE.ClientTimeout,
	})
	defer sseServer.Close()

	s := mcp.NewServer(logger, httpClient, svc, sseServer)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mcp.NewMcpHTTPSSEServer(logger, s, sseServer, reg, cfg.Server.Endpoint),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting MCP server",
			zap.String("addr", cfg.Server.HTTPAddr),
			zap.String("endpoint", cfg.Server.Endpoint),
			zap.String("solr", cfg.Solr.URL),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve HTTP: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down MCP server")
		// SSE streams only end once their clients are gone
		sseServer.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
