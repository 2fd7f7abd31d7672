package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"firedam/internal/adapters/httpserver"
	mcpadapter "firedam/internal/adapters/mcp"
	"firedam/internal/bootstrap"
	"firedam/internal/config"
	"firedam/internal/logger"
	"firedam/internal/metrics"
)

var version = "0.1.0"

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile, envFile string

	cmd := &cobra.Command{
		Use:   "firedam-mcp",
		Short: "MCP server for the digital asset catalogue",
		Long: `firedam-mcp exposes read-only search tools over the asset, version and
comment collections and the asset storage bucket.

Examples:
  firedam-mcp --google-credentials sa.json
  firedam-mcp --google-credentials sa.json --transport http --port 8000
  firedam-mcp --backend snapshot --snapshot dam.db`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.LoadOptions{
				ConfigFile: configFile,
				EnvFile:    envFile,
				Flags:      cmd.Flags(),
			})
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file (default firedam.yaml in . or the user config dir)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	config.RegisterFlags(cmd.Flags())
	config.RegisterTransportFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	log, err := logger.New(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := bootstrap.NewBackend(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("connecting backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn("Closing backend", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New()
	if err := m.Register(reg); err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	srv := mcpadapter.NewServer(backend, mcpadapter.Options{
		Version: version,
		Logger:  log,
		Metrics: m,
	})

	switch cfg.Transport.Mode {
	case config.TransportHTTP:
		opts := httpserver.Options{
			Addr:         cfg.Addr(),
			ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
			WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
			CallTimeout:  time.Duration(cfg.HTTP.CallTimeoutSec) * time.Second,
			RateLimit:    cfg.HTTP.RateLimit,
			RateBurst:    cfg.HTTP.RateBurst,
			Logger:       log,
			Metrics:      m,
			Gatherer:     reg,
		}
		handler := server.NewStreamableHTTPServer(srv, server.WithEndpointPath(httpserver.MCPPath))
		router := httpserver.NewRouter(handler, opts)
		return httpserver.Run(ctx, httpserver.New(router, opts), time.Duration(cfg.HTTP.ShutdownSec)*time.Second, log)

	default:
		log.Info("Serving MCP over stdio", zap.String("backend", cfg.Backend))
		return server.ServeStdio(srv)
	}
}
