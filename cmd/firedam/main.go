package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"firedam/internal/adapters/clipboard"
	"firedam/internal/adapters/tui"
	"firedam/internal/bootstrap"
	"firedam/internal/config"
	"firedam/internal/logger"
	"firedam/internal/ports"
)

var version = "0.1.0"

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configFile, envFile, logFile string

	cmd := &cobra.Command{
		Use:          "firedam",
		Short:        "Terminal explorer for the digital asset catalogue",
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
			return run(cmd.Context(), cfg, logFile)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "config file (default firedam.yaml in . or the user config dir)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file (discarded when empty)")
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg config.Config, logFile string) error {
	log := zap.NewNop()
	if logFile != "" {
		l, err := logger.NewFile(logFile, cfg.Log.Format, cfg.Log.Level)
		if err != nil {
			return err
		}
		log = l
	}
	defer func() { _ = log.Sync() }()

	backend, err := bootstrap.NewBackend(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("connecting backend: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Warn("Closing backend", zap.Error(err))
		}
	}()

	var clip ports.ClipboardWriter
	if clipboard.Available() {
		clip = clipboard.System{}
	} else {
		log.Info("No system clipboard, copy keys disabled")
	}

	app := tui.NewApp(backend, clip)
	app.Explorer().SetTimeout(time.Duration(cfg.HTTP.CallTimeoutSec) * time.Second)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
