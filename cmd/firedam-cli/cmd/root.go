package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"firedam/internal/application"
	"firedam/internal/bootstrap"
	"firedam/internal/config"
	"firedam/internal/logger"
)

var (
	configFile string
	envFile    string
	log        = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "firedam-cli",
	Short: "Query the digital asset catalogue from the command line",
	Long: `firedam-cli runs the same searches as the MCP server from a terminal.

It can also copy the whole catalogue into a local SQLite snapshot that the
server and the CLI can later query offline with --backend snapshot.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default firedam.yaml in . or the user config dir)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// openBackend loads the configuration and connects the configured backend.
// Commands that only read the registry never call it, so they run without
// credentials.
func openBackend(cmd *cobra.Command) (*application.Backend, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: configFile,
		EnvFile:    envFile,
		Flags:      cmd.Flags(),
	})
	if err != nil {
		return nil, err
	}

	l, err := logger.New(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	log = l

	return bootstrap.NewBackend(cmd.Context(), cfg, log)
}
