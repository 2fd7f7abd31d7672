package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"firedam/internal/adapters/sqlite"
	"firedam/internal/application"
	"firedam/internal/application/commands"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Copy the catalogue into a local SQLite snapshot",
	Long: `Copy every record of the four resources from the configured backend into a
SQLite file. The file is rewritten in a single transaction; if anything fails,
or the backend returns nothing at all, the previous snapshot is kept.

Examples:
  firedam-cli snapshot --google-credentials sa.json --out dam.db
  firedam-mcp --backend snapshot --snapshot dam.db`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.ValidateRequired("out", snapshotOut); err != nil {
			return err
		}

		backend, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer backend.Close()

		store, err := sqlite.Open(snapshotOut)
		if err != nil {
			return err
		}
		defer store.Close()

		result, err := commands.NewSnapshotCommand(backend, store).Execute(cmd.Context())
		if errors.Is(err, application.ErrEmptySnapshot) {
			log.Warn("Backend returned no records, keeping previous snapshot", zap.String("path", store.Path()))
			return err
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, c := range result.Counts {
			fmt.Fprintf(out, "%-12s %d\n", c.Resource, c.Records)
		}
		fmt.Fprintf(out, "Wrote %d records to %s\n", result.Total(), store.Path())
		return nil
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotOut, "out", "firedam.db", "snapshot file to write")
	rootCmd.AddCommand(snapshotCmd)
}
