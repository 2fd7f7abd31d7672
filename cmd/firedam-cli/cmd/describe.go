package cmd

import (
	"github.com/spf13/cobra"

	"firedam/internal/application"
	"firedam/internal/application/commands"
	"firedam/internal/domain"
)

var describeOutput string

var describeCmd = &cobra.Command{
	Use:   "describe [resource]",
	Short: "Show filter keys and fields of the resources",
	Long: `Describe the searchable resources. Without an argument all four are shown.

Examples:
  firedam-cli describe
  firedam-cli describe asset_files --output table`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := application.ValidateOneOf("output", describeOutput, outputFormats); err != nil {
			return err
		}
		resource := ""
		if len(args) == 1 {
			resource = args[0]
		}

		infos, err := commands.NewDescribeCommand(domain.NewRegistry(), resource).Execute(cmd.Context())
		if err != nil {
			return err
		}
		return writeResources(cmd.OutOrStdout(), describeOutput, infos)
	},
}

func init() {
	describeCmd.Flags().StringVarP(&describeOutput, "output", "o", "table", "output format: json, yaml or table")
	rootCmd.AddCommand(describeCmd)
}
