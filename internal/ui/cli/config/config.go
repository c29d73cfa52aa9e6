package config

import (
	"os"

	"github.com/isaacphi/playground/internal/appState"
	"github.com/isaacphi/playground/internal/config"
	"github.com/spf13/cobra"
)

var (
	includeSources bool
	schemaOut      string

	ConfigCmd = &cobra.Command{
		Use:   "config [prefix]",
		Short: "View configuration",
		Long:  "Read configuration. If prefix is included, only show configuration under that path. E.g. playground config model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prefix string
			if len(args) > 0 {
				prefix = args[0]
			}
			return appState.Get().Config.PrintConfig(cmd.OutOrStdout(), includeSources, prefix)
		},
	}

	schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema for playground.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if schemaOut == "" {
				return config.WriteJSONSchema(cmd.OutOrStdout())
			}
			f, err := os.Create(schemaOut)
			if err != nil {
				return err
			}
			defer f.Close()
			return config.WriteJSONSchema(f)
		},
	}
)

func init() {
	ConfigCmd.Flags().BoolVarP(&includeSources, "include-sources", "s", false, "Show source file for each configuration value")
	schemaCmd.Flags().StringVarP(&schemaOut, "out", "o", "", "Write the schema to a file instead of stdout")
	ConfigCmd.AddCommand(schemaCmd)
}
