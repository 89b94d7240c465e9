package main

import (
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  `Print the configuration after applying --config on top of the defaults, as TOML or YAML.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFromContext(cmd.Context())
			return e.config.Encode(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output format: toml, yaml")
	return cmd
}
