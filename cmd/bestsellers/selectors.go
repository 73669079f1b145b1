package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newSelectorsCmd prints the effective selector set, defaults merged with
// any "selectors" section of the config file.
func newSelectorsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "selectors",
		Short: "Print the effective selector set as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(map[string]any{"selectors": cfg.Selectors}); err != nil {
				return fmt.Errorf("encode selectors: %w", err)
			}
			return enc.Close()
		},
	}
}
