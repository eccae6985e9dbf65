package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cramp/pkg/config"
)

func (a *app) newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	var output string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show resolved configuration",
		Long: `Display the fully resolved configuration after applying all sources:
defaults, config files, environment variables and CLI flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch output {
			case outputYAML:
				_, err := fmt.Fprint(cmd.OutOrStdout(), a.cfg.String())
				return err
			case outputJSON:
				return writeStructured(cmd.OutOrStdout(), outputJSON, a.cfg)
			}
			return &ExitError{Code: exitValidation, Err: fmt.Errorf("invalid --output %q: use yaml or json", output)}
		},
	}
	showCmd.Flags().StringVarP(&output, "output", "o", outputYAML, "output format (yaml, json)")

	pathsCmd := &cobra.Command{
		Use:   "paths",
		Short: "Show which config files were found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			global, project := config.DiscoveredPaths()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "global:   %s\n", orNone(global))
			fmt.Fprintf(out, "project:  %s\n", orNone(project))
			fmt.Fprintf(out, "explicit: %s\n", orNone(a.configPath))
			return nil
		},
	}

	configCmd.AddCommand(showCmd, pathsCmd)
	return configCmd
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
