// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/verstraete-jonatan/indexify/internal/config"

	"github.com/spf13/cobra"
)

func newConfigCommand(app *App, flags *rootFlagValues) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the configuration",
	}
	cmd.AddCommand(newConfigShowCommand(app, flags))
	return cmd
}

func newConfigShowCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, INDEXIFY_*
environment variables and command-line flags have been merged.

The output is a valid config file in the chosen format. The file it was
read from is reported on stderr.`,
		Example: `  indexify config show
  indexify config show --format cue --root ./lib`,
		Args: cobra.NoArgs,
		RunE: app.runE(flags, func(cmd *cobra.Command, _ []string) error {
			f := config.Format(format)
			if err := f.Validate(); err != nil {
				return err
			}
			cfg, err := app.loadConfig(cmd.Context(), flags, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			out, err := config.Generate(cfg, f)
			if err != nil {
				return err
			}

			source := cfg.Source
			if source == "" {
				source = "(defaults, environment and flags)"
			}
			fmt.Fprintf(app.stderr, "%s %s\n", SubtitleStyle.Render("# source:"), source)
			_, err = app.stdout.Write(out)
			return err
		}),
	}

	cmd.Flags().StringVar(&format, "format", string(config.FormatJSON), "output format: json, cue or toml")
	return cmd
}
