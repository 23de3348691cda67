// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/verstraete-jonatan/indexify/internal/config"

	"github.com/spf13/cobra"
)

func newInitCommand(app *App, flags *rootFlagValues) *cobra.Command {
	var (
		force  bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Create a configuration file with the default settings in the current
directory, or at the path given by --config.

The file indexes ./src for .ts and .tsx files. Edit rootPath to match
your project.`,
		Example: `  indexify init
  indexify init --format toml
  indexify init --config tools/indexify.conf.cue --force`,
		Args: cobra.NoArgs,
		RunE: app.runE(flags, func(_ *cobra.Command, _ []string) error {
			f := config.Format(format)
			if err := f.Validate(); err != nil {
				return err
			}
			path := flags.configPath
			if path == "" {
				path = f.FileName()
			}
			if err := config.CreateDefault(path, force); err != nil {
				return err
			}

			display := path
			if abs, err := filepath.Abs(path); err == nil {
				display = abs
			}
			fmt.Fprintf(app.stdout, "%s Created %s\n", successIcon, PathStyle.Render(display))
			fmt.Fprintln(app.stdout)
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("Next steps:"))
			fmt.Fprintln(app.stdout, "  1. Set rootPath to your source directory")
			fmt.Fprintln(app.stdout, "  2. Run 'indexify' to generate the index files")
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().StringVar(&format, "format", string(config.FormatJSON), "file format: json, cue or toml (ignored with --config)")
	return cmd
}
