// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanCommand(app *App, flags *rootFlagValues) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove generated index files",
		Long: `Remove the index file from every directory under the root.

Only files whose name matches the configured index file name are removed.`,
		Args: cobra.NoArgs,
		RunE: app.runE(flags, func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			gen, err := newGenerator(cfg, newLogger(app.stderr, flags.verbose))
			if err != nil {
				return err
			}

			removed, err := gen.Clean(cmd.Context())
			for _, path := range removed {
				fmt.Fprintf(app.stdout, "  %s\n", displayPath(gen.Root(), path))
			}
			if err != nil {
				return passError(gen.Root(), err)
			}
			fmt.Fprintf(app.stdout, "%s Removed %d %s\n",
				successIcon, len(removed), plural(len(removed), "index file", "index files"))
			return nil
		}),
	}
}
