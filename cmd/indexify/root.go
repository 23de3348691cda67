// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/verstraete-jonatan/indexify/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is set via ldflags at build time.
	Version = "dev"
	// Commit is set via ldflags at build time.
	Commit = "unknown"
	// BuildDate is set via ldflags at build time.
	BuildDate = "unknown"
)

// NewRootCommand builds the indexify command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "indexify",
		Short: "Generate barrel index files for a source tree",
		Long: TitleStyle.Render("indexify") + SubtitleStyle.Render(" - barrel files, kept current") + `

indexify writes an index file into every directory under a root. Each index
re-exports the sibling source files of that directory:

  export * from './button';
  export * from './card';

Run it once, or pass --watch to regenerate on every change.`,
		Example: `  indexify --root ./src
  indexify --root ./src --ext .ts --ext .tsx --watch
  indexify --check`,
		Args: cobra.NoArgs,
		RunE: app.runE(flags, func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, app, flags)
		}),
	}

	bindConfigFlags(rootCmd.PersistentFlags(), flags)
	bindGenerateFlags(rootCmd.Flags(), flags)
	rootCmd.MarkFlagsMutuallyExclusive("check", "dry-run")

	rootCmd.AddCommand(
		newInitCommand(app, flags),
		newConfigCommand(app, flags),
		newCleanCommand(app, flags),
	)
	return rootCmd
}

// Execute runs the CLI against the process arguments and exits.
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes one invocation with args and returns its exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := NewApp(Dependencies{Stdout: stdout, Stderr: stderr})
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		// Usage errors; fang has printed them.
		return int(types.ExitFailure)
	}
	return int(app.exitCode)
}

func getVersionString() string {
	if Version == "dev" {
		return fmt.Sprintf("%s (built from source)", Version)
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}
