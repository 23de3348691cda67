// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/verstraete-jonatan/indexify/internal/barrel"
	"github.com/verstraete-jonatan/indexify/internal/config"
	"github.com/verstraete-jonatan/indexify/internal/issue"

	"github.com/spf13/cobra"
)

var errWatchWithCheck = errors.New("--check and --dry-run cannot be used in watch mode")

// runGenerate dispatches the root command to its batch, check, dry-run or
// watch mode.
func runGenerate(cmd *cobra.Command, app *App, flags *rootFlagValues) error {
	cfg, err := app.loadConfig(cmd.Context(), flags, cmd.Flags().Changed)
	if err != nil {
		return err
	}
	if cfg.Watch && (flags.check || flags.dryRun) {
		return errWatchWithCheck
	}

	logger := newLogger(app.stderr, flags.verbose)
	gen, err := newGenerator(cfg, logger)
	if err != nil {
		return err
	}

	switch {
	case flags.check:
		return runCheck(cmd, app, gen)
	case flags.dryRun:
		return runDryRun(cmd, app, gen)
	case cfg.Watch:
		return runWatch(cmd, app, cfg, gen, logger)
	default:
		return runBatch(cmd, app, gen)
	}
}

func newGenerator(cfg *config.Config, logger *slog.Logger) (*barrel.Generator, error) {
	gen, err := barrel.New(barrel.Options{
		Root:          cfg.RootPath.String(),
		Extensions:    cfg.Extensions(),
		IndexFileName: cfg.IndexFileName.String(),
		Header:        cfg.Header,
		Ignore:        cfg.Ignore,
		Concurrency:   cfg.Concurrency,
		Logger:        logger,
	})
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("prepare generator").
			WithResource(cfg.RootPath.String()).
			WithIssue(issue.ConfigInvalidId).
			Wrap(err).
			BuildError()
	}
	return gen, nil
}

func runBatch(cmd *cobra.Command, app *App, gen *barrel.Generator) error {
	report, err := gen.RunOnce(cmd.Context())
	if err != nil {
		return passError(gen.Root(), err)
	}
	fmt.Fprintf(app.stdout, "%s Indexed %d %s under %s (%d written)\n",
		successIcon, report.Dirs, plural(report.Dirs, "directory", "directories"),
		PathStyle.Render(report.Root), len(report.Written))
	return nil
}

func runCheck(cmd *cobra.Command, app *App, gen *barrel.Generator) error {
	stale, err := gen.Stale(cmd.Context())
	if err != nil {
		return passError(gen.Root(), err)
	}
	if len(stale) == 0 {
		fmt.Fprintf(app.stdout, "%s Index files under %s are up to date\n", successIcon, PathStyle.Render(gen.Root()))
		return nil
	}

	for _, path := range stale {
		fmt.Fprintf(app.stdout, "%s %s\n", warningIcon, displayPath(gen.Root(), path))
	}
	return &ExitError{
		Code: 1,
		Err: issue.NewErrorContext().
			WithOperation("verify index files").
			WithResource(gen.Root()).
			WithSuggestion("Run 'indexify' to regenerate them").
			WithIssue(issue.StaleIndexId).
			Wrap(fmt.Errorf("%d stale %s", len(stale), plural(len(stale), "index file", "index files"))).
			BuildError(),
	}
}

func runDryRun(cmd *cobra.Command, app *App, gen *barrel.Generator) error {
	plan, err := gen.Plan(cmd.Context())
	if err != nil {
		return passError(gen.Root(), err)
	}
	for _, a := range plan.Artifacts {
		fmt.Fprintf(app.stdout, "%s %s\n%s", arrowIcon, displayPath(gen.Root(), a.Path), a.Content)
	}
	fmt.Fprintf(app.stdout, "%s %d %s would be written\n",
		successIcon, len(plan.Artifacts), plural(len(plan.Artifacts), "file", "files"))
	return nil
}

// passError maps a generator failure to a catalogued ActionableError.
func passError(root string, err error) error {
	ctx := issue.NewErrorContext().WithResource(root).Wrap(err)

	var readErr *barrel.ReadError
	switch {
	case errors.Is(err, barrel.ErrNotFound):
		ctx.WithOperation("index root").
			WithSuggestion("Check --root or rootPath in the config file").
			WithIssue(issue.RootNotFoundId)
	case errors.Is(err, barrel.ErrNotADirectory):
		ctx.WithOperation("index root").
			WithSuggestion("Point rootPath at a directory, not a file").
			WithIssue(issue.RootNotADirectoryId)
	case errors.As(err, &readErr):
		ctx.WithOperation("read source tree").
			WithResource(readErr.Path).
			WithSuggestion("Check the permissions of the directory").
			WithSuggestion("Exclude it with --ignore").
			WithIssue(issue.ReadFailedId)
	case errors.Is(err, barrel.ErrWrite):
		ctx.WithOperation("write index files").
			WithSuggestion("Check that the directories are writable").
			WithIssue(issue.WriteFailedId)
	default:
		ctx.WithOperation("generate index files")
	}
	return ctx.BuildError()
}

// displayPath shortens path to be relative to root when possible.
func displayPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
