// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/verstraete-jonatan/indexify/internal/barrel"
	"github.com/verstraete-jonatan/indexify/internal/config"
	"github.com/verstraete-jonatan/indexify/internal/issue"
	"github.com/verstraete-jonatan/indexify/internal/regen"
	"github.com/verstraete-jonatan/indexify/internal/watch"

	"github.com/spf13/cobra"
)

// runWatch regenerates once, then on every change until the command
// context is cancelled (Ctrl+C).
func runWatch(cmd *cobra.Command, app *App, cfg *config.Config, gen *barrel.Generator, logger *slog.Logger) error {
	if err := barrel.CheckRoot(gen.Root()); err != nil {
		return passError(gen.Root(), err)
	}
	w, err := watch.New(watch.Config{
		Root:     gen.Root(),
		Ignore:   watchIgnores(cfg),
		Debounce: cfg.Debounce,
		Logger:   logger,
	})
	if err != nil {
		return watchError(gen.Root(), err)
	}

	orch, err := regen.New(regen.Config{
		Runner: gen,
		Source: w,
		OnPass: func(r regen.Result) { printPass(app, gen.Root(), r) },
		Logger: logger,
	})
	if err != nil {
		_ = w.Close()
		return err
	}

	sub, err := orch.Start(cmd.Context())
	if err != nil {
		_ = w.Close()
		return err
	}
	fmt.Fprintf(app.stdout, "%s Watching %s for changes (Ctrl+C to stop)\n", arrowIcon, PathStyle.Render(gen.Root()))

	if err := sub.Wait(); err != nil {
		return watchError(gen.Root(), err)
	}
	fmt.Fprintf(app.stdout, "%s Stopped watching\n", successIcon)
	return nil
}

// watchIgnores adds the generated files to the configured patterns, so
// that writing an index does not request another pass.
func watchIgnores(cfg *config.Config) []string {
	return append(slices.Clone(cfg.Ignore), "**/"+cfg.IndexFileName.String())
}

func printPass(app *App, root string, r regen.Result) {
	if r.Err != nil {
		fmt.Fprintf(app.stderr, "%s pass %d (%s): %s\n", errorIcon, r.Seq, r.Trigger, passError(root, r.Err))
		return
	}
	fmt.Fprintf(app.stdout, "%s pass %d (%s): indexed %d %s, %d written in %s\n",
		successIcon, r.Seq, r.Trigger,
		r.Report.Dirs, plural(r.Report.Dirs, "directory", "directories"),
		len(r.Report.Written), r.Report.Duration.Round(time.Millisecond))
}

func watchError(root string, err error) error {
	return issue.NewErrorContext().
		WithOperation("watch for changes").
		WithResource(root).
		WithSuggestion("Raise the inotify watch limit (fs.inotify.max_user_watches)").
		WithSuggestion("Exclude large directories with --ignore").
		WithIssue(issue.WatchFailedId).
		Wrap(err).
		BuildError()
}
