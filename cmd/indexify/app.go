// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/verstraete-jonatan/indexify/internal/config"
	"github.com/verstraete-jonatan/indexify/internal/issue"
	"github.com/verstraete-jonatan/indexify/pkg/types"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type (
	// ConfigProvider loads configuration for a command invocation.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// Dependencies are the injectable collaborators of App. Zero fields
	// fall back to the process defaults.
	Dependencies struct {
		Config ConfigProvider
		Stdout io.Writer
		Stderr io.Writer
	}

	// App holds the state shared by all commands of one invocation.
	App struct {
		Config ConfigProvider
		stdout io.Writer
		stderr io.Writer

		exitCode types.ExitCode
	}
)

// NewApp wires an App from deps.
func NewApp(deps Dependencies) *App {
	app := &App{Config: deps.Config, stdout: deps.Stdout, stderr: deps.Stderr}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadConfig resolves the configuration with flag overrides applied.
func (a *App) loadConfig(ctx context.Context, flags *rootFlagValues, changed func(string) bool) (*config.Config, error) {
	return a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		// A root given on the command line is enough to run without a file.
		AllowMissing: changed("root"),
		Overrides:    flags.overrides(changed),
	})
}

// report prints err to stderr and returns the exit code it maps to.
func (a *App) report(err error, verbose bool) types.ExitCode {
	code := types.ExitFailure
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.Code
		if exitErr.Err == nil {
			return code
		}
		err = exitErr.Err
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		fmt.Fprintf(a.stderr, "%s %s\n", errorIcon, err)
		return code
	}

	fmt.Fprintf(a.stderr, "%s %s\n", errorIcon, ae.Format(verbose))
	if verbose && ae.Issue != 0 {
		if iss := issue.Get(ae.Issue); iss != nil {
			if rendered, renderErr := iss.Render(a.glamourStyle()); renderErr == nil {
				fmt.Fprint(a.stderr, rendered)
			}
		}
	}
	return code
}

// glamourStyle picks a styled renderer only when stderr is a terminal.
func (a *App) glamourStyle() string {
	if f, ok := a.stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}

// runE adapts fn so that its failure is reported here and recorded as the
// exit code, instead of being printed again by the command framework.
func (a *App) runE(flags *rootFlagValues, fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		cmd.SilenceUsage = true
		a.exitCode = a.report(err, flags.verbose)
		return nil
	}
}
