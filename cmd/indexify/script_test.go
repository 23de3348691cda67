// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"os"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"indexify": func() int {
			return Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
		},
	}))
}

// TestScripts runs the CLI scripts under testdata/script.
func TestScripts(t *testing.T) {
	t.Parallel()

	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		ContinueOnError: true,
	})
}
