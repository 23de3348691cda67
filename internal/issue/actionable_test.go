// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load configuration"},
			want: "failed to load configuration",
		},
		{
			name: "operation with resource",
			err:  &ActionableError{Operation: "load configuration", Resource: "indexify.conf.json"},
			want: "failed to load configuration: indexify.conf.json",
		},
		{
			name: "operation with cause",
			err:  &ActionableError{Operation: "generate index files", Cause: errors.New("permission denied")},
			want: "failed to generate index files: permission denied",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "indexify.conf.cue",
				Cause:     errors.New("rootPath: incomplete value string"),
			},
			want: "failed to load configuration: indexify.conf.cue: rootPath: incomplete value string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("no such file")
	err := fmt.Errorf("outer: %w", &ActionableError{Operation: "load configuration", Cause: cause})

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through the ActionableError")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As should find the ActionableError")
	}
	if (&ActionableError{Operation: "x"}).Unwrap() != nil {
		t.Error("Unwrap() without a cause should be nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("read dir: %w", errors.New("permission denied"))
	err := &ActionableError{
		Operation:   "generate index files",
		Resource:    "src/private",
		Suggestions: []string{"Fix the directory permissions", "Add an ignore pattern"},
		Cause:       cause,
	}

	tests := []struct {
		name     string
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:    "concise",
			verbose: false,
			contains: []string{
				"failed to generate index files: src/private",
				"  • Fix the directory permissions",
				"  • Add an ignore pattern",
			},
			excludes: []string{"Error chain:"},
		},
		{
			name:    "verbose",
			verbose: true,
			contains: []string{
				"Error chain:",
				"  1. read dir: permission denied",
				"  2. permission denied",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := err.Format(tt.verbose)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Format(%v) missing %q:\n%s", tt.verbose, want, got)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Format(%v) should not contain %q:\n%s", tt.verbose, unwanted, got)
				}
			}
		})
	}
}

func TestActionableError_FormatWithoutSuggestions(t *testing.T) {
	t.Parallel()

	err := &ActionableError{Operation: "write index file"}
	if got := err.Format(true); got != "failed to write index file" {
		t.Errorf("Format(true) = %q", got)
	}
	if err.HasSuggestions() {
		t.Error("HasSuggestions() = true, want false")
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("load configuration").
		WithResource("indexify.conf.toml").
		WithSuggestion("first").
		WithSuggestion("second").
		WithIssue(ConfigInvalidId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "load configuration" || ae.Resource != "indexify.conf.toml" {
		t.Errorf("Build() = %+v", ae)
	}
	if len(ae.Suggestions) != 2 || ae.Suggestions[1] != "second" {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if ae.Issue != ConfigInvalidId {
		t.Errorf("Issue = %d, want %d", ae.Issue, ConfigInvalidId)
	}
	if !errors.Is(ae, cause) {
		t.Error("built error should wrap the cause")
	}
}

func TestErrorContext_RequiresOperation(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithResource("x").Wrap(errors.New("boom"))
	if ae := ctx.Build(); ae != nil {
		t.Errorf("Build() = %v, want nil", ae)
	}
	if err := ctx.BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want untyped nil", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should be nil")
	}
	ae := WrapWithContext(errors.New("boom"), "remove index file", "src/index.ts")
	if got, want := ae.Error(), "failed to remove index file: src/index.ts: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
