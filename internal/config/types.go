// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verstraete-jonatan/indexify/internal/platform"
	"github.com/verstraete-jonatan/indexify/pkg/types"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DefaultIndexFileName is the artifact name used when none is configured.
	DefaultIndexFileName IndexFileName = "index.ts"
	// DefaultConcurrency runs passes sequentially.
	DefaultConcurrency = 1
)

var (
	// ErrInvalidExtension is the sentinel error wrapped by InvalidExtensionError.
	ErrInvalidExtension = errors.New("invalid extension")
	// ErrInvalidIndexFileName is the sentinel error wrapped by InvalidIndexFileNameError.
	ErrInvalidIndexFileName = errors.New("invalid index file name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Extension is a dot-prefixed, case-sensitive file name suffix such as
	// ".ts". It holds no further dots or path separators.
	Extension string

	// InvalidExtensionError is returned when an Extension is malformed.
	InvalidExtensionError struct {
		Value  Extension
		Reason string
	}

	// IndexFileName is the plain file name of the generated artifact.
	IndexFileName string

	// InvalidIndexFileNameError is returned when an IndexFileName is not a
	// plain file name that every supported platform can create.
	InvalidIndexFileNameError struct {
		Value  IndexFileName
		Reason string
	}

	// InvalidConfigError collects every field error of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the effective configuration.
	Config struct {
		// RootPath is the directory tree to index. Required.
		RootPath types.FilesystemPath `json:"rootPath" mapstructure:"rootPath"`
		// SupportedExtensions selects the files that are re-exported.
		SupportedExtensions []Extension `json:"supportedExtensions" mapstructure:"supportedExtensions"`
		// IndexFileName is the artifact written to every directory.
		IndexFileName IndexFileName `json:"indexFileName" mapstructure:"indexFileName"`
		// Watch keeps indexify running and regenerates on every change.
		Watch bool `json:"watch" mapstructure:"watch"`
		// Header prefixes every artifact with a generated-file banner.
		Header bool `json:"header" mapstructure:"header"`
		// Concurrency bounds the directories processed in parallel.
		Concurrency int `json:"concurrency" mapstructure:"concurrency"`
		// Ignore holds doublestar patterns, relative to RootPath, for
		// directories that get no artifact.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
		// Debounce delays watch-mode passes until changes settle.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`

		// Source is the file the configuration was read from, or "" when
		// only defaults, environment and overrides were used.
		Source string `json:"-" mapstructure:"-"`
	}
)

// DefaultConfig returns the built-in defaults. RootPath has no default.
func DefaultConfig() *Config {
	return &Config{
		SupportedExtensions: []Extension{".ts", ".tsx"},
		IndexFileName:       DefaultIndexFileName,
		Concurrency:         DefaultConcurrency,
		Ignore:              []string{},
	}
}

// Extensions returns the supported extensions as plain strings.
func (c *Config) Extensions() []string {
	out := make([]string, len(c.SupportedExtensions))
	for i, e := range c.SupportedExtensions {
		out[i] = string(e)
	}
	return out
}

// Validate checks every field and returns an *InvalidConfigError listing
// all problems, or nil.
func (c *Config) Validate() error {
	var errs []error
	if err := c.RootPath.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("rootPath: %w", err))
	}

	if len(c.SupportedExtensions) == 0 {
		errs = append(errs, errors.New("supportedExtensions: at least one extension is required"))
	}
	seen := make(map[Extension]bool, len(c.SupportedExtensions))
	for _, ext := range c.SupportedExtensions {
		if err := ext.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("supportedExtensions: %w", err))
			continue
		}
		if seen[ext] {
			errs = append(errs, fmt.Errorf("supportedExtensions: duplicate %q", ext))
		}
		seen[ext] = true
	}

	if err := c.IndexFileName.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("indexFileName: %w", err))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency: must be at least 1, got %d", c.Concurrency))
	}
	for _, pat := range c.Ignore {
		if !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("ignore: invalid pattern %q", pat))
		}
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce: must not be negative, got %s", c.Debounce))
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

func (e Extension) String() string { return string(e) }

// Validate reports whether e is a usable extension.
func (e Extension) Validate() error {
	s := string(e)
	switch {
	case !strings.HasPrefix(s, "."):
		return &InvalidExtensionError{Value: e, Reason: "must start with a dot"}
	case len(s) == 1:
		return &InvalidExtensionError{Value: e, Reason: "must not be a bare dot"}
	case strings.ContainsAny(s[1:], `./\`):
		return &InvalidExtensionError{Value: e, Reason: "must not contain dots or path separators after the leading dot"}
	}
	return nil
}

func (e *InvalidExtensionError) Error() string {
	return fmt.Sprintf("invalid extension %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidExtension for errors.Is.
func (e *InvalidExtensionError) Unwrap() error { return ErrInvalidExtension }

func (n IndexFileName) String() string { return string(n) }

// Validate rejects empty names, paths, "." or ".." and Windows device
// names such as "con.ts".
func (n IndexFileName) Validate() error {
	s := string(n)
	switch {
	case strings.TrimSpace(s) == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`):
		return &InvalidIndexFileNameError{Value: n, Reason: "must be a plain file name"}
	case platform.IsWindowsReservedName(s):
		return &InvalidIndexFileNameError{Value: n, Reason: "is a reserved device name on Windows"}
	}
	return nil
}

func (e *InvalidIndexFileNameError) Error() string {
	return fmt.Sprintf("invalid index file name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidIndexFileName for errors.Is.
func (e *InvalidIndexFileNameError) Unwrap() error { return ErrInvalidIndexFileName }

// Error lists every field error on its own line.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s):\n  %s", len(e.FieldErrors), strings.Join(msgs, "\n  "))
}

// Unwrap returns ErrInvalidConfig and the field errors, so errors.Is
// matches both the sentinel and any field sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
