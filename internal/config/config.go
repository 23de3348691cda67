// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/verstraete-jonatan/indexify/internal/cueutil"
	"github.com/verstraete-jonatan/indexify/internal/issue"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "indexify"
	// EnvPrefix prefixes environment overrides, e.g. INDEXIFY_ROOTPATH.
	EnvPrefix = "INDEXIFY"
	// DefaultInitRoot is the rootPath written by CreateDefault.
	DefaultInitRoot = "./src"

	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
	FormatTOML Format = "toml"
)

// Format is a configuration file format.
type Format string

//go:embed config_schema.cue
var configSchema string

// keys are the configuration keys, as spelled in config files.
var keys = []string{
	"rootPath",
	"supportedExtensions",
	"indexFileName",
	"watch",
	"header",
	"concurrency",
	"ignore",
	"debounce",
}

// Formats lists the supported formats in lookup order.
func Formats() []Format { return []Format{FormatJSON, FormatCUE, FormatTOML} }

// FileName returns the config file name for f, e.g. "indexify.conf.json".
func (f Format) FileName() string { return AppName + ".conf." + string(f) }

// Validate rejects unknown formats.
func (f Format) Validate() error {
	switch f {
	case FormatJSON, FormatCUE, FormatTOML:
		return nil
	default:
		return fmt.Errorf("unknown config format %q (valid: json, cue, toml)", string(f))
	}
}

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	f := Format(strings.TrimPrefix(filepath.Ext(path), "."))
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// loadWithOptions merges defaults, the config file, INDEXIFY_* variables
// and opts.Overrides, in increasing precedence, then validates the result.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("supportedExtensions", defaults.SupportedExtensions)
	v.SetDefault("indexFileName", defaults.IndexFileName)
	v.SetDefault("watch", defaults.Watch)
	v.SetDefault("header", defaults.Header)
	v.SetDefault("concurrency", defaults.Concurrency)
	v.SetDefault("ignore", defaults.Ignore)
	v.SetDefault("debounce", defaults.Debounce)

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	path, err := resolveConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		m, decodeErr := decodeFile(path)
		if decodeErr != nil {
			// Decode errors already name the file.
			return nil, invalidConfigError("", decodeErr)
		}
		if mergeErr := v.MergeConfigMap(m); mergeErr != nil {
			return nil, fmt.Errorf("failed to merge config: %w", mergeErr)
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, invalidConfigError(sourceName(path), err)
	}
	cfg.Source = path

	if err := cfg.Validate(); err != nil {
		return nil, invalidConfigError(sourceName(path), err)
	}
	return &cfg, nil
}

// resolveConfigFile returns the file to load, or "" when none exists and
// opts.AllowMissing is set.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'indexify init' to create a configuration file").
				WithIssue(issue.ConfigNotFoundId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	for _, f := range Formats() {
		candidate := filepath.Join(dir, f.FileName())
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	if opts.AllowMissing {
		return "", nil
	}

	return "", issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(dir).
		WithSuggestion("Run 'indexify init' to create " + FormatJSON.FileName()).
		WithSuggestion("Or pass the directory to index with --root").
		WithIssue(issue.ConfigNotFoundId).
		Wrap(errors.New("no indexify.conf.json, indexify.conf.cue or indexify.conf.toml found")).
		BuildError()
}

// decodeFile validates a config file against #Config and returns the keys
// it sets.
func decodeFile(path string) (map[string]any, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	opts := []cueutil.Option{cueutil.WithFilename(path), cueutil.WithConcrete(false)}
	var res *cueutil.ParseResult[map[string]any]
	switch f {
	case FormatTOML:
		if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
			return nil, err
		}
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		res, err = cueutil.EncodeAndDecode[map[string]any](configSchema, raw, "#Config", opts...)
	default:
		// JSON is a subset of CUE.
		res, err = cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config", opts...)
	}
	if err != nil {
		return nil, err
	}
	if *res.Value == nil {
		return map[string]any{}, nil
	}
	return *res.Value, nil
}

// sourceName describes where a configuration came from.
func sourceName(path string) string {
	if path == "" {
		return "flags and environment"
	}
	return path
}

func invalidConfigError(resource string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(resource).
		WithSuggestion("Check the values against 'indexify config show'").
		WithSuggestion("Extensions need a leading dot, e.g. \".ts\"").
		WithIssue(issue.ConfigInvalidId).
		Wrap(err).
		BuildError()
}

// fileShape is the on-disk layout written by Generate.
type fileShape struct {
	RootPath            string      `json:"rootPath" toml:"rootPath"`
	SupportedExtensions []Extension `json:"supportedExtensions" toml:"supportedExtensions"`
	IndexFileName       string      `json:"indexFileName" toml:"indexFileName"`
	Watch               bool        `json:"watch" toml:"watch"`
	Header              bool        `json:"header" toml:"header"`
	Concurrency         int         `json:"concurrency" toml:"concurrency"`
	Ignore              []string    `json:"ignore" toml:"ignore"`
	Debounce            string      `json:"debounce" toml:"debounce"`
}

// Generate renders cfg as a config file in format f.
func Generate(cfg *Config, f Format) ([]byte, error) {
	shape := fileShape{
		RootPath:            cfg.RootPath.String(),
		SupportedExtensions: cfg.SupportedExtensions,
		IndexFileName:       cfg.IndexFileName.String(),
		Watch:               cfg.Watch,
		Header:              cfg.Header,
		Concurrency:         cfg.Concurrency,
		Ignore:              cfg.Ignore,
		Debounce:            cfg.Debounce.String(),
	}
	if shape.Ignore == nil {
		shape.Ignore = []string{}
	}

	switch f {
	case FormatJSON:
		out, err := json.MarshalIndent(shape, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(out, '\n'), nil
	case FormatTOML:
		out, err := toml.Marshal(shape)
		if err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return out, nil
	case FormatCUE:
		v := cuecontext.New().Encode(shape)
		if v.Err() != nil {
			return nil, fmt.Errorf("encode cue: %w", v.Err())
		}
		var node ast.Node = v.Syntax()
		if st, ok := node.(*ast.StructLit); ok {
			node = &ast.File{Decls: st.Elts}
		}
		out, err := format.Node(node)
		if err != nil {
			return nil, fmt.Errorf("format cue: %w", err)
		}
		return out, nil
	default:
		return nil, f.Validate()
	}
}

// CreateDefault writes the default configuration, with rootPath
// DefaultInitRoot, to path. The format follows the file extension. An
// existing file is kept unless force is set.
func CreateDefault(path string, force bool) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	if !force && fileExists(path) {
		return issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(path).
			WithSuggestion("Use --force to overwrite it").
			Wrap(os.ErrExist).
			BuildError()
	}

	cfg := DefaultConfig()
	cfg.RootPath = DefaultInitRoot
	out, err := Generate(cfg, f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// fileExists reports whether path names something other than a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
