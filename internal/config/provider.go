// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// Dir is searched for indexify.conf.{json,cue,toml} when
	// ConfigFilePath is empty. Defaults to the working directory.
	Dir string
	// AllowMissing tolerates the absence of a config file found by search.
	// An explicit ConfigFilePath must always exist.
	AllowMissing bool
	// Overrides take precedence over the file and the environment. Keys
	// are spelled as in config files, e.g. "rootPath".
	Overrides map[string]any
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads and validates the configuration.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return loadWithOptions(ctx, opts)
}
