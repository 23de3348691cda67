// SPDX-License-Identifier: MPL-2.0

// Package config loads the indexify configuration with Viper.
//
// The first of indexify.conf.json, indexify.conf.cue and indexify.conf.toml
// found in the working directory is read, or the file named by
// LoadOptions.ConfigFilePath. Every format is validated against the embedded
// CUE schema (config_schema.cue) before it is merged over the defaults.
// INDEXIFY_* environment variables and caller overrides take precedence over
// the file. The merged result is checked once more in Go by Config.Validate.
package config
