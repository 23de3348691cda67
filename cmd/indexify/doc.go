// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the indexify command line.
//
// The root command regenerates barrel index files once, or keeps them
// current in watch mode. Subcommands create and show the configuration and
// remove generated files. Commands are built per invocation by
// NewRootCommand, so Run can be called repeatedly in one process.
package cmd
