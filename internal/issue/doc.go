// SPDX-License-Identifier: MPL-2.0

// Package issue holds user-facing error context for the indexify CLI.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for fixing it. The Issue catalog adds longer Markdown guidance
// for well-known failures, rendered with glamour.
package issue
