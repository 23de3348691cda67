// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the regeneration hot paths:
//   - configuration loading and CUE validation
//   - walking and planning a source tree
//   - full passes, sequential and concurrent
//
// Run them with:
//
//	go test -run '^$' -bench . ./internal/benchmark
package benchmark
