// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Fixture trees are described as txtar archives (WriteTree) and read back as
// a path-to-content map (ReadTree) so tests can compare whole trees with
// cmp.Diff.
package testutil
