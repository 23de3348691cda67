// SPDX-License-Identifier: MPL-2.0

// Package barrel generates per-directory index ("barrel") files that
// re-export every sibling module with a supported extension.
//
// A pass walks the tree below a root, lists each directory's eligible source
// files, renders one `export * from './<name>';` line per file and writes the
// result to <dir>/<indexFileName>. Every walked directory gets an artifact,
// including directories with no eligible files.
//
// Passes run in two phases. Plan is read-only: it walks, filters and renders
// the whole tree and aborts on the first read error, so a partially observed
// tree never produces writes. Apply then writes every planned artifact,
// continuing past individual failures and reporting them together as a
// *PassError.
//
// Export order is the lexicographic byte order of file names. os.ReadDir
// already returns entries in that order; Eligible sorts explicitly so output
// never depends on the platform.
package barrel
