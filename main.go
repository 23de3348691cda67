// SPDX-License-Identifier: MPL-2.0

// Command indexify generates barrel index files for a source tree.
package main

import "github.com/verstraete-jonatan/indexify/cmd/indexify"

func main() {
	cmd.Execute()
}
