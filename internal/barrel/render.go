// SPDX-License-Identifier: MPL-2.0

package barrel

import "strings"

// DefaultHeader is the banner written above the exports when headers are
// enabled. It carries no timestamp so repeated passes stay byte-identical.
const DefaultHeader = "/** Auto generated by indexify. Do not edit. */"

// ExportLine returns the re-export statement for f.
func ExportLine(f SourceFile) string {
	return "export * from './" + f.BaseName() + "';"
}

// Render returns the artifact content for files: one export line per file,
// newline-joined, with exactly one trailing newline. An empty file list
// renders as a single newline. A non-empty header is written on its own line,
// separated from the exports by a blank line when there are any.
func Render(files []SourceFile, header string) string {
	var sb strings.Builder
	if header != "" {
		sb.WriteString(header)
		if len(files) == 0 {
			sb.WriteByte('\n')
			return sb.String()
		}
		sb.WriteString("\n\n")
	}
	for i, f := range files {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(ExportLine(f))
	}
	sb.WriteByte('\n')
	return sb.String()
}
