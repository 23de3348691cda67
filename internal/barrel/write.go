// SPDX-License-Identifier: MPL-2.0

package barrel

import (
	"os"
	"path/filepath"
)

const artifactPerm = 0o644

// Write create-or-truncates <dir>/<indexFileName> with content. Prior content
// is replaced, never merged.
func Write(dir, indexFileName, content string) error {
	path := filepath.Join(dir, indexFileName)
	if err := os.WriteFile(path, []byte(content), artifactPerm); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}
