// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/txtar"
)

// WriteTree materializes a txtar archive under root. A file entry whose name
// ends in "/" creates an empty directory instead of a file.
//
//	testutil.WriteTree(t, dir, `
//	-- dir1/file1.ts --
//	-- dir1/file2.js --
//	-- empty/ --
//	`)
func WriteTree(t testing.TB, root, archive string) {
	t.Helper()
	for _, f := range txtar.Parse([]byte(archive)).Files {
		path := filepath.Join(root, filepath.FromSlash(f.Name))
		if strings.HasSuffix(f.Name, "/") {
			MustMkdirAll(t, path)
			continue
		}
		MustWriteFile(t, path, string(f.Data))
	}
}

// ReadTree returns every regular file under root keyed by its slash-separated
// path relative to root.
func ReadTree(t testing.TB, root string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = MustReadFile(t, path)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read tree %s: %v", root, err)
	}
	return files
}
