// SPDX-License-Identifier: MPL-2.0

package barrel

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SourceFile is a directory child eligible for re-export.
type SourceFile struct {
	Name string
}

// Ext returns the extension of the file name, dot included.
func (f SourceFile) Ext() string { return Ext(f.Name) }

// BaseName returns the file name without its extension.
func (f SourceFile) BaseName() string { return strings.TrimSuffix(f.Name, f.Ext()) }

// Ext returns the suffix of name starting at its last dot. Names whose only
// dot is the leading one (".eslintrc") have no extension.
func Ext(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i:]
}

// Eligible lists the immediate children of dir that are not directories,
// carry an extension from exts (case-sensitive) and are not named
// indexFileName. The result is sorted by name.
func Eligible(dir string, exts []string, indexFileName string) ([]SourceFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &ReadError{Path: dir, Err: err}
	}

	files := make([]SourceFile, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if name == indexFileName || !slices.Contains(exts, Ext(name)) {
			continue
		}
		isDir, err := resolveDir(filepath.Join(dir, name), entry)
		if err != nil {
			return nil, err
		}
		if isDir {
			continue
		}
		files = append(files, SourceFile{Name: name})
	}

	slices.SortFunc(files, func(a, b SourceFile) int { return strings.Compare(a.Name, b.Name) })
	return files, nil
}
