// SPDX-License-Identifier: MPL-2.0

package barrel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Walk returns root and every directory beneath it, depth-first pre-order
// with siblings in lexicographic order. Directories whose root-relative,
// slash-separated path matches one of the ignore globs are pruned together
// with their subtrees; root itself is never ignored.
//
// Walk never skips unreadable paths: the first listing failure, or a
// symbolic link that points at a directory or at nothing, is returned as a
// *ReadError.
func Walk(ctx context.Context, root string, ignore []string) ([]string, error) {
	root = filepath.Clean(root)
	if err := CheckRoot(root); err != nil {
		return nil, err
	}
	if err := ValidatePatterns(ignore); err != nil {
		return nil, err
	}

	w := walker{root: root, ignore: ignore}
	if err := w.visit(ctx, root); err != nil {
		return nil, err
	}
	return w.dirs, nil
}

// ValidatePatterns checks that every ignore glob is valid doublestar syntax.
func ValidatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("invalid ignore pattern %q", pat)
		}
	}
	return nil
}

// CheckRoot reports a missing or non-directory root with the same errors
// as Walk. A symlinked root is followed; only links below the root are
// refused.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &NotFoundError{Path: root}
	case err != nil:
		return &ReadError{Path: root, Err: err}
	case !info.IsDir():
		return &NotADirectoryError{Path: root}
	}
	return nil
}

type walker struct {
	root   string
	ignore []string
	dirs   []string
}

func (w *walker) visit(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.dirs = append(w.dirs, dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return &ReadError{Path: dir, Err: err}
	}
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		// Ignored entries are never resolved, so an ignored link cannot fail the walk.
		if w.ignored(path) {
			continue
		}
		isDir, err := resolveDir(path, entry)
		if err != nil {
			return err
		}
		if !isDir {
			continue
		}
		if err := w.visit(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) ignored(path string) bool {
	if len(w.ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return matchAny(w.ignore, filepath.ToSlash(rel))
}

// resolveDir reports whether entry is a directory. Symlinked directories and
// dangling links are read errors; symlinks to regular files are files.
func resolveDir(path string, entry fs.DirEntry) (bool, error) {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, &ReadError{Path: path, Err: fmt.Errorf("resolve symbolic link: %w", err)}
	}
	if info.IsDir() {
		return false, &ReadError{Path: path, Err: errSymlinkDir}
	}
	return false, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
		// A directory pattern like "vendor/**" should also prune "vendor".
		if ok, err := doublestar.Match(pat, rel+"/"); err == nil && ok {
			return true
		}
	}
	return false
}
