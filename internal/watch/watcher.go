// SPDX-License-Identifier: MPL-2.0

// Package watch reports filesystem changes under a directory tree.
//
// A Watcher registers every non-ignored directory below its root with
// fsnotify, extends itself to directories created later, and calls a
// notify function with the slash-separated, root-relative path of each
// change. Attribute-only (chmod) events are dropped.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultIgnores are always excluded. They cover VCS metadata, dependency
// caches, editor swap files and OS metadata files that change often and
// never hold sources worth re-indexing.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
}

// ErrAlreadyStarted is returned by a second call to Watch.
var ErrAlreadyStarted = errors.New("watch: already started")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Root is the directory to watch recursively. An empty value
		// defaults to the working directory.
		Root string

		// Ignore holds doublestar patterns, relative to Root, for paths
		// that never produce notifications. They are merged with the
		// built-in defaults.
		Ignore []string

		// Debounce is the quiet period after the last event before pending
		// paths are reported. Zero reports every event as it arrives.
		Debounce time.Duration

		// Logger defaults to slog.Default().
		Logger *slog.Logger
	}

	// Watcher monitors a directory tree. Watch may be called once.
	Watcher struct {
		fsw      *fsnotify.Watcher
		root     string
		ignores  []string
		debounce time.Duration
		logger   *slog.Logger
		started  atomic.Bool
	}
)

// New resolves cfg.Root, validates the ignore patterns and registers all
// non-ignored directories below the root.
func New(cfg Config) (*Watcher, error) {
	root := cfg.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		root = wd
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve root: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("watch: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch: root %q is not a directory", absRoot)
	}

	for _, pat := range cfg.Ignore {
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		root:     absRoot,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		debounce: max(cfg.Debounce, 0),
		logger:   logger,
	}
	if err := w.addTree(absRoot); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close watcher after init failure", "error", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string { return w.root }

// Watch blocks until ctx is cancelled or the watcher fails, calling notify
// from its own goroutine for every change. It closes the underlying
// fsnotify watcher on return and reports nil on cancellation.
func (w *Watcher) Watch(ctx context.Context, notify func(path string)) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("close fsnotify watcher", "error", err)
		}
	}()

	var (
		pending []string
		timer   *time.Timer
		timerC  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	flush := func() {
		for _, p := range pending {
			notify(p)
		}
		pending = pending[:0]
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-timerC:
			timerC = nil
			flush()

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			rel, relevant := w.classify(evt)
			if !relevant {
				continue
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			w.logger.Debug("change", "path", rel, "op", evt.Op.String())

			if w.debounce == 0 {
				notify(rel)
				continue
			}
			if !slices.Contains(pending, rel) {
				pending = append(pending, rel)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			// isFatalFsnotifyError is platform-specific (see watcher_fatal_*.go).
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "error", err)
		}
	}
}

// Close releases the fsnotify watcher of a Watcher whose Watch was never
// called.
func (w *Watcher) Close() error {
	if w.started.Load() {
		return nil
	}
	return w.fsw.Close()
}

// classify returns the root-relative path of evt and whether it should be
// reported.
func (w *Watcher) classify(evt fsnotify.Event) (string, bool) {
	if evt.Op == fsnotify.Chmod {
		return "", false
	}
	rel, err := filepath.Rel(w.root, evt.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if w.isIgnored(rel) {
		return "", false
	}
	return rel, true
}

// addTree registers dir and every non-ignored directory below it.
// Directories that cannot be read are skipped with a warning.
func (w *Watcher) addTree(dir string) error {
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "error", err)
			return nil //nolint:nilerr // unreadable subtrees are not watched
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil //nolint:nilerr // not below the root
		}
		if rel != "." && w.isIgnoredDir(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir extends the watch to a directory created after startup,
// including any subdirectories it already holds.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Lstat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("add new directory", "path", path, "error", err)
	}
}

func (w *Watcher) isIgnored(rel string) bool {
	for _, pat := range w.ignores {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Watcher) isIgnoredDir(rel string) bool {
	return w.isIgnored(rel) || w.isIgnored(rel+"/")
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}
