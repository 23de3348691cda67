// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/verstraete-jonatan/indexify/internal/testutil"
)

// recorder collects notified paths and signals each arrival.
type recorder struct {
	mu    sync.Mutex
	paths []string
	seen  chan string
}

func newRecorder() *recorder {
	return &recorder{seen: make(chan string, 256)}
}

func (r *recorder) notify(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
	r.seen <- path
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.paths)
}

// waitFor blocks until path has been notified.
func (r *recorder) waitFor(t *testing.T, path string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-r.seen:
			if got == path {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %q, got %v", path, r.snapshot())
		}
	}
}

// startWatch runs w.Watch in the background and stops it on cleanup.
func startWatch(t *testing.T, w *Watcher, r *recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Watch(ctx, r.notify) }()
	t.Cleanup(func() {
		cancel()
		if err := <-errCh; err != nil {
			t.Errorf("Watch() error: %v", err)
		}
	})
}

func TestWatch_ReportsFileChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{Root: dir})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	r := newRecorder()
	startWatch(t, w, r)

	path := filepath.Join(dir, "a.ts")
	testutil.MustWriteFile(t, path, "export const a = 1;\n")
	r.waitFor(t, "a.ts")

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	r.waitFor(t, "a.ts")
}

func TestWatch_NestedDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, "src", "deep"))

	w, err := New(Config{Root: dir})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	r := newRecorder()
	startWatch(t, w, r)

	testutil.MustWriteFile(t, filepath.Join(dir, "src", "deep", "x.ts"), "")
	r.waitFor(t, "src/deep/x.ts")
}

func TestWatch_DirectoriesCreatedLater(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{Root: dir})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	r := newRecorder()
	startWatch(t, w, r)

	testutil.MustMkdirAll(t, filepath.Join(dir, "later"))
	r.waitFor(t, "later")

	testutil.MustWriteFile(t, filepath.Join(dir, "later", "y.ts"), "")
	r.waitFor(t, "later/y.ts")
}

func TestWatch_IgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, "node_modules", "pkg"))

	w, err := New(Config{Root: dir, Ignore: []string{"**/index.ts"}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	r := newRecorder()
	startWatch(t, w, r)

	testutil.MustWriteFile(t, filepath.Join(dir, "index.ts"), "")
	testutil.MustWriteFile(t, filepath.Join(dir, "node_modules", "pkg", "lib.ts"), "")
	testutil.MustWriteFile(t, filepath.Join(dir, "b.ts"), "")
	r.waitFor(t, "b.ts")

	for _, p := range r.snapshot() {
		if p == "index.ts" || p == "node_modules/pkg/lib.ts" {
			t.Errorf("ignored path %q was reported", p)
		}
	}
}

func TestWatch_DebounceFoldsRepeatedPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{Root: dir, Debounce: 100 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	r := newRecorder()
	startWatch(t, w, r)

	path := filepath.Join(dir, "busy.ts")
	for i := range 3 {
		testutil.MustWriteFile(t, path, string(rune('a'+i)))
		time.Sleep(10 * time.Millisecond)
	}
	r.waitFor(t, "busy.ts")
	time.Sleep(250 * time.Millisecond)

	if got := r.snapshot(); len(got) != 1 {
		t.Errorf("notifications = %v, want a single busy.ts", got)
	}
}

func TestWatch_SecondCallFails(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	startWatch(t, w, newRecorder())

	// Give the first Watch a moment to claim the watcher.
	time.Sleep(20 * time.Millisecond)
	if err := w.Watch(context.Background(), func(string) {}); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Watch() error = %v, want ErrAlreadyStarted", err)
	}
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.ts")
	testutil.MustWriteFile(t, file, "")

	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "missing root", cfg: Config{Root: filepath.Join(dir, "missing")}},
		{name: "root is a file", cfg: Config{Root: file}},
		{name: "invalid ignore pattern", cfg: Config{Root: dir, Ignore: []string{"[unclosed"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, err := New(tt.cfg)
			if err == nil {
				w.Close() //nolint:errcheck // test cleanup
				t.Fatal("New() should fail")
			}
		})
	}
}

func TestClose_WithoutWatch(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}

func TestWatcher_IsIgnored(t *testing.T) {
	t.Parallel()

	w := &Watcher{ignores: slices.Concat(defaultIgnores, []string{"**/index.ts", "dist/**"})}

	tests := []struct {
		rel  string
		want bool
	}{
		{rel: ".git/HEAD", want: true},
		{rel: "pkg/node_modules/lib/a.ts", want: true},
		{rel: "src/.a.ts.swp", want: true},
		{rel: "src/a.ts~", want: true},
		{rel: ".DS_Store", want: true},
		{rel: "index.ts", want: true},
		{rel: "src/deep/index.ts", want: true},
		{rel: "dist/out.ts", want: true},
		{rel: "src/a.ts", want: false},
		{rel: "src/index.tsx", want: false},
		{rel: "gitlike/a.ts", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			t.Parallel()
			if got := w.isIgnored(tt.rel); got != tt.want {
				t.Errorf("isIgnored(%q) = %v, want %v", tt.rel, got, tt.want)
			}
		})
	}
}

func TestDefaultIgnores_ReturnsCopy(t *testing.T) {
	t.Parallel()

	got := DefaultIgnores()
	got[0] = "mutated"
	if defaultIgnores[0] == "mutated" {
		t.Error("DefaultIgnores() exposed the package slice")
	}
}
