// SPDX-License-Identifier: MPL-2.0

package barrel

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/verstraete-jonatan/indexify/internal/testutil"
)

func TestWrite_Truncates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "index.ts")
	testutil.MustWriteFile(t, path, "export * from './a-much-longer-previous-name';\n")

	if err := Write(dir, "index.ts", "export * from './a';\n"); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if got := testutil.MustReadFile(t, path); got != "export * from './a';\n" {
		t.Errorf("artifact = %q, want full replacement", got)
	}
}

func TestWrite_Failure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustMkdirAll(t, filepath.Join(dir, "index.ts"))

	err := Write(dir, "index.ts", "\n")
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("Write() error = %v, want ErrWrite", err)
	}
	var we *WriteError
	if !errors.As(err, &we) || we.Path != filepath.Join(dir, "index.ts") {
		t.Errorf("WriteError should name the artifact, got %v", err)
	}
}
