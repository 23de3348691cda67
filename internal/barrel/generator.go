// SPDX-License-Identifier: MPL-2.0

package barrel

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

type (
	// Options configures a Generator.
	Options struct {
		// Root is the directory whose subtree is indexed.
		Root string
		// Extensions lists the dot-prefixed extensions that make a file
		// eligible, e.g. ".ts".
		Extensions []string
		// IndexFileName is the artifact name written into every directory.
		IndexFileName string
		// Header prepends DefaultHeader to every artifact.
		Header bool
		// Ignore holds doublestar globs, relative to Root, of directories to
		// leave out of the walk.
		Ignore []string
		// Concurrency bounds how many directories are planned or written at
		// once. Zero or negative means 1.
		Concurrency int
		// Logger receives pass diagnostics. nil uses slog.Default().
		Logger *slog.Logger
	}

	// Generator runs regeneration passes over one tree. It keeps no state
	// between passes and is safe for concurrent use, although concurrent
	// passes race on the artifact files; serialize them with regen.
	Generator struct {
		opts   Options
		header string
		logger *slog.Logger
	}

	// Artifact is the planned index file of one directory.
	Artifact struct {
		Dir     string
		Path    string
		Files   []SourceFile
		Content string
	}

	// Plan holds the artifacts of every walked directory in walk order.
	Plan struct {
		Root      string
		Artifacts []Artifact
	}

	// Report summarizes a pass.
	Report struct {
		Root     string
		Dirs     int
		Written  []string
		Duration time.Duration
	}
)

// New validates opts and returns a Generator.
func New(opts Options) (*Generator, error) {
	if opts.Root == "" {
		return nil, errors.New("barrel: root is required")
	}
	if opts.IndexFileName == "" || strings.ContainsAny(opts.IndexFileName, `/\`) {
		return nil, fmt.Errorf("barrel: invalid index file name %q", opts.IndexFileName)
	}
	if err := ValidatePatterns(opts.Ignore); err != nil {
		return nil, fmt.Errorf("barrel: %w", err)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	opts.Extensions = slices.Clone(opts.Extensions)

	g := &Generator{opts: opts, logger: opts.Logger}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	if opts.Header {
		g.header = DefaultHeader
	}
	return g, nil
}

// Root returns the configured root.
func (g *Generator) Root() string { return g.opts.Root }

// RunOnce performs a full pass: Plan, then Apply. On a write failure the
// returned Report is still populated.
func (g *Generator) RunOnce(ctx context.Context) (*Report, error) {
	start := time.Now()
	plan, err := g.Plan(ctx)
	if err != nil {
		return nil, err
	}
	report, err := g.Apply(plan)
	report.Duration = time.Since(start)
	if err != nil {
		return report, err
	}
	g.logger.Info("pass complete",
		"root", report.Root, "dirs", report.Dirs, "written", len(report.Written), "duration", report.Duration)
	return report, nil
}

// Plan walks the tree and renders every artifact without touching the disk.
// The first read error aborts the plan.
func (g *Generator) Plan(ctx context.Context) (*Plan, error) {
	dirs, err := Walk(ctx, g.opts.Root, g.opts.Ignore)
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, len(dirs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)
	for i, dir := range dirs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			files, err := Eligible(dir, g.opts.Extensions, g.opts.IndexFileName)
			if err != nil {
				return err
			}
			artifacts[i] = Artifact{
				Dir:     dir,
				Path:    filepath.Join(dir, g.opts.IndexFileName),
				Files:   files,
				Content: Render(files, g.header),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &Plan{Root: filepath.Clean(g.opts.Root), Artifacts: artifacts}, nil
}

// Apply writes every artifact of plan. It does not stop at the first
// failure: all artifacts are attempted and failures are returned together
// as a *PassError.
func (g *Generator) Apply(plan *Plan) (*Report, error) {
	var (
		mu       sync.Mutex
		written  []string
		failures []*WriteError
		eg       errgroup.Group
	)
	eg.SetLimit(g.opts.Concurrency)
	for _, a := range plan.Artifacts {
		eg.Go(func() error {
			err := Write(a.Dir, g.opts.IndexFileName, a.Content)
			mu.Lock()
			defer mu.Unlock()
			var we *WriteError
			if errors.As(err, &we) {
				failures = append(failures, we)
				g.logger.Warn("write failed", "path", we.Path, "error", we.Err)
				return nil
			}
			written = append(written, a.Path)
			g.logger.Debug("populated", "path", a.Path, "exports", len(a.Files))
			return nil
		})
	}
	_ = eg.Wait() // workers only record failures

	slices.Sort(written)
	report := &Report{Root: plan.Root, Dirs: len(plan.Artifacts), Written: written}
	if len(failures) > 0 {
		slices.SortFunc(failures, func(a, b *WriteError) int { return strings.Compare(a.Path, b.Path) })
		return report, &PassError{Failures: failures}
	}
	return report, nil
}

// Stale returns the artifact paths whose on-disk content differs from what
// a pass would write, including missing artifacts. Nothing is written.
func (g *Generator) Stale(ctx context.Context) ([]string, error) {
	plan, err := g.Plan(ctx)
	if err != nil {
		return nil, err
	}
	var stale []string
	for _, a := range plan.Artifacts {
		current, err := os.ReadFile(a.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			stale = append(stale, a.Path)
		case err != nil:
			return nil, &ReadError{Path: a.Path, Err: err}
		case !bytes.Equal(current, []byte(a.Content)):
			stale = append(stale, a.Path)
		}
	}
	return stale, nil
}

// Clean removes the artifact of every walked directory and returns the
// removed paths. Entries named like the artifact that are not regular files
// are left alone. Removal continues past failures, which are joined.
func (g *Generator) Clean(ctx context.Context) ([]string, error) {
	dirs, err := Walk(ctx, g.opts.Root, g.opts.Ignore)
	if err != nil {
		return nil, err
	}
	var (
		removed []string
		errs    []error
	)
	for _, dir := range dirs {
		path := filepath.Join(dir, g.opts.IndexFileName)
		info, err := os.Lstat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, &ReadError{Path: path, Err: err})
			continue
		}
		if !info.Mode().IsRegular() {
			g.logger.Warn("skipping non-regular artifact path", "path", path, "mode", info.Mode().String())
			continue
		}
		if err := os.Remove(path); err != nil {
			errs = append(errs, &WriteError{Path: path, Err: err})
			continue
		}
		g.logger.Debug("removed", "path", path)
		removed = append(removed, path)
	}
	return removed, errors.Join(errs...)
}
