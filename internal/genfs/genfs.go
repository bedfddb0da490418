// Package genfs collects generated files in memory so they can be written
// to disk, or compared against what is already there, as one batch.
package genfs

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/mcncl/poxo/internal/errors"
	"golang.org/x/sync/errgroup"
)

// maxParallel bounds concurrent file operations.
const maxParallel = 12

// File is a single generated file.
type File struct {
	// RelativePath is where the file is written, relative to the output dir.
	RelativePath string
	Data         []byte
}

type entry struct {
	data  []byte
	owner string
}

// GenFS is an in-memory set of generated files keyed by relative path.
// Files cannot be removed once added.
type GenFS struct {
	mu    sync.Mutex
	files map[string]entry
}

// New creates an empty GenFS.
func New() *GenFS {
	return &GenFS{files: make(map[string]entry)}
}

// Add adds files generated from owner (typically the input path). Paths that
// are absolute, or already added, are rejected and nothing is added.
func (fs *GenFS) Add(owner string, files ...File) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var result *multierror.Error
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if filepath.IsAbs(f.RelativePath) {
			result = multierror.Append(result, fmt.Errorf("generated files must have relative paths, got %s from %q", f.RelativePath, owner))
			continue
		}
		path := filepath.Clean(f.RelativePath)
		if prev, has := fs.files[path]; has {
			result = multierror.Append(result, fmt.Errorf("cannot create %s for %q, already created for %q", path, owner, prev.owner))
		} else if seen[path] {
			result = multierror.Append(result, fmt.Errorf("cannot create %s twice for %q", path, owner))
		}
		seen[path] = true
	}
	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	for _, f := range files {
		fs.files[filepath.Clean(f.RelativePath)] = entry{data: f.Data, owner: owner}
	}
	return nil
}

// Len returns the number of files.
func (fs *GenFS) Len() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.files)
}

// Paths returns the relative paths of all files, sorted.
func (fs *GenFS) Paths() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	paths := make([]string, 0, len(fs.files))
	for _, f := range fs.sorted() {
		paths = append(paths, f.RelativePath)
	}
	return paths
}

func (fs *GenFS) sorted() []File {
	files := make([]File, 0, len(fs.files))
	for path, e := range fs.files {
		files = append(files, File{RelativePath: path, Data: e.data})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].RelativePath < files[j].RelativePath
	})
	return files
}

// Write writes every file below dir, creating parent directories.
func (fs *GenFS) Write(ctx context.Context, dir string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for _, f := range fs.sorted() {
		f := f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, f.RelativePath)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("%s: failed to ensure parent directory exists: %w", path, err)
			}
			if err := os.WriteFile(path, f.Data, 0o644); err != nil {
				return fmt.Errorf("%s: error while writing file: %w", path, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.NewOutputError("failed to write generated files", err)
	}
	return nil
}

// Verify compares every file with its counterpart below dir. Missing or
// different files are reported together in an error wrapping
// errors.ErrOutdated.
func (fs *GenFS) Verify(ctx context.Context, dir string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var (
		resultMu sync.Mutex
		result   *multierror.Error
	)
	appendResult := func(err error) {
		resultMu.Lock()
		result = multierror.Append(result, err)
		resultMu.Unlock()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for _, f := range fs.sorted() {
		f := f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, f.RelativePath)
			onDisk, err := os.ReadFile(path)
			if err != nil {
				if stderrors.Is(err, os.ErrNotExist) {
					appendResult(fmt.Errorf("%s: generated file should exist, but does not", path))
					return nil
				}
				return fmt.Errorf("%s: error reading file: %w", path, err)
			}
			if diff := cmp.Diff(string(onDisk), string(f.Data)); diff != "" {
				appendResult(fmt.Errorf("%s would have changed:\n\n%s", path, diff))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.NewOutputError("io error while verifying generated files", err)
	}
	if result.ErrorOrNil() == nil {
		return nil
	}
	sort.Slice(result.Errors, func(i, j int) bool {
		return result.Errors[i].Error() < result.Errors[j].Error()
	})
	return errors.NewVerifyError(
		fmt.Sprintf("%d generated file(s) out of date", len(result.Errors)),
		fmt.Errorf("%w: %w", errors.ErrOutdated, result),
	)
}
