// Package local acquires descriptor files from a directory tree on the
// local filesystem.
package local

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mtb2597/repo-intel-agent/pkg/acquire"
)

// Acquirer walks a repository checkout on disk.
type Acquirer struct{}

// New creates a filesystem acquirer.
func New() *Acquirer { return &Acquirer{} }

// Supports reports whether ref looks like a local path rather than a
// remote URL.
func (a *Acquirer) Supports(ref string) bool {
	return !strings.Contains(ref, "://")
}

// Acquire walks ref collecting descriptor files, skipping excluded
// directories. Returned paths are slash-separated and relative to ref,
// sorted for stable ordering.
func (a *Acquirer) Acquire(ctx context.Context, ref string) ([]acquire.File, error) {
	info, err := os.Stat(ref)
	if err != nil {
		return nil, fmt.Errorf("repository path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository path %s is not a directory", ref)
	}

	var files []acquire.File
	err = filepath.WalkDir(ref, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != ref && acquire.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() != acquire.DescriptorName {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(ref, path)
		if err != nil {
			return err
		}
		files = append(files, acquire.File{Path: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", ref, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

var _ acquire.Acquirer = (*Acquirer)(nil)
