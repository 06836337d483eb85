// Package scan walks the input tree and selects the files to convert.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ErrRootNotDirectory is returned when the scan root is not a directory.
var ErrRootNotDirectory = errors.New("input path is not a directory")

// Options configure Discover.
type Options struct {
	Filter *Filter
	// OnError receives entries that could not be read. The walk goes on.
	OnError func(path string, err error)
}

// Discover returns the absolute paths of the regular files below root that
// pass the filter, sorted lexicographically. Symbolic links are skipped.
// Only a missing or unreadable root fails the whole walk.
func Discover(ctx context.Context, root string, opts Options) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	fi, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, absRoot)
	}
	filter := opts.Filter
	if filter == nil {
		filter = NewFilter(nil, nil)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			if opts.OnError != nil {
				opts.OnError(path, walkErr)
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path != absRoot {
			rel, relErr := filepath.Rel(absRoot, path)
			if relErr == nil && filter.Excluded(filepath.ToSlash(rel)) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if filter.ShouldProcess(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", absRoot, err)
	}
	sort.Strings(files)
	return files, nil
}
