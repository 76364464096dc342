package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.InputResolver = (*Resolver)(nil)

// recursiveWildcard separates the directory walked from the name pattern in patterns like src/**/*.c.
const recursiveWildcard = "**"

// Resolver expands collection patterns. Plain globs use filepath.Glob, patterns containing ** walk
// the directory before the wildcard and match file names against the rest.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveInputs resolves patterns relative to root to sorted, unique absolute paths.
// A literal path that does not exist is an error. A glob that matches nothing is not.
func (r *Resolver) ResolveInputs(patterns []string, root string) ([]string, error) {
	results := make([][]string, len(patterns))

	var g errgroup.Group
	for i, pattern := range patterns {
		g.Go(func() error {
			matches, err := r.resolve(pattern, root)
			if err != nil {
				return err
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []string
	for _, matches := range results {
		all = append(all, matches...)
	}
	slices.Sort(all)
	return slices.Compact(all), nil
}

func (r *Resolver) resolve(pattern, root string) ([]string, error) {
	path := pattern
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, pattern)
	}

	if dir, namePattern, ok := strings.Cut(path, recursiveWildcard); ok {
		return r.resolveRecursive(filepath.Clean(dir), strings.TrimPrefix(namePattern, string(filepath.Separator)))
	}

	if !hasMeta(path) {
		info, err := os.Stat(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInputResolutionFailed.Error()), "path", path)
		}
		if info.IsDir() {
			return nil, zerr.With(domain.ErrInputResolutionFailed, "path", path)
		}
		return []string{path}, nil
	}

	matches, err := filepath.Glob(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", path)
	}

	files := matches[:0]
	for _, match := range matches {
		if info, err := os.Stat(match); err == nil && !info.IsDir() {
			files = append(files, match)
		}
	}
	return files, nil
}

func (r *Resolver) resolveRecursive(dir, namePattern string) ([]string, error) {
	if namePattern == "" {
		namePattern = "*"
	}
	if _, err := filepath.Match(namePattern, ""); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "pattern", namePattern)
	}

	var files []string
	for path := range r.walker.WalkFiles(dir, nil) {
		if matched, _ := filepath.Match(namePattern, filepath.Base(path)); matched {
			files = append(files, path)
		}
	}
	return files, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, `*?[\`)
}
