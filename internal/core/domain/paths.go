package domain

import (
	"path/filepath"
	"strings"
)

// ResolvePath returns path joined to root unless it is already absolute.
func ResolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// RelativePath returns path relative to root in slash form.
// Paths outside root are returned unchanged, so they stay absolute.
func RelativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}
