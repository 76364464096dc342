package ports

import "time"

// FileStater reports file modification times.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileStater interface {
	// ModTime returns the modification time of path. A missing file yields an error matching fs.ErrNotExist.
	ModTime(path string) (time.Time, error)
	// IsDir reports whether path exists and is a directory.
	IsDir(path string) (bool, error)
	// Invalidate forgets cached results for paths.
	Invalidate(paths []string)
}

// InputResolver expands collection patterns into files.
type InputResolver interface {
	// ResolveInputs resolves the given glob patterns, relative to root, to sorted absolute file paths.
	ResolveInputs(patterns []string, root string) ([]string, error)
}
