package ports

import (
	"context"
	"iter"
)

// WatchOp represents the type of file system operation.
type WatchOp uint8

const (
	// OpCreate indicates a file or directory was created.
	OpCreate WatchOp = iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file or directory was removed.
	OpRemove
	// OpRename indicates a file or directory was renamed.
	OpRename
)

// WatchEvent is a change below the watched source tree.
type WatchEvent struct {
	// Path is the absolute path that changed.
	Path      string
	Operation WatchOp
}

// Watcher observes a source tree so that watch mode can rerun the build.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching root recursively, skipping version control and forge state directories.
	Start(ctx context.Context, root string) error
	// Stop releases the underlying watches. Events ends once the watcher has stopped.
	Stop() error
	// Events yields changes until the watcher stops.
	Events() iter.Seq[WatchEvent]
}
