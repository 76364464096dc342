package ports

import (
	"context"

	"go.trai.ch/forge/internal/core/domain"
)

// IncludeParser extracts the direct includes of a source file.
//
//go:generate mockgen -source=include_parser.go -destination=mocks/mock_include_parser.go -package=mocks
type IncludeParser interface {
	// ParseIncludes scans the file at sourcePath, relative to root, and resolves its quoted includes
	// against the configuration's include directories.
	//
	// The returned record is keyed by cfg.IncludeIdentity(). A file that does not exist yields an error
	// matching fs.ErrNotExist.
	ParseIncludes(ctx context.Context, root, sourcePath string, cfg domain.ToolConfig) (*domain.DependencyRecord, error)
}
