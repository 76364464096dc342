package domain

import "path/filepath"

const (
	// ForgeDirName is the name of the internal workspace directory.
	ForgeDirName = ".forge"

	// DependencyCacheFileName is the name of the persisted include dependency cache.
	DependencyCacheFileName = "dependencies.xml"

	// HistoryFileName is the name of the persisted target history.
	HistoryFileName = "history.json"

	// ConfigFileName is the name of the build description file.
	ConfigFileName = "forge.yaml"

	// DefaultObjDir is the object directory used when the build description declares none.
	DefaultObjDir = "build"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultForgePath returns the default root directory for forge metadata.
func DefaultForgePath() string {
	return ForgeDirName
}

// DefaultDependencyCachePath returns the default path for the include dependency cache.
// It joins .forge and dependencies.xml.
func DefaultDependencyCachePath() string {
	return filepath.Join(ForgeDirName, DependencyCacheFileName)
}

// DefaultHistoryPath returns the default path for the target history.
// It joins .forge and history.json.
func DefaultHistoryPath() string {
	return filepath.Join(ForgeDirName, HistoryFileName)
}
