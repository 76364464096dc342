package ports

import "go.trai.ch/forge/internal/core/domain"

// DependencyStore is the persisted collection of include dependency records.
//
//go:generate mockgen -source=dependency_store.go -destination=mocks/mock_dependency_store.go -package=mocks
type DependencyStore interface {
	// Load replaces the contents with the records persisted in file.
	// A missing or malformed file leaves the store empty. Records whose source no longer
	// matches its recorded modification time are dropped.
	Load(root, file string)

	// Get returns the record for sourcePath parsed under identity, or nil.
	Get(sourcePath, identity string) *domain.DependencyRecord

	// Put inserts or replaces a record and marks the store dirty.
	Put(rec *domain.DependencyRecord)

	// Commit persists the store if it is dirty.
	Commit() error
}
