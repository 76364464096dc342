package ports

import "go.trai.ch/forge/internal/core/domain"

// HistoryStore is the persisted table of build fingerprints, keyed by output file.
//
//go:generate mockgen -source=history_store.go -destination=mocks/mock_history_store.go -package=mocks
type HistoryStore interface {
	// Load replaces the contents with the entries persisted in file.
	// A missing or malformed file leaves the store empty.
	Load(file string)

	// Get returns the entry for output, or nil.
	Get(output string) *domain.HistoryEntry

	// Put records entry and marks the store dirty.
	Put(entry domain.HistoryEntry)

	// Commit persists the store if it is dirty.
	Commit() error
}
