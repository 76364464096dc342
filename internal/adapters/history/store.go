// Package history persists the build fingerprints of output files.
package history

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.HistoryStore = (*Store)(nil)

// Store implements ports.HistoryStore as a single JSON file keyed by output path.
type Store struct {
	logger  ports.Logger
	entries map[string]domain.HistoryEntry
	file    string
	dirty   bool
}

// NewStore creates an empty history store.
func NewStore(logger ports.Logger) *Store {
	return &Store{
		logger:  logger,
		entries: make(map[string]domain.HistoryEntry),
	}
}

// Load replaces the contents of the store with the entries in file.
func (s *Store) Load(file string) {
	s.entries = make(map[string]domain.HistoryEntry)
	s.file = file
	s.dirty = false

	//nolint:gosec // Path is the configured history location.
	data, err := os.ReadFile(file)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("could not read target history, rebuilding all targets: " + err.Error())
		}
		return
	}

	var entries map[string]domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warn("target history is corrupt, rebuilding all targets")
		return
	}
	for output, entry := range entries {
		if entry.Output == "" {
			entry.Output = output
		}
		s.entries[output] = entry
	}
}

// Get returns the entry recorded for output, or nil.
func (s *Store) Get(output string) *domain.HistoryEntry {
	entry, ok := s.entries[output]
	if !ok {
		return nil
	}
	return &entry
}

// Put records entry under its output and marks the store dirty.
func (s *Store) Put(entry domain.HistoryEntry) {
	s.entries[entry.Output] = entry
	s.dirty = true
}

// Commit writes the store to the file it was loaded from if it changed since.
func (s *Store) Commit() error {
	if !s.dirty || s.file == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	if err := os.MkdirAll(filepath.Dir(s.file), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", s.file)
	}

	//nolint:gosec // Path is the configured history location.
	if err := os.WriteFile(s.file, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.file)
	}

	s.dirty = false
	return nil
}
