// Package depcache persists include dependency records as XML.
package depcache

import (
	"encoding/xml"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Tolerance is the largest drift between a recorded and an actual source modification time
// for which a loaded record is still trusted.
const Tolerance = 500 * time.Millisecond

var _ ports.DependencyStore = (*Store)(nil)

// Store implements ports.DependencyStore on top of a domain.RecordIndex.
type Store struct {
	stater ports.FileStater
	logger ports.Logger
	index  *domain.RecordIndex
	file   string
	dirty  bool
}

// NewStore creates an empty store. Sources are stated through stater when loading.
func NewStore(stater ports.FileStater, logger ports.Logger) *Store {
	return &Store{
		stater: stater,
		logger: logger,
		index:  domain.NewRecordIndex(),
	}
}

// Load replaces the contents of the store with the records in file. Relative record paths
// are resolved against root to check them against the sources on disk.
func (s *Store) Load(root, file string) {
	s.index = domain.NewRecordIndex()
	s.file = file
	s.dirty = false

	//nolint:gosec // Path is the configured cache location.
	data, err := os.ReadFile(file)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("could not read dependency cache, reparsing all sources: " + err.Error())
		}
		return
	}

	var doc xmlDependencies
	if err := xml.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("dependency cache is corrupt, reparsing all sources")
		return
	}

	for _, group := range doc.IncludePaths {
		for _, src := range group.Sources {
			if rec := s.accept(root, group.Signature, src); rec != nil {
				s.index.Put(rec)
			}
		}
	}
	s.logger.Debug("loaded " + strconv.Itoa(s.index.Len()) + " dependency records")
}

// accept converts src to a record if its source still exists and its modification time
// is within Tolerance of the recorded one.
func (s *Store) accept(root, identity string, src xmlSource) *domain.DependencyRecord {
	recorded, err := strconv.ParseInt(src.LastModified, 16, 64)
	if err != nil {
		return nil
	}

	actual, err := s.stater.ModTime(domain.ResolvePath(root, src.File))
	if err != nil {
		return nil
	}

	drift := time.Duration(actual.UnixMilli()-recorded) * time.Millisecond
	if drift < -Tolerance || drift > Tolerance {
		return nil
	}

	return domain.NewDependencyRecord(
		src.File,
		identity,
		time.UnixMilli(recorded),
		includeFiles(src.Includes),
		includeFiles(src.SysIncludes),
	)
}

// Get returns the record for sourcePath parsed under identity, or nil.
func (s *Store) Get(sourcePath, identity string) *domain.DependencyRecord {
	return s.index.Get(sourcePath, identity)
}

// Put inserts or replaces rec and marks the store dirty.
func (s *Store) Put(rec *domain.DependencyRecord) {
	s.index.Put(rec)
	s.dirty = true
}

// Commit writes the store to the file it was loaded from if it changed since.
func (s *Store) Commit() error {
	if !s.dirty || s.file == "" {
		return nil
	}

	data, err := xml.MarshalIndent(s.document(), "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	data = append([]byte(xml.Header), data...)
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.file), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "path", s.file)
	}
	//nolint:gosec // Path is the configured cache location.
	if err := os.WriteFile(s.file, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "path", s.file)
	}

	s.dirty = false
	return nil
}

// document groups the records by include identity. Identities and sources are sorted.
func (s *Store) document() xmlDependencies {
	byIdentity := make(map[string][]xmlSource)
	for rec := range s.index.All() {
		id := rec.IncludeIdentity.String()
		byIdentity[id] = append(byIdentity[id], xmlSource{
			File:         rec.SourcePath.String(),
			LastModified: strconv.FormatInt(rec.SourceModTime.UnixMilli(), 16),
			Includes:     xmlIncludes(rec.Includes),
			SysIncludes:  xmlIncludes(rec.SysIncludes),
		})
	}

	identities := make([]string, 0, len(byIdentity))
	for id := range byIdentity {
		identities = append(identities, id)
	}
	slices.Sort(identities)

	doc := xmlDependencies{IncludePaths: make([]xmlIncludePath, 0, len(identities))}
	for _, id := range identities {
		doc.IncludePaths = append(doc.IncludePaths, xmlIncludePath{Signature: id, Sources: byIdentity[id]})
	}
	return doc
}

func xmlIncludes(paths []domain.InternedString) []xmlInclude {
	out := make([]xmlInclude, len(paths))
	for i, p := range paths {
		out[i] = xmlInclude{File: p.String()}
	}
	return out
}

func includeFiles(includes []xmlInclude) []string {
	out := make([]string, len(includes))
	for i, inc := range includes {
		out[i] = inc.File
	}
	return out
}
