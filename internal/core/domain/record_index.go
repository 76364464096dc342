package domain

import (
	"iter"
	"slices"
	"strings"
)

// RecordIndex is an ordered multimap from source path to the records parsed for that path,
// holding at most one record per include identity.
type RecordIndex struct {
	bySource map[InternedString][]*DependencyRecord
	size     int
}

// NewRecordIndex creates an empty index.
func NewRecordIndex() *RecordIndex {
	return &RecordIndex{bySource: make(map[InternedString][]*DependencyRecord)}
}

// Get returns the record for sourcePath parsed under identity, or nil.
func (x *RecordIndex) Get(sourcePath, identity string) *DependencyRecord {
	id := NewInternedString(identity)
	for _, rec := range x.bySource[NewInternedString(sourcePath)] {
		if rec.IncludeIdentity == id {
			return rec
		}
	}
	return nil
}

// Put stores rec. A record with the same identity is replaced in place.
// Otherwise rec is prepended to the collection of its source path.
func (x *RecordIndex) Put(rec *DependencyRecord) {
	records := x.bySource[rec.SourcePath]
	for i, existing := range records {
		if existing.IncludeIdentity == rec.IncludeIdentity {
			records[i] = rec
			return
		}
	}
	x.bySource[rec.SourcePath] = append([]*DependencyRecord{rec}, records...)
	x.size++
}

// Len returns the number of records across all source paths.
func (x *RecordIndex) Len() int {
	return x.size
}

// All yields every record ordered by source path, then collection order.
func (x *RecordIndex) All() iter.Seq[*DependencyRecord] {
	keys := make([]InternedString, 0, len(x.bySource))
	for k := range x.bySource {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b InternedString) int {
		return strings.Compare(a.String(), b.String())
	})

	return func(yield func(*DependencyRecord) bool) {
		for _, k := range keys {
			for _, rec := range x.bySource[k] {
				if !yield(rec) {
					return
				}
			}
		}
	}
}
