package domain

import "time"

// DependencyRecord holds the direct includes of one source file as resolved under one include path identity.
// Apart from the memoized composite timestamp, a record is never mutated after it is created.
type DependencyRecord struct {
	// SourcePath is the path of the file relative to the build base directory.
	SourcePath InternedString
	// IncludeIdentity fingerprints the include search configuration that resolved Includes.
	IncludeIdentity InternedString
	// SourceModTime is the modification time of the file when it was parsed.
	SourceModTime time.Time
	// Includes are the locally resolved headers, relative to the base directory, in include order.
	Includes []InternedString
	// SysIncludes are system header names. They never take part in staleness decisions.
	SysIncludes []InternedString

	composite      time.Time
	compositeKnown bool
}

// NewDependencyRecord creates a record with an unknown composite timestamp.
func NewDependencyRecord(
	sourcePath, identity string,
	modTime time.Time,
	includes, sysIncludes []string,
) *DependencyRecord {
	return &DependencyRecord{
		SourcePath:      NewInternedString(sourcePath),
		IncludeIdentity: NewInternedString(identity),
		SourceModTime:   modTime,
		Includes:        NewInternedStrings(includes),
		SysIncludes:     NewInternedStrings(sysIncludes),
	}
}

// CompositeModTime returns the newest modification time across the file and its transitive includes.
// The second result is false until the composite has been computed.
func (r *DependencyRecord) CompositeModTime() (time.Time, bool) {
	return r.composite, r.compositeKnown
}

// SetCompositeModTime memoizes the composite timestamp. Only the first call has an effect.
func (r *DependencyRecord) SetCompositeModTime(t time.Time) {
	if r.compositeKnown {
		return
	}
	r.composite = t
	r.compositeKnown = true
}

// NewerThan reports whether the file itself or its known composite is newer than ref.
func (r *DependencyRecord) NewerThan(ref time.Time) bool {
	if r.SourceModTime.After(ref) {
		return true
	}
	return r.compositeKnown && r.composite.After(ref)
}
