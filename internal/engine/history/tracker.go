// Package history compares targets against the fingerprints of their last successful build.
package history

import (
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// Tracker flags targets whose configuration or sources changed since they were last built.
type Tracker struct {
	store  ports.HistoryStore
	stater ports.FileStater
	now    func() time.Time
}

// NewTracker creates a Tracker over store.
func NewTracker(store ports.HistoryStore, stater ports.FileStater) *Tracker {
	return &Tracker{
		store:  store,
		stater: stater,
		now:    time.Now,
	}
}

// Load loads the history persisted in file.
func (t *Tracker) Load(file string) {
	t.store.Load(file)
}

// MarkForRebuild flags every target whose history entry does not match it.
// It never clears a flag.
func (t *Tracker) MarkForRebuild(root string, targets []*domain.Target) {
	for _, target := range targets {
		if target.NeedsRebuild() {
			continue
		}
		if !t.matches(root, target, t.store.Get(domain.RelativePath(root, target.Output))) {
			target.MustRebuild()
		}
	}
}

func (t *Tracker) matches(root string, target *domain.Target, entry *domain.HistoryEntry) bool {
	if entry == nil {
		return false
	}
	if entry.Config != target.Config.Name() || entry.FlagsSignature != target.Config.FlagsSignature() {
		return false
	}
	if len(entry.Sources) != len(target.Sources) {
		return false
	}
	for i, source := range target.Sources {
		stamp, ok := t.stamp(root, source)
		if !ok || stamp != entry.Sources[i] {
			return false
		}
	}
	return true
}

// Update records the current fingerprint of target after it was built successfully.
// Entries are keyed by the output path relative to root, so moving the tree keeps them.
func (t *Tracker) Update(root string, target *domain.Target) {
	sources := make([]domain.SourceStamp, len(target.Sources))
	for i, source := range target.Sources {
		// A source that cannot be stated keeps a zero time, which never matches.
		sources[i], _ = t.stamp(root, source)
		sources[i].Path = domain.RelativePath(root, source)
	}

	t.store.Put(domain.HistoryEntry{
		Output:         domain.RelativePath(root, target.Output),
		Config:         target.Config.Name(),
		FlagsSignature: target.Config.FlagsSignature(),
		Sources:        sources,
		Timestamp:      t.now(),
	})
}

// Commit persists the history store.
func (t *Tracker) Commit() error {
	return t.store.Commit()
}

func (t *Tracker) stamp(root, source string) (domain.SourceStamp, bool) {
	mtime, err := t.stater.ModTime(domain.ResolvePath(root, source))
	if err != nil {
		return domain.SourceStamp{}, false
	}
	return domain.SourceStamp{Path: domain.RelativePath(root, source), ModTime: mtime.UnixMilli()}, true
}
