// Package walker decides whether a target is stale by traversing its transitive includes.
package walker

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
)

// MaxStackDepth is the capacity of the visit stack in full analysis mode.
const MaxStackDepth = 50

// Result is the outcome of visiting a record.
type Result uint8

const (
	// Continue descends into the includes of the record.
	Continue Result = iota
	// StopBranch skips the includes of the record because its composite time is known and current.
	StopBranch
	// ForceRebuild ends the traversal. The target is stale.
	ForceRebuild
)

// Walker traverses include graphs backed by a dependency store, parsing files on demand.
type Walker struct {
	store     ports.DependencyStore
	parser    ports.IncludeParser
	stater    ports.FileStater
	evaluated int
}

// New creates a Walker.
func New(store ports.DependencyStore, parser ports.IncludeParser, stater ports.FileStater) *Walker {
	return &Walker{
		store:  store,
		parser: parser,
		stater: stater,
	}
}

// Evaluated returns the number of records visited since the walker was created or reset.
func (w *Walker) Evaluated() int {
	return w.evaluated
}

// ResetEvaluated sets the evaluated count back to zero.
func (w *Walker) ResetEvaluated() {
	w.evaluated = 0
}

// NeedsRebuild reports whether any source of target, or any header it transitively includes,
// is newer than the output.
//
// A negative depth analyzes the full graph and treats an exhausted visit stack as stale.
// Otherwise at most depth levels are visited and exhaustion is ignored, so the answer may
// miss stale headers.
func (w *Walker) NeedsRebuild(ctx context.Context, root string, target *domain.Target, depth int) (bool, error) {
	ref, err := w.stater.ModTime(domain.ResolvePath(root, target.Output))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, err
	}

	cfg := target.Config
	for _, source := range target.Sources {
		rec, err := w.record(ctx, root, domain.RelativePath(root, source), cfg)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return true, nil
			}
			return false, err
		}

		t := newTraversal(w, root, cfg, ref, depth)
		result, err := t.walk(ctx, rec)
		if err != nil {
			return false, err
		}
		if result == ForceRebuild {
			return true, nil
		}
	}
	return false, nil
}

// Record stores the records of the sources of target and of every file they transitively
// include, parsing the ones the store does not know. Includes that no longer exist are skipped.
func (w *Walker) Record(ctx context.Context, root string, target *domain.Target) error {
	pending := make([]string, 0, len(target.Sources))
	for _, source := range target.Sources {
		pending = append(pending, domain.RelativePath(root, source))
	}

	seen := make(map[string]struct{})
	for len(pending) > 0 {
		path := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}

		rec, err := w.record(ctx, root, path, target.Config)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
		for _, include := range rec.Includes {
			pending = append(pending, include.String())
		}
	}
	return nil
}

// record returns the stored record for path, parsing and storing it if there is none.
func (w *Walker) record(
	ctx context.Context,
	root, path string,
	cfg domain.ToolConfig,
) (*domain.DependencyRecord, error) {
	if rec := w.store.Get(path, cfg.IncludeIdentity()); rec != nil {
		return rec, nil
	}
	rec, err := w.parser.ParseIncludes(ctx, root, path, cfg)
	if err != nil {
		return nil, err
	}
	w.store.Put(rec)
	return rec, nil
}

// traversal is the state of one walk from a source record, checking timestamps against ref.
type traversal struct {
	walker              *Walker
	root                string
	cfg                 domain.ToolConfig
	ref                 time.Time
	stack               *visitStack
	rebuildOnExhaustion bool
}

func newTraversal(w *Walker, root string, cfg domain.ToolConfig, ref time.Time, depth int) *traversal {
	capacity, rebuild := MaxStackDepth, true
	if depth >= 0 {
		capacity, rebuild = min(depth, MaxStackDepth), false
	}
	return &traversal{
		walker:              w,
		root:                root,
		cfg:                 cfg,
		ref:                 ref,
		stack:               newVisitStack(capacity),
		rebuildOnExhaustion: rebuild,
	}
}

func (t *traversal) walk(ctx context.Context, rec *domain.DependencyRecord) (Result, error) {
	t.walker.evaluated++

	if result := t.visit(rec); result != Continue {
		return result, nil
	}
	if t.stack.contains(rec) {
		return Continue, nil
	}
	if !t.stack.push(rec) {
		if t.rebuildOnExhaustion {
			return ForceRebuild, nil
		}
		return StopBranch, nil
	}
	defer t.stack.pop()

	children, missing := t.known(rec)
	if t.preview(rec, children) == ForceRebuild {
		return ForceRebuild, nil
	}

	if missing > 0 {
		for i, include := range rec.Includes {
			if children[i] != nil {
				continue
			}
			child, err := t.walker.record(ctx, t.root, include.String(), t.cfg)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return ForceRebuild, nil
				}
				return Continue, err
			}
			children[i] = child
		}
		if t.preview(rec, children) == ForceRebuild {
			return ForceRebuild, nil
		}
	}

	for _, child := range children {
		result, err := t.walk(ctx, child)
		if err != nil || result == ForceRebuild {
			return result, err
		}
	}

	t.memoize(rec, children)
	return Continue, nil
}

// visit checks rec against the reference time.
func (t *traversal) visit(rec *domain.DependencyRecord) Result {
	if rec.NewerThan(t.ref) {
		return ForceRebuild
	}
	if _, known := rec.CompositeModTime(); known {
		return StopBranch
	}
	return Continue
}

// known looks up the records of the includes of rec. Missing entries are nil.
func (t *traversal) known(rec *domain.DependencyRecord) ([]*domain.DependencyRecord, int) {
	identity := t.cfg.IncludeIdentity()
	children := make([]*domain.DependencyRecord, len(rec.Includes))
	missing := 0
	for i, include := range rec.Includes {
		children[i] = t.walker.store.Get(include.String(), identity)
		if children[i] == nil {
			missing++
		}
	}
	return children, missing
}

// preview checks the children that are already known without descending into them,
// and memoizes the parent when every child has a composite time.
func (t *traversal) preview(parent *domain.DependencyRecord, children []*domain.DependencyRecord) Result {
	result := Continue
	for _, child := range children {
		if child != nil && child.NewerThan(t.ref) {
			result = ForceRebuild
		}
	}
	t.memoize(parent, children)
	return result
}

// memoize sets the composite time of parent if every child has one.
func (t *traversal) memoize(parent *domain.DependencyRecord, children []*domain.DependencyRecord) {
	composite := parent.SourceModTime
	for _, child := range children {
		if child == nil {
			return
		}
		c, known := child.CompositeModTime()
		if !known {
			return
		}
		if c.After(composite) {
			composite = c
		}
	}
	parent.SetCompositeModTime(composite)
}
