package domain

import (
	"iter"
	"slices"
)

// RebuildState is the tri-state rebuild decision of a target.
type RebuildState uint8

const (
	// RebuildUnknown means no phase has decided yet.
	RebuildUnknown RebuildState = iota
	// RebuildNotNeeded means dependency analysis found the output current.
	RebuildNotNeeded
	// RebuildRequired means the target must be rebuilt. It is terminal.
	RebuildRequired
)

// Target is one output file together with the sources and tool configuration that produce it.
type Target struct {
	Config  ToolConfig
	Sources []string
	Output  string

	state RebuildState
}

// NewTarget creates a target with an unknown rebuild state.
func NewTarget(cfg ToolConfig, output string, sources ...string) *Target {
	return &Target{
		Config:  cfg,
		Output:  output,
		Sources: sources,
	}
}

// State returns the current rebuild decision.
func (t *Target) State() RebuildState {
	return t.state
}

// MustRebuild flags the target for rebuild.
func (t *Target) MustRebuild() {
	t.state = RebuildRequired
}

// MarkUpToDate records that the target is current, unless it is already flagged for rebuild.
func (t *Target) MarkUpToDate() {
	if t.state == RebuildRequired {
		return
	}
	t.state = RebuildNotNeeded
}

// NeedsRebuild reports whether the target is flagged for rebuild.
func (t *Target) NeedsRebuild() bool {
	return t.state == RebuildRequired
}

// TargetSet maps output files to targets and remembers the order in which outputs were first seen.
type TargetSet struct {
	order     []string
	byOutput  map[string]*Target
	unclaimed []string
}

// NewTargetSet creates an empty set.
func NewTargetSet() *TargetSet {
	return &TargetSet{byOutput: make(map[string]*Target)}
}

// Get returns the target producing output, or nil.
func (s *TargetSet) Get(output string) *Target {
	return s.byOutput[output]
}

// Add stores a new target. The caller must ensure its output is not yet present.
func (s *TargetSet) Add(t *Target) {
	s.byOutput[t.Output] = t
	s.order = append(s.order, t.Output)
}

// AddUnclaimed records a file no tool configuration bid for.
func (s *TargetSet) AddUnclaimed(file string) {
	s.unclaimed = append(s.unclaimed, file)
}

// Unclaimed returns the files no tool configuration bid for, in discovery order.
func (s *TargetSet) Unclaimed() []string {
	return slices.Clone(s.unclaimed)
}

// Len returns the number of targets.
func (s *TargetSet) Len() int {
	return len(s.order)
}

// All yields the targets in discovery order.
func (s *TargetSet) All() iter.Seq[*Target] {
	return func(yield func(*Target) bool) {
		for _, out := range s.order {
			if !yield(s.byOutput[out]) {
				return
			}
		}
	}
}

// Targets returns the targets in discovery order.
func (s *TargetSet) Targets() []*Target {
	return slices.Collect(s.All())
}
