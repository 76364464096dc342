package domain

// FullDepth requests unbounded dependency analysis.
// Any negative depth means the same; exhausting the visit stack then forces a rebuild.
const FullDepth = -1

// Options are the invocation inputs of a build that do not come from the build description.
type Options struct {
	// Depth bounds dependency analysis. Negative means full analysis.
	Depth int
	// RebuildAll flags every target regardless of caches.
	RebuildAll bool
	// Relentless keeps invoking later groups after a group fails.
	Relentless bool
}

// Partial reports whether dependency analysis is bounded.
func (o Options) Partial() bool {
	return o.Depth >= 0
}

// BuildDescription is everything the build description file declares.
type BuildDescription struct {
	// Root is the absolute base directory. Record and history paths are relative to it.
	Root string
	// ObjDir is the absolute directory outputs are placed in.
	ObjDir      string
	Registry    *Registry
	Collections []FileCollection
	// Depth is the default dependency depth.
	Depth int
}

// Group is the rebuild work for one tool configuration.
type Group struct {
	Config  ToolConfig
	Targets []*Target
}

// Outputs returns the output files of the group in invocation order.
func (g *Group) Outputs() []string {
	out := make([]string, len(g.Targets))
	for i, t := range g.Targets {
		out[i] = t.Output
	}
	return out
}

// Plan is the result of the decision phase.
type Plan struct {
	Root      string
	Groups    []*Group
	UpToDate  []*Target
	Unclaimed []string
	// Evaluated counts the dependency records visited during analysis.
	Evaluated int
	// Authoritative is false when bounded analysis may have missed stale headers.
	Authoritative bool
}

// RebuildCount returns the number of targets to be rebuilt.
func (p *Plan) RebuildCount() int {
	n := 0
	for _, g := range p.Groups {
		n += len(g.Targets)
	}
	return n
}
