package domain

import (
	"slices"

	"go.trai.ch/zerr"
)

// ToolKind classifies what a tool configuration produces.
type ToolKind uint8

const (
	// KindCompiler turns one source file into one object file.
	KindCompiler ToolKind = iota
	// KindAssembler turns one assembly file into one object file.
	KindAssembler
	// KindLibrarian combines many inputs into a single archive.
	KindLibrarian
	// KindPCH generates a precompiled header from a prototype source.
	KindPCH
)

// String returns the name used for the kind in build descriptions.
func (k ToolKind) String() string {
	switch k {
	case KindCompiler:
		return "compiler"
	case KindAssembler:
		return "assembler"
	case KindLibrarian:
		return "librarian"
	case KindPCH:
		return "pch"
	default:
		return "unknown"
	}
}

// ParseToolKind converts a build description kind into a ToolKind.
func ParseToolKind(s string) (ToolKind, error) {
	switch s {
	case "", "compiler":
		return KindCompiler, nil
	case "assembler":
		return KindAssembler, nil
	case "librarian":
		return KindLibrarian, nil
	case "pch":
		return KindPCH, nil
	default:
		return 0, zerr.With(ErrInvalidToolKind, "kind", s)
	}
}

// ToolConfig is a compiler, assembler or librarian configuration as seen by the decision engine.
type ToolConfig interface {
	// Name identifies the configuration. Targets are grouped by it.
	Name() string
	// Kind reports what the configuration produces.
	Kind() ToolKind
	// Bid returns the priority with which the configuration claims filename. Zero or less declines it.
	Bid(filename string) int
	// OutputFileName computes the output file name for a source base name.
	OutputFileName(base string) string
	// IncludeIdentity fingerprints the include search path configuration.
	IncludeIdentity() string
	// IncludeDirs are searched for quoted includes, after the including file's directory.
	IncludeDirs() []string
	// SysIncludeDirs are searched for angle-bracket includes.
	SysIncludeDirs() []string
	// FlagsSignature fingerprints everything besides the sources that affects the output.
	FlagsSignature() string
	// Command expands the tool's command line for t.
	Command(t *Target) []string
}

// Precompiler is implemented by tool configurations that generate a precompiled header from a prototype file.
type Precompiler interface {
	ToolConfig
	// PrecompilePrototype returns the prototype source path, or "" if none is declared.
	PrecompilePrototype() string
}

// Registry is the ordered set of tool configurations of one build invocation.
type Registry struct {
	configs []ToolConfig
	byName  map[string]ToolConfig
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]ToolConfig)}
}

// Register appends cfg. Registration order is bidding tie-break order and group order.
func (r *Registry) Register(cfg ToolConfig) error {
	if _, exists := r.byName[cfg.Name()]; exists {
		return zerr.With(ErrDuplicateToolConfig, "tool", cfg.Name())
	}
	r.configs = append(r.configs, cfg)
	r.byName[cfg.Name()] = cfg
	return nil
}

// Lookup returns the configuration registered under name.
func (r *Registry) Lookup(name string) (ToolConfig, bool) {
	cfg, ok := r.byName[name]
	return cfg, ok
}

// Configs returns the configurations in registration order.
func (r *Registry) Configs() []ToolConfig {
	return slices.Clone(r.configs)
}

// Index returns the registration position of the named configuration, or -1.
func (r *Registry) Index(name string) int {
	return slices.IndexFunc(r.configs, func(c ToolConfig) bool { return c.Name() == name })
}

// Len returns the number of registered configurations.
func (r *Registry) Len() int {
	return len(r.configs)
}
