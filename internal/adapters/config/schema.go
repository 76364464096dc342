package config

// Forgefile represents the structure of the forge.yaml build description.
type Forgefile struct {
	Version string `yaml:"version"`
	Root    string `yaml:"root"`
	ObjDir  string `yaml:"objdir"`
	// DependencyDepth is the default depth of dependency analysis. Unset means full analysis.
	DependencyDepth *int            `yaml:"dependencyDepth"`
	Tools           []ToolDTO       `yaml:"tools"`
	Collections     []CollectionDTO `yaml:"collections"`
}

// ToolDTO represents a tool configuration. Tools are registered in declaration order.
type ToolDTO struct {
	Name           string            `yaml:"name"`
	Kind           string            `yaml:"kind"`
	Bids           []BidDTO          `yaml:"bids"`
	Prefix         string            `yaml:"prefix"`
	Extension      string            `yaml:"extension"`
	Output         string            `yaml:"output"`
	Includes       []string          `yaml:"includes"`
	SysIncludes    []string          `yaml:"sysIncludes"`
	Defines        map[string]string `yaml:"defines"`
	Flags          []string          `yaml:"flags"`
	Cmd            []string          `yaml:"cmd"`
	IncludeFlag    string            `yaml:"includeFlag"`
	SysIncludeFlag string            `yaml:"sysIncludeFlag"`
	DefineFlag     string            `yaml:"defineFlag"`
	PCH            *PCHDTO           `yaml:"pch"`
}

// BidDTO claims the files whose base name matches Pattern with priority Bid.
type BidDTO struct {
	Pattern string `yaml:"pattern"`
	Bid     int    `yaml:"bid"`
}

// PCHDTO declares the prototype source of a precompiled header.
type PCHDTO struct {
	Prototype string `yaml:"prototype"`
}

// CollectionDTO represents a named set of candidate source files.
type CollectionDTO struct {
	Name     string   `yaml:"name"`
	Input    []string `yaml:"input"`
	Tools    []string `yaml:"tools"`
	Required bool     `yaml:"required"`
}
