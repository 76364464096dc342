// Package toolchain implements the tool configurations declared in the build description.
package toolchain

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Command template placeholders. Each must be a whole argument of the template.
const (
	PlaceholderIn       = "{in}"
	PlaceholderOut      = "{out}"
	PlaceholderSources  = "{sources}"
	PlaceholderFlags    = "{flags}"
	PlaceholderIncludes = "{includes}"
	PlaceholderDefines  = "{defines}"
)

var (
	_ domain.ToolConfig  = (*Config)(nil)
	_ domain.Precompiler = (*Config)(nil)
)

// BidRule claims files whose base name matches Pattern with priority Bid.
type BidRule struct {
	Pattern string
	Bid     int
}

// Options describe a tool configuration before validation.
type Options struct {
	Name string
	Kind domain.ToolKind
	// Rules are tried in order. The first matching rule decides the bid.
	Rules []BidRule
	// Prefix and Extension shape the output name as Prefix + stem + Extension.
	Prefix    string
	Extension string
	// Output is a fixed output name. Every claimed file then coalesces into one target.
	Output string
	// IncludeDirs and SysIncludeDirs are absolute search directories, in search order.
	IncludeDirs    []string
	SysIncludeDirs []string
	Defines        map[string]string
	Flags          []string
	// Command is the argument template, see the Placeholder constants.
	Command []string
	// IncludeFlag, SysIncludeFlag and DefineFlag prefix the expansions of {includes} and {defines}.
	IncludeFlag    string
	SysIncludeFlag string
	DefineFlag     string
	// Prototype is the absolute path of the precompiled header prototype source.
	Prototype string
}

// Config is an immutable, validated tool configuration.
type Config struct {
	opts      Options
	identity  string
	signature string
}

// New validates opts and derives the include identity and flags signature.
func New(opts Options) (*Config, error) {
	if len(opts.Command) == 0 {
		return nil, zerr.With(domain.ErrMissingCommand, "tool", opts.Name)
	}
	for _, rule := range opts.Rules {
		if _, err := filepath.Match(rule.Pattern, ""); err != nil || rule.Bid <= 0 {
			return nil, zerr.With(zerr.With(domain.ErrInvalidBidRule, "tool", opts.Name), "pattern", rule.Pattern)
		}
	}

	opts.Rules = slices.Clone(opts.Rules)
	opts.IncludeDirs = slices.Clone(opts.IncludeDirs)
	opts.SysIncludeDirs = slices.Clone(opts.SysIncludeDirs)
	opts.Flags = slices.Clone(opts.Flags)
	opts.Command = slices.Clone(opts.Command)

	if opts.Extension == "" && opts.Output == "" {
		opts.Extension = defaultExtension(opts.Kind)
	}
	if opts.Kind == domain.KindLibrarian && opts.Output == "" {
		opts.Output = "lib" + opts.Name + ".a"
	}
	if opts.IncludeFlag == "" {
		opts.IncludeFlag = "-I"
	}
	if opts.SysIncludeFlag == "" {
		opts.SysIncludeFlag = opts.IncludeFlag
	}
	if opts.DefineFlag == "" {
		opts.DefineFlag = "-D"
	}

	cfg := &Config{opts: opts}
	cfg.identity = domain.GenerateIncludeIdentity(opts.IncludeDirs, opts.SysIncludeDirs)
	cfg.signature = domain.GenerateFlagsSignature(
		opts.Kind,
		opts.Command,
		append(slices.Clone(opts.Flags), cfg.includeArgs()...),
		opts.Defines,
	)
	return cfg, nil
}

func defaultExtension(kind domain.ToolKind) string {
	switch kind {
	case domain.KindPCH:
		return ".pch"
	case domain.KindLibrarian:
		return ".a"
	default:
		return ".o"
	}
}

// Name returns the configuration name.
func (c *Config) Name() string { return c.opts.Name }

// Kind returns the configuration kind.
func (c *Config) Kind() domain.ToolKind { return c.opts.Kind }

// Bid returns the bid of the first rule matching the base name of filename, or 0.
func (c *Config) Bid(filename string) int {
	base := filepath.Base(filename)
	for _, rule := range c.opts.Rules {
		if ok, _ := filepath.Match(rule.Pattern, base); ok {
			return rule.Bid
		}
	}
	return 0
}

// OutputFileName returns the fixed output name if one is declared, else prefix + stem + extension.
func (c *Config) OutputFileName(base string) string {
	if c.opts.Output != "" {
		return c.opts.Output
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return c.opts.Prefix + stem + c.opts.Extension
}

// IncludeIdentity returns the include search fingerprint.
func (c *Config) IncludeIdentity() string { return c.identity }

// IncludeDirs returns the quoted include search path.
func (c *Config) IncludeDirs() []string { return slices.Clone(c.opts.IncludeDirs) }

// SysIncludeDirs returns the angle-bracket include search path.
func (c *Config) SysIncludeDirs() []string { return slices.Clone(c.opts.SysIncludeDirs) }

// FlagsSignature returns the fingerprint of kind, command template, flags, include path and defines.
func (c *Config) FlagsSignature() string { return c.signature }

// PrecompilePrototype returns the prototype source, or "".
func (c *Config) PrecompilePrototype() string { return c.opts.Prototype }

// Command expands the command template for t.
func (c *Config) Command(t *domain.Target) []string {
	args := make([]string, 0, len(c.opts.Command)+len(t.Sources))
	for _, arg := range c.opts.Command {
		switch arg {
		case PlaceholderIn:
			if len(t.Sources) > 0 {
				args = append(args, t.Sources[0])
			}
		case PlaceholderSources:
			args = append(args, t.Sources...)
		case PlaceholderOut:
			args = append(args, t.Output)
		case PlaceholderFlags:
			args = append(args, c.opts.Flags...)
		case PlaceholderIncludes:
			args = append(args, c.includeArgs()...)
		case PlaceholderDefines:
			args = append(args, c.defineArgs()...)
		default:
			args = append(args, arg)
		}
	}
	return args
}

func (c *Config) includeArgs() []string {
	args := make([]string, 0, len(c.opts.IncludeDirs)+len(c.opts.SysIncludeDirs))
	for _, dir := range c.opts.IncludeDirs {
		args = append(args, c.opts.IncludeFlag+dir)
	}
	for _, dir := range c.opts.SysIncludeDirs {
		args = append(args, c.opts.SysIncludeFlag+dir)
	}
	return args
}

func (c *Config) defineArgs() []string {
	names := make([]string, 0, len(c.opts.Defines))
	for name := range c.opts.Defines {
		names = append(names, name)
	}
	slices.Sort(names)

	args := make([]string, 0, len(names))
	for _, name := range names {
		if value := c.opts.Defines[name]; value != "" {
			args = append(args, c.opts.DefineFlag+name+"="+value)
			continue
		}
		args = append(args, c.opts.DefineFlag+name)
	}
	return args
}
