// Package config provides the build description loader for forge.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/adapters/toolchain"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger   ports.Logger
	resolver ports.InputResolver
}

// NewLoader creates a new Loader that expands collections through resolver.
func NewLoader(logger ports.Logger, resolver ports.InputResolver) *Loader {
	return &Loader{Logger: logger, resolver: resolver}
}

// DiscoverRoot walks up from cwd to the nearest directory containing forge.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	currentDir := cwd
	for {
		if _, err := os.Stat(filepath.Join(currentDir, domain.ConfigFileName)); err == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
		}
		currentDir = parentDir
	}
}

// Load finds the build description above cwd and loads it.
func (l *Loader) Load(cwd string) (*domain.BuildDescription, error) {
	dir, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}
	return l.LoadFile(filepath.Join(dir, domain.ConfigFileName))
}

// LoadFile reads the build description at configPath and resolves its collections.
func (l *Loader) LoadFile(configPath string) (*domain.BuildDescription, error) {
	if abs, err := filepath.Abs(configPath); err == nil {
		configPath = abs
	}

	var forgefile Forgefile
	if err := readAndUnmarshalYAML(configPath, &forgefile); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if len(forgefile.Tools) == 0 {
		return nil, zerr.With(domain.ErrNoToolConfigs, "path", configPath)
	}

	root := resolveRoot(configPath, forgefile.Root)

	registry := domain.NewRegistry()
	for i := range forgefile.Tools {
		cfg, err := buildTool(root, &forgefile.Tools[i])
		if err != nil {
			return nil, err
		}
		if err := registry.Register(cfg); err != nil {
			return nil, err
		}
	}

	collections, err := l.buildCollections(root, forgefile.Collections)
	if err != nil {
		return nil, err
	}

	objDir := forgefile.ObjDir
	if objDir == "" {
		objDir = domain.DefaultObjDir
	}

	depth := domain.FullDepth
	if forgefile.DependencyDepth != nil {
		depth = *forgefile.DependencyDepth
	}

	return &domain.BuildDescription{
		Root:        root,
		ObjDir:      filepath.Clean(domain.ResolvePath(root, objDir)),
		Registry:    registry,
		Collections: collections,
		Depth:       depth,
	}, nil
}

func (l *Loader) buildCollections(root string, dtos []CollectionDTO) ([]domain.FileCollection, error) {
	collections := make([]domain.FileCollection, 0, len(dtos))
	for i, dto := range dtos {
		name := dto.Name
		if name == "" {
			name = fmt.Sprintf("collection %d", i+1)
		}

		files, err := l.resolver.ResolveInputs(dto.Input, root)
		if err != nil {
			return nil, zerr.With(err, "collection", name)
		}
		if len(files) == 0 {
			l.Logger.Warn(fmt.Sprintf("collection %q matches no files", name))
		}

		collections = append(collections, domain.FileCollection{
			Name:     name,
			Files:    files,
			Tools:    dto.Tools,
			Required: dto.Required,
		})
	}
	return collections, nil
}

// buildTool maps a tool DTO to a tool configuration. Include directories and the
// precompiled header prototype are resolved against root.
func buildTool(root string, dto *ToolDTO) (*toolchain.Config, error) {
	if dto.Name == "" {
		return nil, domain.ErrMissingToolName
	}

	kind, err := domain.ParseToolKind(dto.Kind)
	if err != nil {
		return nil, zerr.With(err, "tool", dto.Name)
	}

	rules := make([]toolchain.BidRule, len(dto.Bids))
	for i, bid := range dto.Bids {
		rules[i] = toolchain.BidRule{Pattern: bid.Pattern, Bid: bid.Bid}
	}

	opts := toolchain.Options{
		Name:           dto.Name,
		Kind:           kind,
		Rules:          rules,
		Prefix:         dto.Prefix,
		Extension:      dto.Extension,
		Output:         dto.Output,
		IncludeDirs:    resolvePaths(root, dto.Includes),
		SysIncludeDirs: resolvePaths(root, dto.SysIncludes),
		Defines:        dto.Defines,
		Flags:          dto.Flags,
		Command:        dto.Cmd,
		IncludeFlag:    dto.IncludeFlag,
		SysIncludeFlag: dto.SysIncludeFlag,
		DefineFlag:     dto.DefineFlag,
	}
	if dto.PCH != nil && dto.PCH.Prototype != "" {
		opts.Prototype = domain.ResolvePath(root, dto.PCH.Prototype)
	}

	return toolchain.New(opts)
}

func resolvePaths(root string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	resolved := make([]string, len(paths))
	for i, path := range paths {
		resolved[i] = filepath.Clean(domain.ResolvePath(root, path))
	}
	return resolved
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is found by DiscoverRoot or given by the user
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}
