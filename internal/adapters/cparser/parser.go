// Package cparser extracts the direct includes of C and C++ sources.
package cparser

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.IncludeParser = (*Parser)(nil)

// Parser implements ports.IncludeParser by scanning preprocessor directives.
type Parser struct {
	stater ports.FileStater
	logger ports.Logger
}

// New creates a Parser that resolves headers through stater.
func New(stater ports.FileStater, logger ports.Logger) *Parser {
	return &Parser{stater: stater, logger: logger}
}

// ParseIncludes scans sourcePath and resolves its includes.
//
// Quoted includes are searched in the directory of the including file, then the include
// directories, then the system include directories. Angle-bracket includes skip the first step.
// A header found outside the system directories is recorded as a local include. Everything
// else is recorded by name as a system include. Unresolved quoted includes are dropped.
func (p *Parser) ParseIncludes(
	ctx context.Context,
	root, sourcePath string,
	cfg domain.ToolConfig,
) (*domain.DependencyRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs := domain.ResolvePath(root, sourcePath)
	modTime, err := p.stater.ModTime(abs)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Path comes from the build description and include resolution.
	buf, err := os.ReadFile(abs)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrIncludeParseFailed.Error()), "file", sourcePath)
	}

	p.logger.Debug("Parsing " + sourcePath)

	var includes, sysIncludes []string
	localDir := filepath.Dir(abs)
	for _, d := range scanDirectives(buf) {
		var search []string
		if !d.system {
			search = append(search, localDir)
		}
		search = append(search, cfg.IncludeDirs()...)

		if found, ok := p.find(d.name, search); ok {
			includes = append(includes, domain.RelativePath(root, found))
			continue
		}

		if !d.system {
			if _, ok := p.find(d.name, cfg.SysIncludeDirs()); !ok {
				p.logger.Debug("unresolved include " + d.name + " in " + sourcePath)
				continue
			}
		}
		sysIncludes = append(sysIncludes, d.name)
	}

	return domain.NewDependencyRecord(sourcePath, cfg.IncludeIdentity(), modTime, includes, sysIncludes), nil
}

func (p *Parser) find(name string, dirs []string) (string, bool) {
	if filepath.IsAbs(name) {
		return name, p.isFile(name)
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if p.isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (p *Parser) isFile(path string) bool {
	isDir, err := p.stater.IsDir(path)
	return err == nil && !isDir
}
