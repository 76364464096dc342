package cparser_test

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/cparser"
	forgefs "go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/adapters/toolchain"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
}

func newParser(t *testing.T) *cparser.Parser {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	stater, err := forgefs.NewStatCache(64)
	require.NoError(t, err)
	return cparser.New(stater, logger)
}

func TestParser_ParseIncludes(t *testing.T) {
	root := t.TempDir()
	sysDir := t.TempDir()

	writeFile(t, filepath.Join(root, "src", "main.c"), `#include "local.h"
#include "common.h"
#include <stdio.h>
#include <config.h>
#include "missing.h"
#include "sysquoted.h"
`)
	writeFile(t, filepath.Join(root, "src", "local.h"), "")
	writeFile(t, filepath.Join(root, "include", "common.h"), "")
	writeFile(t, filepath.Join(root, "include", "config.h"), "")
	writeFile(t, filepath.Join(sysDir, "sysquoted.h"), "")

	mtime := time.UnixMilli(1700000000123)
	require.NoError(t, os.Chtimes(filepath.Join(root, "src", "main.c"), mtime, mtime))

	cfg, err := toolchain.New(toolchain.Options{
		Name:           "cc",
		Command:        []string{"cc"},
		IncludeDirs:    []string{filepath.Join(root, "include")},
		SysIncludeDirs: []string{sysDir},
	})
	require.NoError(t, err)

	rec, err := newParser(t).ParseIncludes(context.Background(), root, "src/main.c", cfg)
	require.NoError(t, err)

	assert.Equal(t, "src/main.c", rec.SourcePath.String())
	assert.Equal(t, cfg.IncludeIdentity(), rec.IncludeIdentity.String())
	assert.True(t, rec.SourceModTime.Equal(mtime))
	assert.Equal(t, []string{"src/local.h", "include/common.h", "include/config.h"}, domain.Strings(rec.Includes))
	assert.Equal(t, []string{"stdio.h", "sysquoted.h"}, domain.Strings(rec.SysIncludes))

	_, known := rec.CompositeModTime()
	assert.False(t, known)
}

func TestParser_LocalDirectoryWinsOverIncludeDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "a.c"), `#include "dup.h"`)
	writeFile(t, filepath.Join(root, "src", "dup.h"), "")
	writeFile(t, filepath.Join(root, "include", "dup.h"), "")

	cfg, err := toolchain.New(toolchain.Options{
		Name:        "cc",
		Command:     []string{"cc"},
		IncludeDirs: []string{filepath.Join(root, "include")},
	})
	require.NoError(t, err)

	rec, err := newParser(t).ParseIncludes(context.Background(), root, "src/a.c", cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/dup.h"}, domain.Strings(rec.Includes))
}

func TestParser_MissingFile(t *testing.T) {
	cfg, err := toolchain.New(toolchain.Options{Name: "cc", Command: []string{"cc"}})
	require.NoError(t, err)

	_, err = newParser(t).ParseIncludes(context.Background(), t.TempDir(), "gone.h", cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestParser_CanceledContext(t *testing.T) {
	cfg, err := toolchain.New(toolchain.Options{Name: "cc", Command: []string{"cc"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = newParser(t).ParseIncludes(ctx, t.TempDir(), "a.c", cfg)
	require.ErrorIs(t, err, context.Canceled)
}
