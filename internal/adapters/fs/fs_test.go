package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/core/domain"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, rel := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
		require.NoError(t, os.WriteFile(path, nil, domain.FilePerm))
	}
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		r, err := filepath.Rel(root, path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(r))
	}
	return out
}

func TestWalker_WalkFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/a.c",
		"src/lib/b.c",
		"src/lib/b.o",
		".git/HEAD",
		".forge/history.json",
		"vendor/x.c",
	)

	var files []string
	for path := range fs.NewWalker().WalkFiles(root, []string{"vendor", "*.o"}) {
		files = append(files, path)
	}
	slices.Sort(files)

	assert.Equal(t, []string{"src/a.c", "src/lib/b.c"}, rel(t, root, files))
}

func TestWalker_StopsEarly(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.c", "b.c", "c.c")

	count := 0
	for range fs.NewWalker().WalkFiles(root, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestResolver_ResolveInputs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/main.c",
		"src/util.c",
		"src/start.s",
		"src/lib/deep/x.c",
		"include/common.h",
	)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "empty.c"), domain.DirPerm))

	resolver := fs.NewResolver(fs.NewWalker())

	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"glob", []string{"src/*.c"}, []string{"src/main.c", "src/util.c"}},
		{"recursive", []string{"src/**/*.c"}, []string{"src/lib/deep/x.c", "src/main.c", "src/util.c"}},
		{"recursive without name", []string{"include/**"}, []string{"include/common.h"}},
		{"literal", []string{"src/start.s"}, []string{"src/start.s"}},
		{"deduplicated", []string{"src/*.c", "src/main.c"}, []string{"src/main.c", "src/util.c"}},
		{"no match", []string{"src/*.cpp"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.ResolveInputs(tt.patterns, root)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rel(t, root, got))
		})
	}
}

func TestResolver_AbsolutePattern(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.c")

	got, err := fs.NewResolver(fs.NewWalker()).ResolveInputs([]string{filepath.Join(root, "src", "*.c")}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "src", "a.c")}, got)
}

func TestResolver_Errors(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "src/a.c")
	resolver := fs.NewResolver(fs.NewWalker())

	_, err := resolver.ResolveInputs([]string{"src/missing.c"}, root)
	require.ErrorContains(t, err, domain.ErrInputResolutionFailed.Error())

	_, err = resolver.ResolveInputs([]string{"src"}, root)
	require.ErrorContains(t, err, domain.ErrInputResolutionFailed.Error())

	_, err = resolver.ResolveInputs([]string{"src/[.c"}, root)
	require.ErrorContains(t, err, "failed to glob path")
}

func TestStatCache(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.c")
	path := filepath.Join(root, "a.c")

	first := time.UnixMilli(1700000000000)
	require.NoError(t, os.Chtimes(path, first, first))

	cache, err := fs.NewStatCache(fs.DefaultStatCacheSize)
	require.NoError(t, err)

	got, err := cache.ModTime(path)
	require.NoError(t, err)
	assert.True(t, got.Equal(first))

	// Cached until invalidated.
	second := first.Add(time.Minute)
	require.NoError(t, os.Chtimes(path, second, second))
	got, err = cache.ModTime(path)
	require.NoError(t, err)
	assert.True(t, got.Equal(first))

	cache.Invalidate([]string{path})
	got, err = cache.ModTime(path)
	require.NoError(t, err)
	assert.True(t, got.Equal(second))

	isDir, err := cache.IsDir(root)
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestStatCache_MissingFilesAreNotCached(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "later.o")

	cache, err := fs.NewStatCache(fs.DefaultStatCacheSize)
	require.NoError(t, err)

	_, err = cache.ModTime(path)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.ErrorContains(t, err, domain.ErrPathStatFailed.Error())

	writeTree(t, root, "later.o")
	_, err = cache.ModTime(path)
	require.NoError(t, err)
}

func TestStatCache_InvalidateAll(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.c")
	path := filepath.Join(root, "a.c")

	cache, err := fs.NewStatCache(fs.DefaultStatCacheSize)
	require.NoError(t, err)
	_, err = cache.ModTime(path)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	cache.Invalidate(nil)

	_, err = cache.ModTime(path)
	require.Error(t, err)
}

func TestNewStatCache_InvalidSize(t *testing.T) {
	_, err := fs.NewStatCache(0)
	require.Error(t, err)
}
