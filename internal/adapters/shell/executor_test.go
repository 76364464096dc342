package shell_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/shell"
	"go.trai.ch/forge/internal/adapters/toolchain"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newGroup(t *testing.T, command []string, targets ...*domain.Target) *domain.Group {
	t.Helper()
	cfg, err := toolchain.New(toolchain.Options{Name: "cc", Command: command})
	require.NoError(t, err)
	for _, target := range targets {
		target.Config = cfg
	}
	return &domain.Group{Config: cfg, Targets: targets}
}

func newExecutor(t *testing.T) *shell.Executor {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return shell.NewExecutor(log)
}

func TestExecutor_Execute_CreatesOutputDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.c"), []byte("int a;\n"), domain.FilePerm))

	output := filepath.Join(root, "obj", "nested", "a.o")
	group := newGroup(t,
		[]string{"sh", "-c", `cp "$1" "$2"`, "compile", "{in}", "{out}"},
		domain.NewTarget(nil, output, "a.c"),
	)

	err := newExecutor(t).Execute(context.Background(), root, group, io.Discard, io.Discard)
	require.NoError(t, err)

	// Relative sources resolve against root.
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "int a;\n", string(data))
}

func TestExecutor_Execute_RunsTargetsInOrder(t *testing.T) {
	root := t.TempDir()
	group := newGroup(t,
		[]string{"sh", "-c", `echo "compiling $1"`, "compile", "{in}"},
		domain.NewTarget(nil, filepath.Join(root, "a.o"), "a.c"),
		domain.NewTarget(nil, filepath.Join(root, "b.o"), "b.c"),
	)

	var stdout bytes.Buffer
	err := newExecutor(t).Execute(context.Background(), root, group, &stdout, io.Discard)
	require.NoError(t, err)

	out := stdout.String()
	require.Contains(t, out, "compiling a.c")
	require.Contains(t, out, "compiling b.c")
	assert.Less(t, bytes.Index(stdout.Bytes(), []byte("a.c")), bytes.Index(stdout.Bytes(), []byte("b.c")))
}

func TestExecutor_Execute_CommandFailure(t *testing.T) {
	root := t.TempDir()
	marker := filepath.Join(root, "second-ran")
	group := newGroup(t,
		[]string{"sh", "-c", `test "$1" != a.c || exit 3; touch "$2"`, "compile", "{in}", marker},
		domain.NewTarget(nil, filepath.Join(root, "obj", "a.o"), "a.c"),
		domain.NewTarget(nil, filepath.Join(root, "obj", "b.o"), "b.c"),
	)

	err := newExecutor(t).Execute(context.Background(), root, group, io.Discard, io.Discard)
	require.ErrorContains(t, err, "command failed")

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, 3, zErr.Metadata()["exit_code"])
	assert.Equal(t, "obj/a.o", zErr.Metadata()["target"])

	// The group stops at the first failing target.
	assert.NoFileExists(t, marker)
}

func TestExecutor_Execute_InvalidCommand(t *testing.T) {
	root := t.TempDir()
	group := newGroup(t,
		[]string{"nonexistent-command-xyz123", "{in}"},
		domain.NewTarget(nil, filepath.Join(root, "a.o"), "a.c"),
	)

	err := newExecutor(t).Execute(context.Background(), root, group, io.Discard, io.Discard)
	require.Error(t, err)
}

func TestExecutor_Execute_OutputDirFailure(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "obj")
	require.NoError(t, os.WriteFile(blocker, nil, domain.FilePerm))

	group := newGroup(t,
		[]string{"true"},
		domain.NewTarget(nil, filepath.Join(blocker, "a.o"), "a.c"),
	)

	err := newExecutor(t).Execute(context.Background(), root, group, io.Discard, io.Discard)
	require.ErrorContains(t, err, domain.ErrOutputDirCreateFailed.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, blocker, zErr.Metadata()["path"])
}

func TestExecutor_Execute_CancelledContext(t *testing.T) {
	root := t.TempDir()
	marker := filepath.Join(root, "ran")
	group := newGroup(t,
		[]string{"touch", marker},
		domain.NewTarget(nil, filepath.Join(root, "a.o"), "a.c"),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newExecutor(t).Execute(ctx, root, group, io.Discard, io.Discard)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, marker)
}
