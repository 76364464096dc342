package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/config"
	"go.trai.ch/forge/internal/adapters/cparser"
	"go.trai.ch/forge/internal/adapters/depcache"
	"go.trai.ch/forge/internal/adapters/fs"
	historystore "go.trai.ch/forge/internal/adapters/history"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/app"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/core/ports/mocks"
	"go.trai.ch/forge/internal/engine/bidder"
	"go.trai.ch/forge/internal/engine/history"
	"go.trai.ch/forge/internal/engine/planner"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/forge/internal/engine/walker"
	"go.uber.org/mock/gomock"
)

const description = `
objdir: obj
tools:
  - name: cc
    bids:
      - pattern: "*.c"
        bid: 1
    cmd: ["cc", "-c", "{in}", "-o", "{out}"]
collections:
  - name: sources
    input: ["src/*.c"]
`

var sourceTime = time.Now().Add(-time.Hour)

type harness struct {
	root     string
	app      *app.App
	executor *mocks.MockExecutor
	watcher  *mocks.MockWatcher
	logs     *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	root := t.TempDir()
	write(t, root, domain.ConfigFileName, description)
	write(t, root, "src/a.c", "int a;\n")
	write(t, root, "src/b.c", "int b;\n")

	buf := &bytes.Buffer{}
	log := logger.New().(*logger.Logger)
	log.SetOutput(buf)

	stater, err := fs.NewStatCache(fs.DefaultStatCacheSize)
	require.NoError(t, err)

	deps := depcache.NewStore(stater, log)
	walk := walker.New(deps, cparser.New(stater, log), stater)
	tracker := history.NewTracker(historystore.NewStore(log), stater)
	tracer := telemetry.NewNoOpTracer()
	plan := planner.New(bidder.New(stater), walk, tracker, deps, tracer, log)

	ctrl := gomock.NewController(t)
	executor := mocks.NewMockExecutor(ctrl)
	fileWatcher := mocks.NewMockWatcher(ctrl)

	sched := scheduler.New(executor, plan, tracer, log)
	sched.SetOutput(io.Discard, io.Discard)

	loader := config.NewLoader(log, fs.NewResolver(fs.NewWalker()))

	return &harness{
		root:     root,
		app:      app.New(loader, plan, sched, stater, fileWatcher, log).WithDebounceWindow(10 * time.Millisecond),
		executor: executor,
		watcher:  fileWatcher,
		logs:     buf,
	}
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	require.NoError(t, os.Chtimes(path, sourceTime, sourceTime))
}

// compile writes every output of group, the way a compiler would.
func compile(_ context.Context, _ string, group *domain.Group, _, _ io.Writer) error {
	for _, target := range group.Targets {
		if err := os.MkdirAll(filepath.Dir(target.Output), domain.DirPerm); err != nil {
			return err
		}
		if err := os.WriteFile(target.Output, nil, domain.FilePerm); err != nil {
			return err
		}
	}
	return nil
}

func outputs(group *domain.Group) []string {
	var names []string
	for _, output := range group.Outputs() {
		names = append(names, filepath.Base(output))
	}
	return names
}

func TestApp_Build(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	var built []string
	h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, root string, group *domain.Group, stdout, stderr io.Writer) error {
			built = append(built, outputs(group)...)
			return compile(ctx, root, group, stdout, stderr)
		})

	require.NoError(t, h.app.Build(ctx, h.root, app.BuildOptions{}))
	assert.Equal(t, []string{"a.o", "b.o"}, built)
	assert.FileExists(t, filepath.Join(h.root, domain.DefaultHistoryPath()))
	assert.FileExists(t, filepath.Join(h.root, domain.DefaultDependencyCachePath()))

	// Nothing changed, so the executor is not called again.
	require.NoError(t, h.app.Build(ctx, filepath.Join(h.root, "src"), app.BuildOptions{}))
	assert.Contains(t, h.logs.String(), "0 files to be recompiled")
}

func TestApp_BuildExplicitConfigFile(t *testing.T) {
	h := newHarness(t)

	h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compile)

	opts := app.BuildOptions{ConfigFile: filepath.Join(h.root, domain.ConfigFileName)}
	require.NoError(t, h.app.Build(context.Background(), t.TempDir(), opts))
	assert.FileExists(t, filepath.Join(h.root, "obj", "a.o"))
}

func TestApp_BuildRebuildAll(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compile).
		Times(2)

	require.NoError(t, h.app.Build(ctx, h.root, app.BuildOptions{}))
	require.NoError(t, h.app.Build(ctx, h.root, app.BuildOptions{RebuildAll: true}))
}

func TestApp_BuildFailure(t *testing.T) {
	h := newHarness(t)

	h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cc exited with status 1"))

	err := h.app.Build(context.Background(), h.root, app.BuildOptions{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	assert.Contains(t, h.logs.String(), "cc exited with status 1")

	// Failed targets are not recorded, so the next build retries them.
	h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compile)
	require.NoError(t, h.app.Build(context.Background(), h.root, app.BuildOptions{}))
}

func TestApp_BuildConfigurationError(t *testing.T) {
	h := newHarness(t)
	write(t, h.root, domain.ConfigFileName, "tools: []\n")

	err := h.app.Build(context.Background(), h.root, app.BuildOptions{})
	require.ErrorContains(t, err, domain.ErrNoToolConfigs.Error())
	assert.NotErrorIs(t, err, domain.ErrBuildExecutionFailed)
}

func TestApp_Plan(t *testing.T) {
	h := newHarness(t)

	depth := 0
	plan, err := h.app.Plan(context.Background(), h.root, app.BuildOptions{Depth: &depth})
	require.NoError(t, err)

	assert.Equal(t, 2, plan.RebuildCount())
	require.Len(t, plan.Groups, 1)
	assert.Equal(t, []string{"a.o", "b.o"}, outputs(plan.Groups[0]))
	assert.False(t, plan.Authoritative)
	assert.NoDirExists(t, filepath.Join(h.root, "obj"))
}

func TestApp_Clean(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compile)
	require.NoError(t, h.app.Build(ctx, h.root, app.BuildOptions{}))
	require.DirExists(t, filepath.Join(h.root, domain.ForgeDirName))
	require.DirExists(t, filepath.Join(h.root, "obj"))

	require.NoError(t, h.app.Clean(ctx, h.root, app.CleanOptions{Cache: true}))
	assert.NoDirExists(t, filepath.Join(h.root, domain.ForgeDirName))
	assert.DirExists(t, filepath.Join(h.root, "obj"))

	require.NoError(t, h.app.Clean(ctx, h.root, app.CleanOptions{Outputs: true}))
	assert.NoDirExists(t, filepath.Join(h.root, "obj"))
	assert.FileExists(t, filepath.Join(h.root, "src/a.c"))
	assert.Contains(t, h.logs.String(), "removed object directory")
}

func TestApp_CleanWithoutDescription(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.Remove(filepath.Join(h.root, domain.ConfigFileName)))

	err := h.app.Clean(context.Background(), h.root, app.CleanOptions{Cache: true})
	require.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}

// events replays the given changes, then blocks until ctx is done.
func events(ctx context.Context, changes ...ports.WatchEvent) iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for _, change := range changes {
			if !yield(change) {
				return
			}
		}
		<-ctx.Done()
	}
}

func TestApp_WatchRebuildsChangedFiles(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := filepath.Join(h.root, "src", "a.c")
	h.watcher.EXPECT().Start(gomock.Any(), h.root).Return(nil)
	h.watcher.EXPECT().Stop().Return(nil)
	h.watcher.EXPECT().Events().DoAndReturn(func() iter.Seq[ports.WatchEvent] {
		edited := time.Now().Add(time.Hour)
		assert.NoError(t, os.Chtimes(source, edited, edited))
		return events(ctx,
			ports.WatchEvent{Path: filepath.Join(h.root, "obj", "b.o"), Operation: ports.OpWrite},
			ports.WatchEvent{Path: filepath.Join(h.root, domain.DefaultHistoryPath()), Operation: ports.OpWrite},
			ports.WatchEvent{Path: source, Operation: ports.OpWrite},
		)
	})

	var rebuilt []string
	gomock.InOrder(
		h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(compile),
		h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, root string, group *domain.Group, stdout, stderr io.Writer) error {
				rebuilt = outputs(group)
				defer cancel()
				return compile(ctx, root, group, stdout, stderr)
			}),
	)

	require.NoError(t, h.app.Watch(ctx, h.root, app.BuildOptions{}))
	assert.Equal(t, []string{"a.o"}, rebuilt)
	assert.Contains(t, h.logs.String(), "1 files changed, rebuilding")
}

func TestApp_WatchKeepsWatchingAfterFailure(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := filepath.Join(h.root, "src", "b.c")
	h.watcher.EXPECT().Start(gomock.Any(), h.root).Return(nil)
	h.watcher.EXPECT().Stop().Return(nil)
	h.watcher.EXPECT().Events().Return(events(ctx, ports.WatchEvent{Path: source, Operation: ports.OpWrite}))

	gomock.InOrder(
		h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("syntax error")),
		h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, root string, group *domain.Group, stdout, stderr io.Writer) error {
				defer cancel()
				return compile(ctx, root, group, stdout, stderr)
			}),
	)

	require.NoError(t, h.app.Watch(ctx, h.root, app.BuildOptions{}))
	assert.Contains(t, h.logs.String(), "syntax error")
}

func TestApp_WatchStartFailure(t *testing.T) {
	h := newHarness(t)

	h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compile)
	h.watcher.EXPECT().Start(gomock.Any(), h.root).Return(errors.New("too many open files"))

	err := h.app.Watch(context.Background(), h.root, app.BuildOptions{})
	require.ErrorContains(t, err, "failed to start watcher")
}

func TestApp_WatchStoppedUnexpectedly(t *testing.T) {
	h := newHarness(t)

	h.executor.EXPECT().Execute(gomock.Any(), h.root, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(compile)
	h.watcher.EXPECT().Start(gomock.Any(), h.root).Return(nil)
	h.watcher.EXPECT().Stop().Return(nil)
	h.watcher.EXPECT().Events().Return(func(func(ports.WatchEvent) bool) {})

	err := h.app.Watch(context.Background(), h.root, app.BuildOptions{})
	require.ErrorIs(t, err, domain.ErrWatcherStopped)
}
