// Package app implements the application layer for forge.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/forge/internal/adapters/telemetry"
	"go.trai.ch/forge/internal/adapters/watcher"
	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/planner"
	"go.trai.ch/forge/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	planner      *planner.Planner
	scheduler    *scheduler.Scheduler
	stater       ports.FileStater
	watcher      ports.Watcher
	logger       ports.Logger

	debounceWindow time.Duration
	telemetryOnce  sync.Once
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	plan *planner.Planner,
	sched *scheduler.Scheduler,
	stater ports.FileStater,
	fileWatcher ports.Watcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader:   loader,
		planner:        plan,
		scheduler:      sched,
		stater:         stater,
		watcher:        fileWatcher,
		logger:         log,
		debounceWindow: watcher.DefaultDebounceWindow,
	}
}

// WithDebounceWindow sets how long watch mode waits for changes to settle.
func (a *App) WithDebounceWindow(window time.Duration) *App {
	a.debounceWindow = window
	return a
}

// BuildOptions configures Build, Plan and Watch.
type BuildOptions struct {
	// ConfigFile selects the build description instead of searching upwards from cwd.
	ConfigFile string
	// Depth overrides the dependency depth of the build description when set.
	Depth      *int
	RebuildAll bool
	Relentless bool
}

// Plan decides what a build would recompile without invoking any tool.
// The caches are still committed, so the analysis is not repeated by the next build.
func (a *App) Plan(ctx context.Context, cwd string, opts BuildOptions) (*domain.Plan, error) {
	a.setupTelemetry()

	plan, _, err := a.plan(ctx, cwd, opts)
	if err != nil {
		return nil, err
	}
	a.planner.CommitCaches()
	return plan, nil
}

// Build plans the build found from cwd and invokes the tools of every stale group.
func (a *App) Build(ctx context.Context, cwd string, opts BuildOptions) error {
	a.setupTelemetry()

	_, err := a.build(ctx, cwd, opts)
	return err
}

// build returns the loaded description so watch mode can follow object directory changes.
func (a *App) build(ctx context.Context, cwd string, opts BuildOptions) (*domain.BuildDescription, error) {
	plan, desc, err := a.plan(ctx, cwd, opts)
	if err != nil {
		return nil, err
	}

	err = a.scheduler.Run(ctx, plan, opts.Relentless)

	// The tools rewrote these, so cached times are stale.
	var outputs []string
	for _, group := range plan.Groups {
		outputs = append(outputs, group.Outputs()...)
	}
	a.stater.Invalidate(outputs)

	if err != nil {
		a.logger.Error(err)
		return desc, errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return desc, nil
}

func (a *App) plan(
	ctx context.Context,
	cwd string,
	opts BuildOptions,
) (*domain.Plan, *domain.BuildDescription, error) {
	desc, err := a.load(cwd, opts.ConfigFile)
	if err != nil {
		return nil, nil, err
	}

	options := domain.Options{
		Depth:      desc.Depth,
		RebuildAll: opts.RebuildAll,
		Relentless: opts.Relentless,
	}
	if opts.Depth != nil {
		options.Depth = *opts.Depth
	}

	plan, err := a.planner.Plan(ctx, desc, options)
	if err != nil {
		return nil, nil, err
	}
	return plan, desc, nil
}

func (a *App) load(cwd, configFile string) (*domain.BuildDescription, error) {
	var (
		desc *domain.BuildDescription
		err  error
	)
	if configFile != "" {
		desc, err = a.configLoader.LoadFile(configFile)
	} else {
		desc, err = a.configLoader.Load(cwd)
	}
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return desc, nil
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// ConfigFile selects the build description instead of searching upwards from cwd.
	ConfigFile string
	// Cache removes the dependency cache and the target history.
	Cache bool
	// Outputs removes the object directory.
	Outputs bool
}

// Clean removes build state and outputs based on the provided options.
func (a *App) Clean(_ context.Context, cwd string, options CleanOptions) error {
	var errs error

	remove := func(path, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, fmt.Sprintf("failed to remove %s", name)), "path", path))
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if !options.Cache && !options.Outputs {
		return nil
	}

	desc, err := a.load(cwd, options.ConfigFile)
	if err != nil {
		return err
	}

	if options.Cache {
		remove(filepath.Join(desc.Root, domain.DefaultForgePath()), "build caches")
	}
	if options.Outputs {
		remove(desc.ObjDir, "object directory")
	}

	return errs
}

// Watch builds once, then rebuilds whenever files below the root change, until ctx is done.
// Build failures are reported and watching continues.
func (a *App) Watch(ctx context.Context, cwd string, opts BuildOptions) error {
	a.setupTelemetry()

	desc, err := a.build(ctx, cwd, opts)
	if err != nil && !errors.Is(err, domain.ErrBuildExecutionFailed) {
		a.logger.Error(err)
	}

	// A broken description is watched too, so fixing it triggers the next build.
	var root string
	if desc != nil {
		root = desc.Root
	} else if root, err = a.watchRoot(cwd, opts.ConfigFile); err != nil {
		return err
	}

	defaultObjDir := filepath.Join(root, domain.DefaultObjDir)
	var objDir atomic.Pointer[string]
	objDir.Store(&defaultObjDir)
	if desc != nil {
		objDir.Store(&desc.ObjDir)
	}

	if err := a.watcher.Start(ctx, root); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to start watcher"), "root", root)
	}
	defer func() { _ = a.watcher.Stop() }()

	changes := newChangeSet()
	debouncer := watcher.NewDebouncer(a.debounceWindow, changes.add)
	a.logger.Info("watching " + root + " for changes")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for event := range a.watcher.Events() {
			if ignored(root, *objDir.Load(), event.Path) {
				continue
			}
			debouncer.Add(event.Path)
		}
		if ctx.Err() != nil {
			return nil
		}
		return domain.ErrWatcherStopped
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changes.ready:
			}

			paths := changes.take()
			if len(paths) == 0 {
				continue
			}
			a.stater.Invalidate(paths)
			a.logger.Info(fmt.Sprintf("%d files changed, rebuilding", len(paths)))

			desc, err := a.build(ctx, cwd, opts)
			if err != nil && !errors.Is(err, domain.ErrBuildExecutionFailed) {
				a.logger.Error(err)
			}
			if desc != nil {
				objDir.Store(&desc.ObjDir)
			}
		}
	})

	return g.Wait()
}

func (a *App) watchRoot(cwd, configFile string) (string, error) {
	if configFile == "" {
		return a.configLoader.DiscoverRoot(cwd)
	}
	abs, err := filepath.Abs(configFile)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "config", configFile)
	}
	return filepath.Dir(abs), nil
}

// ignored reports whether a change at path is produced by forge itself.
func ignored(root, objDir, path string) bool {
	return within(filepath.Join(root, domain.ForgeDirName), path) || within(objDir, path)
}

func within(dir, path string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// changeSet accumulates debounced paths while a rebuild is running.
type changeSet struct {
	mu    sync.Mutex
	paths []string
	ready chan struct{}
}

func newChangeSet() *changeSet {
	return &changeSet{ready: make(chan struct{}, 1)}
}

func (c *changeSet) add(paths []string) {
	c.mu.Lock()
	c.paths = append(c.paths, paths...)
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
}

func (c *changeSet) take() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	paths := c.paths
	c.paths = nil
	return paths
}

// setupTelemetry routes tracing spans to the logger.
func (a *App) setupTelemetry() {
	a.telemetryOnce.Do(func() {
		telemetry.Setup(telemetry.NewBridge(a.logger))
	})
}
