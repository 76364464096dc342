// Package scheduler invokes the tools of a rebuild plan.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Recorder keeps the build caches up to date with the outcome of tool invocations.
type Recorder interface {
	// UpdateHistory records that target was built successfully.
	UpdateHistory(target *domain.Target)
	// RecordDependencies stores the include graph of a target that was built.
	RecordDependencies(ctx context.Context, target *domain.Target)
	// CommitCaches persists the caches.
	CommitCaches()
}

// Scheduler runs the groups of a plan one after another.
type Scheduler struct {
	executor ports.Executor
	recorder Recorder
	tracer   ports.Tracer
	logger   ports.Logger

	stdout io.Writer
	stderr io.Writer
}

// New creates a Scheduler writing tool output to os.Stdout and os.Stderr.
func New(executor ports.Executor, recorder Recorder, tracer ports.Tracer, logger ports.Logger) *Scheduler {
	return &Scheduler{
		executor: executor,
		recorder: recorder,
		tracer:   tracer,
		logger:   logger,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// SetOutput redirects tool output.
func (s *Scheduler) SetOutput(stdout, stderr io.Writer) {
	s.stdout = stdout
	s.stderr = stderr
}

// Run executes the groups of plan in order. Every target of a successful group is recorded
// in the history and its includes in the dependency cache.
//
// By default Run stops at the first failing group. A relentless run keeps going and returns
// the first failure. The caches are committed in both cases.
func (s *Scheduler) Run(ctx context.Context, plan *domain.Plan, relentless bool) error {
	defer s.recorder.CommitCaches()

	var firstErr error
	for _, group := range plan.Groups {
		if err := ctx.Err(); err != nil {
			if firstErr != nil {
				return firstErr
			}
			return err
		}

		err := s.runGroup(ctx, plan.Root, group)
		if err == nil {
			continue
		}
		if !relentless {
			return err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *Scheduler) runGroup(ctx context.Context, root string, group *domain.Group) error {
	name := group.Config.Name()
	ctx, span := s.tracer.Start(ctx, "group:"+name)
	defer span.End()
	span.SetAttribute("targets", len(group.Targets))

	s.logger.Info(fmt.Sprintf("%s: %d files", name, len(group.Targets)))

	if err := s.executor.Execute(ctx, root, group, s.stdout, s.stderr); err != nil {
		span.RecordError(err)
		outputs := make([]string, len(group.Targets))
		for i, target := range group.Targets {
			outputs[i] = domain.RelativePath(root, target.Output)
		}
		err = zerr.With(zerr.Wrap(err, domain.ErrGroupFailed.Error()), "group", name)
		return zerr.With(err, "outputs", outputs)
	}

	for _, target := range group.Targets {
		s.recorder.UpdateHistory(target)
		s.recorder.RecordDependencies(ctx, target)
	}
	return nil
}
