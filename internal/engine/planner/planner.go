// Package planner decides which targets of a build description must be rebuilt.
package planner

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"go.trai.ch/forge/internal/core/domain"
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/bidder"
	"go.trai.ch/forge/internal/engine/history"
	"go.trai.ch/forge/internal/engine/walker"
)

// Planner combines bidding, history and dependency analysis into a rebuild plan.
// It is single-threaded. Load must be called before the other operations.
type Planner struct {
	bidder  *bidder.Bidder
	walker  *walker.Walker
	history *history.Tracker
	deps    ports.DependencyStore
	tracer  ports.Tracer
	logger  ports.Logger

	root   string
	objDir string
}

// New creates a Planner.
func New(
	bid *bidder.Bidder,
	walk *walker.Walker,
	tracker *history.Tracker,
	deps ports.DependencyStore,
	tracer ports.Tracer,
	logger ports.Logger,
) *Planner {
	return &Planner{
		bidder:  bid,
		walker:  walk,
		history: tracker,
		deps:    deps,
		tracer:  tracer,
		logger:  logger,
	}
}

// Load loads the dependency cache and the target history of desc.
func (p *Planner) Load(desc *domain.BuildDescription) {
	p.root = desc.Root
	p.objDir = desc.ObjDir
	p.deps.Load(desc.Root, filepath.Join(desc.Root, domain.DefaultDependencyCachePath()))
	p.history.Load(filepath.Join(desc.Root, domain.DefaultHistoryPath()))
}

// BidAndBuildTargets assigns the files of collections to the configurations of registry.
func (p *Planner) BidAndBuildTargets(
	collections []domain.FileCollection,
	registry *domain.Registry,
) (*domain.TargetSet, error) {
	return p.bidder.BuildTargets(p.objDir, collections, registry)
}

// NeedsRebuild reports whether target is stale according to its transitive includes.
func (p *Planner) NeedsRebuild(ctx context.Context, target *domain.Target, depth int) (bool, error) {
	return p.walker.NeedsRebuild(ctx, p.root, target, depth)
}

// MarkHistoryRebuild flags the targets whose last build fingerprint does not match.
func (p *Planner) MarkHistoryRebuild(targets []*domain.Target) {
	p.history.MarkForRebuild(p.root, targets)
}

// UpdateHistory records that target was built successfully.
func (p *Planner) UpdateHistory(target *domain.Target) {
	p.history.Update(p.root, target)
}

// RecordDependencies stores the include graph of a target that was just built, so the next
// build can decide without parsing it. Failures only cost that parse and are logged.
func (p *Planner) RecordDependencies(ctx context.Context, target *domain.Target) {
	if err := p.walker.Record(ctx, p.root, target); err != nil {
		p.logger.Debug("could not record includes of " + domain.RelativePath(p.root, target.Output) + ": " + err.Error())
	}
}

// CommitCaches persists the dependency cache and the target history.
// Failures are logged, since the next build only loses time by them.
func (p *Planner) CommitCaches() {
	if err := p.deps.Commit(); err != nil {
		p.logger.Warn("could not save dependency cache: " + err.Error())
	}
	if err := p.history.Commit(); err != nil {
		p.logger.Warn("could not save target history: " + err.Error())
	}
}

// Plan runs the decision phase for desc.
func (p *Planner) Plan(ctx context.Context, desc *domain.BuildDescription, opts domain.Options) (*domain.Plan, error) {
	ctx, span := p.tracer.Start(ctx, "plan")
	defer span.End()

	p.Load(desc)

	set, err := p.bid(ctx, desc)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	targets := set.Targets()

	if opts.RebuildAll {
		for _, target := range targets {
			target.MustRebuild()
		}
	}

	_, historySpan := p.tracer.Start(ctx, "history")
	p.MarkHistoryRebuild(targets)
	historySpan.End()

	evaluated, err := p.analyze(ctx, targets, opts.Depth)
	if err != nil {
		p.CommitCaches()
		span.RecordError(err)
		return nil, err
	}

	plan := &domain.Plan{
		Root:          desc.Root,
		Groups:        groupTargets(desc.Registry, targets),
		Unclaimed:     set.Unclaimed(),
		Evaluated:     evaluated,
		Authoritative: !opts.Partial(),
	}
	for _, target := range targets {
		if !target.NeedsRebuild() {
			plan.UpToDate = append(plan.UpToDate, target)
		}
	}

	span.SetAttribute("rebuild", plan.RebuildCount())
	span.SetAttribute("up_to_date", len(plan.UpToDate))
	p.report(plan, opts)
	return plan, nil
}

func (p *Planner) bid(ctx context.Context, desc *domain.BuildDescription) (*domain.TargetSet, error) {
	_, span := p.tracer.Start(ctx, "bid")
	defer span.End()

	set, err := p.BidAndBuildTargets(desc.Collections, desc.Registry)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("targets", set.Len())
	return set, nil
}

// analyze walks the includes of every target not already flagged and returns the number
// of records evaluated.
func (p *Planner) analyze(ctx context.Context, targets []*domain.Target, depth int) (int, error) {
	ctx, span := p.tracer.Start(ctx, "analyze")
	defer span.End()

	p.walker.ResetEvaluated()
	for _, target := range targets {
		if target.NeedsRebuild() {
			continue
		}
		stale, err := p.NeedsRebuild(ctx, target, depth)
		if err != nil {
			span.RecordError(err)
			return 0, err
		}
		if stale {
			target.MustRebuild()
			continue
		}
		target.MarkUpToDate()
	}

	span.SetAttribute("evaluated", p.walker.Evaluated())
	return p.walker.Evaluated(), nil
}

func (p *Planner) report(plan *domain.Plan, opts domain.Options) {
	for _, file := range plan.Unclaimed {
		p.logger.Debug("no tool configuration claims " + domain.RelativePath(plan.Root, file))
	}

	p.logger.Info(fmt.Sprintf("%d files to be recompiled", plan.RebuildCount()))
	p.logger.Info(fmt.Sprintf("%d files up to date", len(plan.UpToDate)))

	if !plan.Authoritative {
		p.logger.Warn(fmt.Sprintf(
			"dependency analysis limited to depth %d, %d files evaluated; stale headers beyond it are not detected",
			opts.Depth, plan.Evaluated,
		))
	}
}

// groupTargets groups the stale targets by configuration. Precompiled header groups come
// first, then registration order. Targets keep their discovery order.
func groupTargets(registry *domain.Registry, targets []*domain.Target) []*domain.Group {
	byName := make(map[string]*domain.Group)
	var groups []*domain.Group
	for _, target := range targets {
		if !target.NeedsRebuild() {
			continue
		}
		name := target.Config.Name()
		group, ok := byName[name]
		if !ok {
			group = &domain.Group{Config: target.Config}
			byName[name] = group
			groups = append(groups, group)
		}
		group.Targets = append(group.Targets, target)
	}

	slices.SortStableFunc(groups, func(a, b *domain.Group) int {
		aPCH, bPCH := a.Config.Kind() == domain.KindPCH, b.Config.Kind() == domain.KindPCH
		switch {
		case aPCH && !bPCH:
			return -1
		case bPCH && !aPCH:
			return 1
		}
		return cmp.Compare(registry.Index(a.Config.Name()), registry.Index(b.Config.Name()))
	})
	return groups
}
