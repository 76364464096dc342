package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/planner"
	"go.trai.ch/forge/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			planner.NodeID,
			scheduler.NodeID,
			fs.StaterNodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	plan, err := graft.Dep[*planner.Planner](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	stater, err := graft.Dep[ports.FileStater](ctx)
	if err != nil {
		return nil, err
	}

	fileWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, plan, sched, stater, fileWatcher, log), nil
}
