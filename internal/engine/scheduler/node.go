package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/planner"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			planner.NodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			recorder, err := graft.Dep[*planner.Planner](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(executor, recorder, tracer, log), nil
		},
	})
}
