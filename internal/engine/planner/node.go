package planner

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/depcache"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/ports"
	"go.trai.ch/forge/internal/engine/bidder"
	"go.trai.ch/forge/internal/engine/history"
	"go.trai.ch/forge/internal/engine/walker"
)

// NodeID is the unique identifier for the planner Graft node.
const NodeID graft.ID = "engine.planner"

func init() {
	graft.Register(graft.Node[*Planner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			walker.NodeID,
			history.NodeID,
			depcache.NodeID,
			fs.StaterNodeID,
			telemetry.TracerNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Planner, error) {
			walk, err := graft.Dep[*walker.Walker](ctx)
			if err != nil {
				return nil, err
			}

			tracker, err := graft.Dep[*history.Tracker](ctx)
			if err != nil {
				return nil, err
			}

			deps, err := graft.Dep[ports.DependencyStore](ctx)
			if err != nil {
				return nil, err
			}

			stater, err := graft.Dep[ports.FileStater](ctx)
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

			return New(bidder.New(stater), walk, tracker, deps, tracer, log), nil
		},
	})
}
