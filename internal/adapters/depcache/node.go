package depcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/fs"     //nolint:depguard // Wired in adapter layer
	"go.trai.ch/forge/internal/adapters/logger" //nolint:depguard // Wired in adapter layer
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the dependency store Graft node.
const NodeID graft.ID = "adapter.dependency_store"

func init() {
	graft.Register(graft.Node[ports.DependencyStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.StaterNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.DependencyStore, error) {
			stater, err := graft.Dep[ports.FileStater](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(stater, log), nil
		},
	})
}
