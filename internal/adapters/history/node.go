package history

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/logger" //nolint:depguard // Wired in adapter layer
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the history store Graft node.
const NodeID graft.ID = "adapter.history_store"

func init() {
	graft.Register(graft.Node[ports.HistoryStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.HistoryStore, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(log), nil
		},
	})
}
