package history

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/fs"              //nolint:depguard // Wired in engine wiring
	adapter "go.trai.ch/forge/internal/adapters/history" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the history tracker Graft node.
const NodeID graft.ID = "engine.history"

func init() {
	graft.Register(graft.Node[*Tracker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{adapter.NodeID, fs.StaterNodeID},
		Run: func(ctx context.Context) (*Tracker, error) {
			store, err := graft.Dep[ports.HistoryStore](ctx)
			if err != nil {
				return nil, err
			}

			stater, err := graft.Dep[ports.FileStater](ctx)
			if err != nil {
				return nil, err
			}

			return NewTracker(store, stater), nil
		},
	})
}
