package walker

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/cparser"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/depcache" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/adapters/fs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the dependency walker Graft node.
const NodeID graft.ID = "engine.walker"

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			depcache.NodeID,
			cparser.NodeID,
			fs.StaterNodeID,
		},
		Run: func(ctx context.Context) (*Walker, error) {
			store, err := graft.Dep[ports.DependencyStore](ctx)
			if err != nil {
				return nil, err
			}

			parser, err := graft.Dep[ports.IncludeParser](ctx)
			if err != nil {
				return nil, err
			}

			stater, err := graft.Dep[ports.FileStater](ctx)
			if err != nil {
				return nil, err
			}

			return New(store, parser, stater), nil
		},
	})
}
