package cparser

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/forge/internal/adapters/fs"
	"go.trai.ch/forge/internal/adapters/logger"
	"go.trai.ch/forge/internal/core/ports"
)

// NodeID is the unique identifier for the include parser Graft node.
const NodeID graft.ID = "adapter.include_parser"

func init() {
	graft.Register(graft.Node[ports.IncludeParser]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.StaterNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.IncludeParser, error) {
			stater, err := graft.Dep[ports.FileStater](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(stater, log), nil
		},
	})
}
