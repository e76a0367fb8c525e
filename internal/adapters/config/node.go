package config

import (
	"context"

	"github.com/driftbuild/drift/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the graft identifier for the config loader adapter.
const NodeID graft.ID = "adapter.config_loader"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			return NewLoader(), nil
		},
	})
}
