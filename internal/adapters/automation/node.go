package automation

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modroll/internal/core/ports"
)

// NodeID is the unique identifier for the account factory Graft node.
const NodeID graft.ID = "adapter.account"

func init() {
	graft.Register(graft.Node[ports.AccountFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.AccountFactory, error) {
			return Factory{}, nil
		},
	})
}
