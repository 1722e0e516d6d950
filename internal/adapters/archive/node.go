package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/catalyst/internal/core/ports"
)

// NodeID is the unique identifier for the unpacker Graft node.
const NodeID graft.ID = "adapter.unpacker"

func init() {
	graft.Register(graft.Node[ports.Unpacker]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Unpacker, error) {
			return NewUnpacker(), nil
		},
	})
}
