package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/catalyst/internal/adapters/logger"    //nolint:depguard // Runner logs worker stderr
	"go.trai.ch/catalyst/internal/adapters/telemetry" //nolint:depguard // Runner opens a span per task
	"go.trai.ch/catalyst/internal/core/ports"
)

// NodeID is the unique identifier for the task runner Graft node.
const NodeID graft.ID = "adapter.runner"

func init() {
	graft.Register(graft.Node[ports.TaskRunner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, telemetry.NodeID},
		Run: func(ctx context.Context) (ports.TaskRunner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(log, tracer), nil
		},
	})
}
