package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/catalyst/internal/adapters/archive"   //nolint:depguard // Wired in app layer
	"go.trai.ch/catalyst/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/catalyst/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/catalyst/internal/adapters/shell"     //nolint:depguard // Wired in app layer
	"go.trai.ch/catalyst/internal/adapters/telemetry" //nolint:depguard // Wired in app layer
	"go.trai.ch/catalyst/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components used by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			shell.NodeID,
			archive.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	runner, err := graft.Dep[ports.TaskRunner](ctx)
	if err != nil {
		return nil, err
	}
	unpacker, err := graft.Dep[ports.Unpacker](ctx)
	if err != nil {
		return nil, err
	}
	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}
	return New(loader, log, runner, unpacker, tracer), nil
}
