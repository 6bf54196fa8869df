package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/modroll/internal/adapters/automation"         //nolint:depguard // Wired in app layer
	"go.trai.ch/modroll/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/modroll/internal/adapters/gallery"            //nolint:depguard // Wired in app layer
	"go.trai.ch/modroll/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/modroll/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/modroll/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			progrock.NodeID,
			gallery.NodeID,
			automation.NodeID,
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

	tel, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	registries, err := graft.Dep[ports.RegistryFactory](ctx)
	if err != nil {
		return nil, err
	}

	accounts, err := graft.Dep[ports.AccountFactory](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, tel, registries, accounts), nil
}
