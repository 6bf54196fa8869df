// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/modroll/internal/adapters/automation"
	_ "go.trai.ch/modroll/internal/adapters/config"
	_ "go.trai.ch/modroll/internal/adapters/gallery"
	_ "go.trai.ch/modroll/internal/adapters/logger"
	_ "go.trai.ch/modroll/internal/adapters/telemetry/progrock"
	// Register app nodes.
	_ "go.trai.ch/modroll/internal/app"
)
