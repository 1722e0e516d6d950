// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/catalyst/internal/adapters/archive"
	_ "go.trai.ch/catalyst/internal/adapters/config"
	_ "go.trai.ch/catalyst/internal/adapters/logger"
	_ "go.trai.ch/catalyst/internal/adapters/shell"
	_ "go.trai.ch/catalyst/internal/adapters/telemetry"
	// Register app nodes.
	_ "go.trai.ch/catalyst/internal/app"
)
