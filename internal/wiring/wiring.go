// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/forge/internal/adapters/config"
	_ "go.trai.ch/forge/internal/adapters/cparser"
	_ "go.trai.ch/forge/internal/adapters/depcache"
	_ "go.trai.ch/forge/internal/adapters/fs"
	_ "go.trai.ch/forge/internal/adapters/history"
	_ "go.trai.ch/forge/internal/adapters/logger"
	_ "go.trai.ch/forge/internal/adapters/shell"
	_ "go.trai.ch/forge/internal/adapters/telemetry"
	_ "go.trai.ch/forge/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/forge/internal/app"
	_ "go.trai.ch/forge/internal/engine/history"
	_ "go.trai.ch/forge/internal/engine/planner"
	_ "go.trai.ch/forge/internal/engine/scheduler"
	_ "go.trai.ch/forge/internal/engine/walker"
)
