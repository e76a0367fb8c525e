// Package wiring registers all graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/driftbuild/drift/internal/adapters/config"
	_ "github.com/driftbuild/drift/internal/adapters/logger"
	// Register app nodes.
	_ "github.com/driftbuild/drift/internal/app"
)
