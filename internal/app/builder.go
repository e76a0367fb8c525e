package app

import (
	"github.com/driftbuild/drift/internal/adapters/logger"
)

// Components contains the initialized application components. It provides
// controlled access to what the CLI layer needs.
type Components struct {
	App    *App
	Logger *logger.Logger
}

// NewComponents creates a Components struct from dependencies. Used by the
// graft node.
func NewComponents(a *App, log *logger.Logger) *Components {
	return &Components{
		App:    a,
		Logger: log,
	}
}
