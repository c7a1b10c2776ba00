// Package modkit provides module wiring and core deps
package modkit

import (
	"context"

	phttp "otnanalyzer/internal/platform/net/http"
)

// Module is the common surface for API modules that can mount routes and expose ports
// keep this tiny so modules stay decoupled
type Module interface {
	// MountRoutes mounts HTTP routes under the provided router seam
	MountRoutes(r phttp.Router)
	// Ports returns a module specific port set for cross wiring
	Ports() any
	// Name returns the module name
	Name() string
}

// Runner is implemented by modules that own background work (lane refresh)
// Run blocks until ctx is done
type Runner interface {
	Run(ctx context.Context) error
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module

// Runners picks the modules that also implement Runner
func Runners(mods ...Module) []Runner {
	var out []Runner
	for _, m := range mods {
		if r, ok := m.(Runner); ok {
			out = append(out, r)
		}
	}
	return out
}
