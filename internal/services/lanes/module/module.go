// Package module wires the lane refresher and exposes its ports
package module

import (
	"context"

	"otnanalyzer/internal/modkit"
	phttp "otnanalyzer/internal/platform/net/http"
	"otnanalyzer/internal/services/lanes/domain"
	"otnanalyzer/internal/services/lanes/service"
)

// Ports holds the ports exposed by the lanes module
type Ports struct {
	Reader    domain.ReaderPort
	Refresher domain.RefreshPort
	Worker    domain.WorkerPort
}

// Module defines the lane refresher module
type Module struct {
	svc   *service.Svc
	ports Ports
}

// New constructs the lanes module over a scanner, usually the scan module's port
// settings come from CORE_LANES_*
func New(deps modkit.Deps, scan service.Scanner) *Module {
	svc := service.New(service.ConfigFromEnv(deps.Cfg.Prefix("CORE_LANES_")), scan)
	return &Module{svc: svc, ports: Ports{Reader: svc, Refresher: svc, Worker: svc}}
}

// Run blocks refreshing lanes until ctx is done
func (m *Module) Run(ctx context.Context) error { return m.svc.Run(ctx) }

// Ports returns the module ports (Reader, Refresher, Worker)
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return "lanes" }

// MountRoutes returns no HTTP routes; see services/api/lanes
func (m *Module) MountRoutes(_ phttp.Router) {}
