// Package module wires mock data generation into the API using modkit
package module

import (
	modkit "otnanalyzer/internal/modkit"
	phttp "otnanalyzer/internal/platform/net/http"
	mockhttp "otnanalyzer/internal/services/api/mock/http"
	mocksvc "otnanalyzer/internal/services/api/mock/service"
)

// Module implements the mock module
type Module struct {
	b   modkit.Built
	svc *mocksvc.Service
}

// New constructs the mock module; limits come from CORE_MOCK_*
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("mock"), modkit.WithPrefix("/mock")}, opts...)...)
	return &Module{b: b, svc: mocksvc.New(mocksvc.ConfigFromEnv(deps.Cfg.Prefix("CORE_MOCK_")))}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(rr phttp.Router) { mockhttp.Register(rr, m.svc) })
}

// Ports returns the generator for other modules
func (m *Module) Ports() any { return m.svc }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }
