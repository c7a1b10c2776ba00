// Package module mounts the lane monitor routes using modkit
package module

import (
	modkit "otnanalyzer/internal/modkit"
	phttp "otnanalyzer/internal/platform/net/http"
	lanehttp "otnanalyzer/internal/services/api/lanes/http"
	lanedom "otnanalyzer/internal/services/lanes/domain"
)

// Ports declares the injected lane ports this API module needs
type Ports struct {
	Reader    lanedom.ReaderPort
	Refresher lanedom.RefreshPort
}

// Module implements the lanes API module
type Module struct {
	b     modkit.Built
	ports Ports
}

// New constructs the lanes API module; ports come in through modkit.WithPorts
func New(_ modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("lanes"), modkit.WithPrefix("/lanes")}, opts...)...)
	p, ok := b.Ports.(Ports)
	if !ok || p.Reader == nil || p.Refresher == nil {
		panic("lanes api module requires lanes ports (modkit.WithPorts)")
	}
	return &Module{b: b, ports: p}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(rr phttp.Router) {
		lanehttp.Register(rr, m.ports.Reader, m.ports.Refresher)
	})
}

// Ports returns the injected ports
func (m *Module) Ports() any { return m.ports }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }
