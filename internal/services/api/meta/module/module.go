// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "otnanalyzer/internal/modkit"
	phttp "otnanalyzer/internal/platform/net/http"
	str "otnanalyzer/internal/platform/strings"
	metahttp "otnanalyzer/internal/services/api/meta/http"
	scandom "otnanalyzer/internal/services/api/scan/domain"
)

// Ports optionally injects the scan port for /meta/scanner
type Ports struct {
	Scan scandom.ServicePort
}

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	deps      modkit.Deps
	ports     Ports
	service   string
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, service string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	p, _ := b.Ports.(Ports)
	return &Module{b: b, deps: deps, ports: p, service: service, startedAt: time.Now()}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r phttp.Router) {
	d := metahttp.Deps{
		ServiceName:  m.service,
		StartedAt:    m.startedAt,
		ReadyTimeout: m.deps.Cfg.MayDuration("META_READY_TIMEOUT", 2*time.Second),
	}
	// typed nils would defeat the skipped check
	if m.deps.PG != nil {
		d.PG = m.deps.PG
	}
	if m.deps.CH != nil {
		d.CH = m.deps.CH
	}
	if m.ports.Scan != nil {
		d.Scanner = m.ports.Scan
	}
	m.b.Mount(r, func(rr phttp.Router) { metahttp.Register(rr, d) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
