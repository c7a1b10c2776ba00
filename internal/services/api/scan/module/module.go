// Package module wires scan into the API using modkit
package module

import (
	"context"

	modkit "otnanalyzer/internal/modkit"
	phttp "otnanalyzer/internal/platform/net/http"
	str "otnanalyzer/internal/platform/strings"
	scanhttp "otnanalyzer/internal/services/api/scan/http"
	scanrepo "otnanalyzer/internal/services/api/scan/repo"
	scansvc "otnanalyzer/internal/services/api/scan/service"
)

// Module implements the scan module
type Module struct {
	b     modkit.Built
	svc   *scansvc.Svc
	ports Ports
}

// NewService builds the scan service from deps, migrating enabled backends first
// the CLI uses it directly without an HTTP surface
func NewService(ctx context.Context, deps modkit.Deps) (*scansvc.Svc, error) {
	cfg, err := scansvc.ConfigFromEnv(deps.Cfg.Prefix("CORE_SCAN_"))
	if err != nil {
		return nil, err
	}
	log := deps.Logger().With().Str("component", "scan").Logger()

	var opts []scansvc.Option
	if deps.PG != nil {
		if err := scanrepo.MigratePG(ctx, deps.PG); err != nil {
			return nil, err
		}
	}
	if deps.CH != nil {
		if err := scanrepo.MigrateCH(ctx, deps.CH); err != nil {
			return nil, err
		}
		opts = append(opts, scansvc.WithGapSink(scanrepo.NewCHGaps(deps.CH)))
	}

	svc, err := scansvc.New(cfg, deps.PG, scanrepo.NewPG(), opts...)
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("marker", cfg.Params.Marker).
		Float64("period_bytes", cfg.Params.ExpectedPeriodBytes).
		Float64("tolerance_bytes", cfg.Params.ToleranceBytes).
		Str("matcher", cfg.Matcher.String()).
		Bool("pg", deps.PG != nil).
		Bool("ch", deps.CH != nil).
		Msg("scan service ready")
	return svc, nil
}

// New constructs the scan module
func New(ctx context.Context, deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("scan"), modkit.WithPrefix("/scan")}, opts...)...)

	svc, err := NewService(ctx, deps)
	if err != nil {
		return nil, err
	}
	return &Module{b: b, svc: svc, ports: Ports{Scan: adaptScanPort{svc: svc}}}, nil
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r phttp.Router) {
	m.b.Mount(r, func(rr phttp.Router) {
		scanhttp.Register(rr, m.ports.Scan, scanhttp.Options{})
	})
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.b.Prefix) }

// Service exposes the underlying service for in process callers
func (m *Module) Service() *scansvc.Svc { return m.svc }
