// Package api provides the HTTP API for the application
package api

import (
	"context"

	"otnanalyzer/internal/platform/config"
	"otnanalyzer/internal/platform/logger"
	"otnanalyzer/internal/platform/metrics"
	"otnanalyzer/internal/platform/net/middleware"
	phttp "otnanalyzer/internal/platform/net/http"
	"otnanalyzer/internal/platform/store"

	"otnanalyzer/internal/modkit"
	"otnanalyzer/internal/modkit/httpkit"
	"otnanalyzer/internal/modkit/module"
	"otnanalyzer/internal/modkit/swaggerkit"

	apilanes "otnanalyzer/internal/services/api/lanes/module"
	metamod "otnanalyzer/internal/services/api/meta/module"
	mockmod "otnanalyzer/internal/services/api/mock/module"
	scanmod "otnanalyzer/internal/services/api/scan/module"

	// lane refresher (owns the Reader and Refresher ports)
	workerlanes "otnanalyzer/internal/services/lanes/module"
)

// Options are the API options
type Options struct {
	// Config is the root config; modules scope it themselves (CORE_SCAN_, CORE_LANES_)
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	ServiceName    string
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
	// DisableLanes drops the lane roster and its routes
	DisableLanes bool
}

// Mount mounts the API service onto the given router and returns the background runners
// the caller owns running them
func Mount(ctx context.Context, r phttp.Router, opt Options) ([]modkit.Runner, error) {
	deps := modkit.DepsFrom(opt.Config, opt.Logger, opt.Store)
	apiCfg := opt.Config.Prefix("CORE_API_")
	name := opt.ServiceName
	if name == "" {
		name = "otnanalyzer-api"
	}

	scan, err := scanmod.New(ctx, deps)
	if err != nil {
		return nil, err
	}
	scanPort := module.MustPortsOf[scanmod.Ports](scan).Scan

	mods := []modkit.Module{
		metamod.New(deps, name, modkit.WithPorts(metamod.Ports{Scan: scanPort})),
		scan,
		mockmod.New(deps),
	}

	if !opt.DisableLanes {
		// construct the worker lanes module first and inject its ports into the API one
		wl := workerlanes.New(deps, scanPort)
		lp := module.MustPortsOf[workerlanes.Ports](wl)
		mods = append(mods,
			wl,
			apilanes.New(deps, modkit.WithPorts(apilanes.Ports{
				Reader:    lp.Reader,
				Refresher: lp.Refresher,
			})),
		)
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Timeout: apiCfg.MayDuration("REQUEST_TIMEOUT", 0),
		CORS: middleware.CORSOptions{
			AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
		},
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	if opt.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	deps.Logger().Info().
		Strs("modules", module.Names()).
		Bool("swagger", opt.EnableSwagger).
		Bool("metrics", opt.EnableMetrics).
		Msg("api mounted")

	return modkit.Runners(mods...), nil
}
