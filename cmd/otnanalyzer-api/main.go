// @title         OTN Analyzer API
// @version       0.1.0
// @description   Marker scanning, gap classification and lane monitoring for OTN hex streams

package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"otnanalyzer/internal/core/version"
	"otnanalyzer/internal/modkit/repokit"
	"otnanalyzer/internal/platform/config"
	"otnanalyzer/internal/platform/logger"
	phttp "otnanalyzer/internal/platform/net/http"
	"otnanalyzer/internal/platform/store"

	"otnanalyzer/internal/services/api"
)

const serviceName = "otnanalyzer-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_") // http server and toggles
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()
	l.Info().Str("build", version.Info(serviceName).String()).Msg("starting")

	// both backends are optional; scans live in memory without postgres
	pgOn := pgCfg.MayBool("ENABLED", false)
	chOn := chCfg.MayBool("ENABLED", false)
	storeCfg := store.Config{
		AppName: serviceName,
		PG: store.PGConfig{
			Enabled:     pgOn,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    chOn,
			ClientName: "otnanalyzer",
			ClientTag:  "api",
		},
	}
	if pgOn {
		storeCfg.PG.URL = pgCfg.MustString("DBURL")
	}
	if chOn {
		storeCfg.CH.URL = chCfg.MustString("DBURL")
	}

	st, err := store.Open(ctx, storeCfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	repokit.MustGuard(ctx, st)
	if st.Enabled() {
		l.Info().Bool("pg", pgOn).Bool("ch", chOn).Msg("storage reachable")
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(cctx); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	runners, err := api.Mount(ctx, srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Logger:         l,
		ServiceName:    serviceName,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableMetrics:  apiCfg.MayBool("METRICS", true),
		DisableLanes:   !apiCfg.MayBool("LANES", true),
	})
	if err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	// background workers share the server's lifetime
	var wg sync.WaitGroup
	for _, r := range runners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Run(ctx); err != nil && ctx.Err() == nil {
				l.Error().Err(err).Msg("runner stopped")
			}
		}()
	}

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		stop()
	}
	wg.Wait()
	l.Info().Msg("bye")
}
