package service

import (
	"context"
	"time"

	"otnanalyzer/internal/platform/logger"
)

// Run refreshes once, then every Interval until ctx is done
// a zero Interval only does the first pass and waits
func (s *Svc) Run(ctx context.Context) error {
	log := logger.Named("lanes-worker")
	if s.cfg.Count == 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	log.Info().Int("lanes", s.cfg.Count).Dur("interval", s.cfg.Interval).Int("workers", s.cfg.Workers).Msg("lane refresher started")

	s.pass(ctx, log)
	if s.cfg.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.pass(ctx, log)
		}
	}
}

func (s *Svc) pass(ctx context.Context, log *logger.Logger) {
	start := time.Now()
	snap, err := s.Refresh(ctx)
	if err != nil && ctx.Err() == nil {
		log.Warn().Err(err).Uint64("tick", snap.Tick).Msg("lane refresh incomplete")
		return
	}
	log.Debug().
		Uint64("tick", snap.Tick).
		Str("status", snap.Totals.Status).
		Int("active", snap.Totals.Active).
		Dur("took", time.Since(start)).
		Msg("lanes refreshed")
}
