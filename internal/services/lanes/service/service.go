// Package service runs the lane monitor: each lane's stream is regenerated
// from a seed and rescanned through the scan service
package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"otnanalyzer/internal/core/frame"
	"otnanalyzer/internal/core/lanes"
	"otnanalyzer/internal/core/mockgen"
	perr "otnanalyzer/internal/platform/errors"
	"otnanalyzer/internal/platform/logger"
	"otnanalyzer/internal/platform/metrics"
	scandom "otnanalyzer/internal/services/api/scan/domain"
	"otnanalyzer/internal/services/lanes/domain"
)

// Scanner is the slice of the scan service lanes need
type Scanner interface {
	Scan(ctx context.Context, in scandom.ScanInput) (scandom.ScanResult, error)
	Info() scandom.ScannerInfo
}

// Service implements the reader, refresh and worker ports
type Service interface {
	domain.ReaderPort
	domain.RefreshPort
	domain.WorkerPort
}

// Svc implements Service
type Svc struct {
	cfg    Config
	scan   Scanner
	reg    *Registry
	marker string

	mu          sync.Mutex // serializes refresh passes
	tick        atomic.Uint64
	refreshedAt atomic.Pointer[time.Time]

	now func() time.Time
}

// New constructs the lane service; streams carry the scanner's default marker
// and a zero PeriodBytes takes the scanner's period
func New(cfg Config, scan Scanner) *Svc {
	if scan == nil {
		panic("lanes.Service requires a scanner")
	}
	info := scan.Info()
	if cfg.PeriodBytes <= 0 {
		cfg.PeriodBytes = int(info.Params.ExpectedPeriodBytes)
	}
	return &Svc{cfg: cfg, scan: scan, reg: NewRegistry(), marker: info.Params.Marker, now: time.Now}
}

// Config returns the roster settings in use
func (s *Svc) Config() Config { return s.cfg }

// Snapshot totals the roster as last refreshed
func (s *Svc) Snapshot() domain.Snapshot {
	ls := s.reg.Lanes()
	snap := domain.Snapshot{Totals: lanes.Overview(ls), Lanes: ls, Tick: s.tick.Load()}
	if at := s.refreshedAt.Load(); at != nil {
		snap.RefreshedAt = *at
	}
	return snap
}

// Lane returns one lane's detail
func (s *Svc) Lane(id int) (domain.Detail, error) {
	if id < 1 || id > s.cfg.Count {
		return domain.Detail{}, perr.InvalidInputf("id", "lane id must be within 1..%d", s.cfg.Count)
	}
	d, ok := s.reg.Get(id)
	if !ok {
		return domain.Detail{}, perr.NotFoundf("lane %d has not been scanned yet", id)
	}
	return d, nil
}

// Refresh regenerates every lane on a bounded worker pool
// lanes that fail keep their previous detail; the joined errors are returned
func (s *Svc) Refresh(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tick := s.tick.Add(1)
	sem := make(chan struct{}, max(1, s.cfg.Workers))
	var (
		wg   sync.WaitGroup
		emu  sync.Mutex
		errs []error
	)
	for id := 1; id <= s.cfg.Count; id++ {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; wg.Done() }()
			if err := s.refreshLane(ctx, id, tick); err != nil {
				metrics.LaneRefreshes.WithLabelValues("error").Inc()
				emu.Lock()
				errs = append(errs, perr.WithOp(err, "lane "+strconv.Itoa(id)))
				emu.Unlock()
				return
			}
			metrics.LaneRefreshes.WithLabelValues("ok").Inc()
		}()
	}
	wg.Wait()
	s.reg.Trim(s.cfg.Count)

	at := s.now().UTC()
	s.refreshedAt.Store(&at)
	if err := ctx.Err(); err != nil {
		return s.Snapshot(), perr.FromContext(err)
	}
	return s.Snapshot(), errors.Join(errs...)
}

func (s *Svc) refreshLane(ctx context.Context, id int, tick uint64) error {
	ctx = logger.WithLane(ctx, id)
	g := mockgen.New(laneSeed(s.cfg.Seed, id, tick))
	active := g.Float64() < s.cfg.ActiveProb

	var stream string
	if active {
		stream = g.FramedStream(mockgen.FrameSpec{
			Marker:         s.marker,
			Frames:         s.cfg.Frames,
			PeriodBytes:    s.cfg.PeriodBytes,
			JitterProb:     s.cfg.JitterProb,
			JitterMaxBytes: s.cfg.JitterMaxBytes,
		})
	} else {
		stream = g.RandomStream(s.cfg.NoiseDigits, "", 0)
	}

	persist := s.cfg.Persist
	period := float64(s.cfg.PeriodBytes)
	res, err := s.scan.Scan(ctx, scandom.ScanInput{
		Stream:              stream,
		ExpectedPeriodBytes: &period,
		LaneID:              id,
		Persist:             &persist,
		PreviewDigits:       s.cfg.PreviewDigits,
	})
	if err != nil {
		return err
	}

	gaps := res.Gaps
	if len(gaps) > s.cfg.KeepGaps {
		gaps = gaps[len(gaps)-s.cfg.KeepGaps:]
	}
	lane := lanes.FromScan(id, active, res.Occurrences, res.Summary, res.Frame, res.CreatedAt)
	s.reg.Put(domain.Detail{
		Lane:      lane,
		ScanID:    res.ID,
		Digits:    res.StreamDigits,
		Tick:      tick,
		UpdatedAt: res.CreatedAt,
		Gaps:      gaps,
		Preview:   res.Preview,
	})

	metrics.SetLaneState(id, lane.Status.Code(), frame.InFrame.Code(), frame.OutOfFrame.Code())
	metrics.LanePatterns.WithLabelValues(strconv.Itoa(id)).Set(float64(lane.PatternCount))
	logger.C(ctx).Debug().
		Uint64("tick", tick).
		Bool("active", active).
		Int("patterns", lane.PatternCount).
		Str("frame", lane.Status.String()).
		Msg("lane refreshed")
	return nil
}

// laneSeed gives every (lane, tick) its own stream while staying reproducible
func laneSeed(seed uint64, id int, tick uint64) uint64 {
	return seed*0x9e3779b97f4a7c15 ^ uint64(id)<<32 ^ tick
}
