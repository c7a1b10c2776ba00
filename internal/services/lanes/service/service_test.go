package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"otnanalyzer/internal/core/frame"
	"otnanalyzer/internal/core/lanes"
	perr "otnanalyzer/internal/platform/errors"
	scandom "otnanalyzer/internal/services/api/scan/domain"
	scansvc "otnanalyzer/internal/services/api/scan/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func realScanner(t *testing.T) *scansvc.Svc {
	t.Helper()
	cfg := scansvc.DefaultConfig()
	cfg.Persist = false
	s, err := scansvc.New(cfg, nil, nil)
	require.NoError(t, err)
	return s
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Count = 6
	cfg.Frames = 4
	cfg.NoiseDigits = 256
	cfg.JitterProb = 0
	return cfg
}

func TestRefreshFillsRoster(t *testing.T) {
	cfg := smallConfig()
	cfg.ActiveProb = 1
	s := New(cfg, realScanner(t))

	snap, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), snap.Tick)
	require.Len(t, snap.Lanes, 6)
	assert.False(t, snap.RefreshedAt.IsZero())

	for i, l := range snap.Lanes {
		assert.Equal(t, i+1, l.ID)
		assert.True(t, l.Active)
		assert.Equal(t, 4, l.PatternCount)
		assert.Equal(t, frame.InFrame, l.Status)
	}
	assert.Equal(t, lanes.StatusOperational, snap.Totals.Status)
	assert.Equal(t, 4, snap.Totals.AvgPatternsPerLane)

	d, err := s.Lane(3)
	require.NoError(t, err)
	assert.Len(t, d.Gaps, 3)
	assert.Equal(t, uint64(1), d.Tick)
	assert.True(t, d.Preview.Truncated)
}

func TestRefreshIdleLanes(t *testing.T) {
	cfg := smallConfig()
	cfg.ActiveProb = 0
	s := New(cfg, realScanner(t))

	snap, err := s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, lanes.StatusIdle, snap.Totals.Status)
	for _, l := range snap.Lanes {
		assert.False(t, l.Active)
		assert.Equal(t, frame.OutOfFrame, l.Status)
		assert.True(t, l.LastDetection.IsZero())
	}
}

func TestRefreshDeterministic(t *testing.T) {
	cfg := smallConfig()
	cfg.JitterProb = 0.5
	a := New(cfg, realScanner(t))
	b := New(cfg, realScanner(t))

	sa, err := a.Refresh(context.Background())
	require.NoError(t, err)
	sb, err := b.Refresh(context.Background())
	require.NoError(t, err)
	for i := range sa.Lanes {
		assert.Equal(t, sa.Lanes[i].Active, sb.Lanes[i].Active)
		assert.Equal(t, sa.Lanes[i].Summary, sb.Lanes[i].Summary)
	}
}

func TestLaneErrors(t *testing.T) {
	s := New(smallConfig(), realScanner(t))

	_, err := s.Lane(0)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
	_, err = s.Lane(7)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
	_, err = s.Lane(2)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

// flaky fails the scan for one lane and counts concurrent calls
type flaky struct {
	inner    Scanner
	failLane int

	mu       sync.Mutex
	inFlight int
	peak     int
}

func (f *flaky) Info() scandom.ScannerInfo { return f.inner.Info() }

func (f *flaky) Scan(ctx context.Context, in scandom.ScanInput) (scandom.ScanResult, error) {
	f.mu.Lock()
	f.inFlight++
	f.peak = max(f.peak, f.inFlight)
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()
	time.Sleep(time.Millisecond)
	if in.LaneID == f.failLane {
		return scandom.ScanResult{}, errors.New("scan failed")
	}
	return f.inner.Scan(ctx, in)
}

func TestRefreshPartialFailureAndPool(t *testing.T) {
	cfg := smallConfig()
	cfg.Workers = 2
	sc := &flaky{inner: realScanner(t), failLane: 4}
	s := New(cfg, sc)

	snap, err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan failed")
	assert.Len(t, snap.Lanes, 5)
	assert.LessOrEqual(t, sc.peak, 2)

	_, err = s.Lane(4)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

func TestRefreshCanceled(t *testing.T) {
	s := New(smallConfig(), realScanner(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Refresh(ctx)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeCanceled))
}

// counting wraps a scanner and reports scans made
type counting struct {
	Scanner
	n atomic.Int64
}

func (c *counting) Scan(ctx context.Context, in scandom.ScanInput) (scandom.ScanResult, error) {
	c.n.Add(1)
	return c.Scanner.Scan(ctx, in)
}

func TestRunTicks(t *testing.T) {
	cfg := smallConfig()
	cfg.Count = 2
	cfg.Interval = 10 * time.Millisecond
	sc := &counting{Scanner: realScanner(t)}
	s := New(cfg, sc)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	err := s.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, s.Snapshot().Tick, uint64(1))
	assert.GreaterOrEqual(t, sc.n.Load(), int64(4))
}

func TestNewUsesScannerDefaults(t *testing.T) {
	cfg := smallConfig()
	cfg.PeriodBytes = 0
	s := New(cfg, realScanner(t))
	assert.Equal(t, 16320, s.Config().PeriodBytes)
	assert.Panics(t, func() { New(cfg, nil) })
}
