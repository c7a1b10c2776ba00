// Package service contains the scan workflow
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"otnanalyzer/internal/core/frame"
	"otnanalyzer/internal/core/hexstream"
	"otnanalyzer/internal/core/scanner"
	"otnanalyzer/internal/core/summary"
	"otnanalyzer/internal/modkit/repokit"
	"otnanalyzer/internal/platform/cache"
	perr "otnanalyzer/internal/platform/errors"
	"otnanalyzer/internal/platform/logger"
	"otnanalyzer/internal/platform/metrics"
	"otnanalyzer/internal/services/api/scan/domain"
	"otnanalyzer/internal/services/api/scan/repo"

	"github.com/google/uuid"
)

// Service defines the scan service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the scan service
type Svc struct {
	cfg Config
	def *scanner.Scanner

	scanners *cache.LRU[*scanner.Scanner]
	results  *cache.LRU[domain.ScanResult]

	db     repokit.TxRunner
	binder repokit.Binder[domain.StorageRepo]
	Repo   domain.StorageRepo
	sink   domain.GapSink

	now func() time.Time
}

// Option customizes a Svc
type Option func(*Svc)

// WithClock replaces time.Now for CreatedAt stamps
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// WithGapSink sends per gap rows of persisted scans to sink
func WithGapSink(sink domain.GapSink) Option { return func(s *Svc) { s.sink = sink } }

// New constructs a scan service; a nil db keeps persisted results in memory
func New(cfg Config, db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], opts ...Option) (*Svc, error) {
	def, err := scanner.NewWithOptions(cfg.Params, scanner.Options{Matcher: cfg.Matcher})
	if err != nil {
		return nil, err
	}
	cfg.Params = def.Params()
	s := &Svc{
		cfg:      cfg,
		def:      def,
		scanners: cache.New[*scanner.Scanner](cfg.ScannerCache),
		results:  cache.New[domain.ScanResult](cfg.CacheSize),
		now:      time.Now,
	}
	if db != nil {
		if binder == nil {
			panic("scan.Service requires a non nil Repo binder with a db")
		}
		s.db = repokit.WithBeginHooks(db, repokit.StatementTimeout(cfg.StatementTimeout))
		s.binder = binder
		s.Repo = binder.Bind(s.db)
	} else {
		s.Repo = repo.NewMemory(cfg.MemoryCap)
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Info reports the defaults a bare request runs with
func (s *Svc) Info() domain.ScannerInfo {
	return domain.ScannerInfo{
		Params:         s.cfg.Params,
		Matcher:        s.def.Matcher().String(),
		Mode:           s.cfg.Mode.String(),
		Thresholds:     s.cfg.Thresholds,
		MaxDigits:      s.cfg.MaxDigits,
		AsyncThreshold: s.cfg.AsyncThreshold,
		CacheSize:      s.cfg.CacheSize,
		PreviewDigits:  s.cfg.PreviewDigits,
	}
}

// Scan parses, scans, summarizes and optionally persists one stream
func (s *Svc) Scan(ctx context.Context, in domain.ScanInput) (domain.ScanResult, error) {
	res, err := s.scan(ctx, in)
	metrics.ScanCount.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return domain.ScanResult{}, err
	}
	return res, nil
}

func (s *Svc) scan(ctx context.Context, in domain.ScanInput) (domain.ScanResult, error) {
	sc, err := s.scannerFor(in)
	if err != nil {
		return domain.ScanResult{}, err
	}
	mode := s.cfg.Mode
	if in.Mode != "" {
		if mode, err = hexstream.ParseMode(in.Mode); err != nil {
			return domain.ScanResult{}, err
		}
	}
	stream, err := hexstream.Parse(in.Stream, mode)
	if err != nil {
		return domain.ScanResult{}, err
	}
	if s.cfg.MaxDigits > 0 && len(stream) > s.cfg.MaxDigits {
		return domain.ScanResult{}, perr.WithField(
			perr.TooLargef("stream has %d digits, limit is %d", len(stream), s.cfg.MaxDigits), "stream")
	}

	markers := sc.Markers()
	params := sc.Params()
	preview := in.PreviewDigits
	if preview <= 0 {
		preview = s.cfg.PreviewDigits
	}
	fp := Fingerprint(stream, params, markers[1:], in.LaneID)
	// mode and matcher do not change the gaps but are reported back, so they split entries
	key := cache.Key(fp, mode.String(), sc.Matcher().String(), strconv.Itoa(preview))
	persist := s.cfg.Persist
	if in.Persist != nil {
		persist = *in.Persist
	}

	if hit, ok := s.results.Get(key); ok && s.stored(ctx, key, hit) {
		hit.Cached = true
		if persist && !hit.Persisted {
			return s.persist(ctx, key, hit)
		}
		return hit, nil
	}

	start := time.Now()
	all, err := s.run(ctx, sc, stream)
	metrics.ScanDuration.WithLabelValues(sc.Matcher().String()).Observe(time.Since(start).Seconds())
	metrics.StreamDigits.Observe(float64(len(stream)))
	if err != nil {
		return domain.ScanResult{}, err
	}

	gaps := all[params.Marker]
	res := domain.ScanResult{
		ID:           uuid.Must(uuid.NewV7()),
		CreatedAt:    s.now().UTC(),
		LaneID:       in.LaneID,
		Params:       params,
		Matcher:      sc.Matcher().String(),
		Mode:         mode.String(),
		StreamDigits: len(stream),
		Fingerprint:  fp,
		Occurrences:  occurrences(stream, params.Marker, gaps),
		Gaps:         gaps,
		Summary:      summary.Of(gaps),
		Frame:        frame.Track(gaps, s.cfg.Thresholds),
		Preview:      hexstream.Highlight(stream, params.Marker, preview),
	}
	for _, m := range markers[1:] {
		if m == params.Marker {
			continue
		}
		if res.Extra == nil {
			res.Extra = make(map[string][]scanner.Gap, len(markers)-1)
		}
		res.Extra[m] = all[m]
	}
	metrics.ScanGaps.WithLabelValues("expected").Add(float64(res.Summary.Expected))
	metrics.ScanGaps.WithLabelValues("unexpected").Add(float64(res.Summary.Unexpected))

	logger.C(ctx).Debug().
		Str("fingerprint", fp).
		Int("digits", res.StreamDigits).
		Int("gaps", res.Summary.Gaps).
		Int("expected", res.Summary.Expected).
		Str("frame", res.Frame.State.String()).
		Msg("scan complete")

	if persist {
		return s.persist(ctx, key, res)
	}
	s.results.Add(key, res)
	return res, nil
}

// run scans inline for small streams and on a worker goroutine for large ones
// either way the matcher polls ctx so an abandoned request stops the scan
func (s *Svc) run(ctx context.Context, sc *scanner.Scanner, stream string) (map[string][]scanner.Gap, error) {
	if s.cfg.AsyncThreshold <= 0 || len(stream) < s.cfg.AsyncThreshold {
		return sc.ScanAll(ctx, stream)
	}
	type out struct {
		all map[string][]scanner.Gap
		err error
	}
	ch := make(chan out, 1)
	go func() {
		all, err := sc.ScanAll(ctx, stream)
		ch <- out{all, err}
	}()
	select {
	case <-ctx.Done():
		return nil, perr.FromContext(ctx.Err())
	case o := <-ch:
		return o.all, o.err
	}
}

func (s *Svc) persist(ctx context.Context, key uint64, res domain.ScanResult) (domain.ScanResult, error) {
	var (
		id      uuid.UUID
		existed bool
	)
	err := s.save(ctx, func(r domain.StorageRepo) error {
		var err error
		id, existed, err = r.SaveScan(ctx, res)
		return err
	})
	if err != nil {
		return domain.ScanResult{}, err
	}
	res.ID = id
	res.Persisted = true
	s.results.Add(key, res)

	if s.sink != nil && !existed {
		if err := s.sink.WriteGaps(ctx, res.ID, res.LaneID, res.CreatedAt, res.Gaps); err != nil {
			logger.C(ctx).Warn().Err(err).Str("scan_id", res.ID.String()).Msg("gap rows not written")
		}
	}
	return res, nil
}

// stored reports whether a cached result still matches the repo; the memory repo
// evicts its oldest rows, and a persisted hit whose row is gone is dropped from the cache
func (s *Svc) stored(ctx context.Context, key uint64, hit domain.ScanResult) bool {
	if !hit.Persisted || s.db != nil {
		return true
	}
	if _, err := s.Repo.GetScan(ctx, hit.ID); perr.IsCode(err, perr.ErrorCodeNotFound) {
		s.results.Remove(key)
		return false
	}
	return true
}

// save runs fn in a tx when a database is configured
func (s *Svc) save(ctx context.Context, fn func(domain.StorageRepo) error) error {
	if s.db == nil {
		return fn(s.Repo)
	}
	return repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
		return fn(repokit.MustBind(s.binder, q))
	})
}

// Get returns a persisted scan
func (s *Svc) Get(ctx context.Context, id uuid.UUID) (domain.ScanResult, error) {
	return s.Repo.GetScan(ctx, id)
}

// Recent lists persisted scans newest first; limit is clamped to 1..RecentLimit
func (s *Svc) Recent(ctx context.Context, limit int) ([]domain.ScanRecord, error) {
	if limit <= 0 || limit > s.cfg.RecentLimit {
		limit = s.cfg.RecentLimit
	}
	return s.Repo.RecentScans(ctx, limit)
}

// scannerFor returns the default scanner or a cached one for the request's overrides
func (s *Svc) scannerFor(in domain.ScanInput) (*scanner.Scanner, error) {
	p := s.cfg.Params
	if in.Marker != "" {
		p.Marker = strings.ToLower(in.Marker)
	}
	if in.ExpectedPeriodBytes != nil {
		p.ExpectedPeriodBytes = *in.ExpectedPeriodBytes
	}
	if in.ToleranceBytes != nil {
		p.ToleranceBytes = *in.ToleranceBytes
	}
	kind := s.cfg.Matcher
	if in.Matcher != "" {
		k, err := scanner.ParseMatcher(in.Matcher)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	if p == s.def.Params() && kind == s.def.Matcher() && len(in.Markers) == 0 {
		return s.def, nil
	}

	parts := []string{
		p.Marker,
		strconv.FormatFloat(p.ExpectedPeriodBytes, 'g', -1, 64),
		strconv.FormatFloat(p.ToleranceBytes, 'g', -1, 64),
		kind.String(),
	}
	key := cache.Key(append(parts, in.Markers...)...)
	if sc, ok := s.scanners.Get(key); ok {
		return sc, nil
	}
	sc, err := scanner.NewWithOptions(p, scanner.Options{Matcher: kind, Markers: in.Markers})
	if err != nil {
		return nil, err
	}
	s.scanners.Add(key, sc)
	return sc, nil
}

// occurrences recovers the marker count from the gap list; zero gaps means zero or one match
func occurrences(stream, marker string, gaps []scanner.Gap) int {
	if len(gaps) > 0 {
		return len(gaps) + 1
	}
	if strings.Contains(stream, marker) {
		return 1
	}
	return 0
}

func outcome(err error) string {
	switch perr.CodeOf(err) {
	case perr.ErrorCodeUnknown:
		if err == nil {
			return "ok"
		}
		return "error"
	case perr.ErrorCodeInvalidArgument, perr.ErrorCodeValidation, perr.ErrorCodeTooLarge:
		return "invalid"
	case perr.ErrorCodeCanceled:
		return "canceled"
	default:
		return "error"
	}
}
