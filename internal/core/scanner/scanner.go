// Package scanner locates a framing marker in a hex digit stream and classifies
// the byte distance between consecutive occurrences against an expected period
//
// The stream is taken as already sanitized (lowercase [0-9a-f]); see package hexstream.
// Every digit offset is checked independently, so a marker with internal repetition
// can produce overlapping occurrences. Nothing is deduplicated.
package scanner

import (
	"context"
	"math"
	"strings"
	"time"

	perr "otnanalyzer/internal/platform/errors"
)

const (
	// DefaultMarker is the 5 byte frame alignment word
	DefaultMarker = "f6f6f62828"
	// DefaultExpectedPeriodBytes is the frame length of the monitored scheme
	DefaultExpectedPeriodBytes = 16320.0
	// DefaultToleranceBytes makes classification exact once rounded
	DefaultToleranceBytes = 1.0
)

// Occurrence is a digit offset where a marker starts
type Occurrence struct {
	Index     int       `json:"index"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Gap is the distance between two consecutive occurrences
type Gap struct {
	Sequence        int       `json:"sequence"` // 1-based rank among gaps
	Index           int       `json:"index"`    // digit offset of the later occurrence
	PrevIndex       int       `json:"prev_index"`
	ByteDistance    int       `json:"byte_distance"` // rounded for display
	RawByteDistance float64   `json:"raw_byte_distance"`
	Expected        bool      `json:"expected"`
	Timestamp       time.Time `json:"timestamp,omitzero"`
}

// Params are the scan thresholds
type Params struct {
	Marker              string  `json:"marker"`
	ExpectedPeriodBytes float64 `json:"expected_period_bytes"`
	ToleranceBytes      float64 `json:"tolerance_bytes"`
}

// DefaultParams returns the observed production thresholds
func DefaultParams() Params {
	return Params{
		Marker:              DefaultMarker,
		ExpectedPeriodBytes: DefaultExpectedPeriodBytes,
		ToleranceBytes:      DefaultToleranceBytes,
	}
}

// Validate rejects an empty marker and negative or NaN thresholds
func (p Params) Validate() error {
	if p.Marker == "" {
		return perr.InvalidInputf("marker", "marker must not be empty")
	}
	if math.IsNaN(p.ToleranceBytes) || p.ToleranceBytes < 0 {
		return perr.InvalidInputf("tolerance_bytes", "tolerance must be a non-negative number, got %v", p.ToleranceBytes)
	}
	if math.IsNaN(p.ExpectedPeriodBytes) || math.IsInf(p.ExpectedPeriodBytes, 0) {
		return perr.InvalidInputf("expected_period_bytes", "expected period must be finite, got %v", p.ExpectedPeriodBytes)
	}
	return nil
}

// Scan finds every marker occurrence in stream and classifies the gaps between them
// An empty stream yields an empty result, never an error
func Scan(stream, marker string, expectedPeriodBytes, toleranceBytes float64) ([]Gap, error) {
	s, err := New(Params{Marker: marker, ExpectedPeriodBytes: expectedPeriodBytes, ToleranceBytes: toleranceBytes})
	if err != nil {
		return nil, err
	}
	return s.Scan(stream), nil
}

// Occurrences lists every start offset of marker in stream in ascending order
func Occurrences(stream, marker string) ([]Occurrence, error) {
	s, err := New(Params{Marker: marker})
	if err != nil {
		return nil, err
	}
	return s.Occurrences(stream), nil
}

// Classify turns N occurrences into N-1 gaps
func Classify(occs []Occurrence, expectedPeriodBytes, toleranceBytes float64) []Gap {
	if len(occs) < 2 {
		return []Gap{}
	}
	gaps := make([]Gap, 0, len(occs)-1)
	for i := 1; i < len(occs); i++ {
		prev, cur := occs[i-1], occs[i]
		raw := float64(cur.Index-prev.Index) / 2
		gaps = append(gaps, Gap{
			Sequence:        i,
			Index:           cur.Index,
			PrevIndex:       prev.Index,
			ByteDistance:    int(math.Round(raw)),
			RawByteDistance: raw,
			Expected:        math.Abs(raw-expectedPeriodBytes) < toleranceBytes,
			Timestamp:       cur.Timestamp,
		})
	}
	return gaps
}

// Matcher selects the substring search strategy
type Matcher uint8

const (
	// MatcherAutomaton is a linear time Aho-Corasick pass over all markers
	MatcherAutomaton Matcher = iota
	// MatcherNaive compares every offset against every marker
	MatcherNaive
)

func (m Matcher) String() string {
	if m == MatcherNaive {
		return "naive"
	}
	return "automaton"
}

// ParseMatcher accepts "automaton" (or "") and "naive"
func ParseMatcher(s string) (Matcher, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "automaton", "ac":
		return MatcherAutomaton, nil
	case "naive":
		return MatcherNaive, nil
	}
	return 0, perr.InvalidInputf("matcher", "unknown matcher %q", s)
}

// Options tunes a Scanner beyond its Params
type Options struct {
	Matcher Matcher
	// Markers are scanned alongside Params.Marker and reported through ScanAll
	Markers []string
	// Clock, when set, stamps every occurrence; the scan itself never reads time
	Clock func() time.Time
}

// Scanner holds a prebuilt matcher for one parameter set; safe for concurrent use
type Scanner struct {
	params  Params
	markers []string
	kind    Matcher
	m       matcher
	clock   func() time.Time
}

// New builds a Scanner using the automaton matcher
func New(p Params) (*Scanner, error) { return NewWithOptions(p, Options{}) }

// NewWithOptions builds a Scanner; markers are lowercased to match sanitized streams
func NewWithOptions(p Params, opt Options) (*Scanner, error) {
	p.Marker = strings.ToLower(p.Marker)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	markers := []string{p.Marker}
	for _, m := range opt.Markers {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			return nil, perr.InvalidInputf("markers", "extra markers must not be empty")
		}
		markers = append(markers, m)
	}

	s := &Scanner{params: p, markers: markers, kind: opt.Matcher, clock: opt.Clock}
	switch opt.Matcher {
	case MatcherNaive:
		s.m = naive{markers: markers}
	case MatcherAutomaton:
		s.m = newAutomaton(markers)
	default:
		return nil, perr.InvalidInputf("matcher", "unknown matcher %d", opt.Matcher)
	}
	return s, nil
}

// Params returns the thresholds the scanner was built with
func (s *Scanner) Params() Params { return s.params }

// Matcher reports the search strategy in use
func (s *Scanner) Matcher() Matcher { return s.kind }

// Markers returns the primary marker followed by any extras
func (s *Scanner) Markers() []string { return append([]string(nil), s.markers...) }

// Occurrences lists primary marker offsets in stream
func (s *Scanner) Occurrences(stream string) []Occurrence {
	occs, _ := s.collect(context.Background(), stream)
	return occs[0]
}

// Scan classifies the primary marker's gaps in stream
func (s *Scanner) Scan(stream string) []Gap {
	occs, _ := s.collect(context.Background(), stream)
	return Classify(occs[0], s.params.ExpectedPeriodBytes, s.params.ToleranceBytes)
}

// ScanContext is Scan that gives up once ctx is done
func (s *Scanner) ScanContext(ctx context.Context, stream string) ([]Gap, error) {
	occs, err := s.collect(ctx, stream)
	if err != nil {
		return nil, err
	}
	return Classify(occs[0], s.params.ExpectedPeriodBytes, s.params.ToleranceBytes), nil
}

// ScanAll classifies gaps for every configured marker in a single pass
func (s *Scanner) ScanAll(ctx context.Context, stream string) (map[string][]Gap, error) {
	occs, err := s.collect(ctx, stream)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Gap, len(s.markers))
	for id, m := range s.markers {
		if _, dup := out[m]; dup {
			continue
		}
		out[m] = Classify(occs[id], s.params.ExpectedPeriodBytes, s.params.ToleranceBytes)
	}
	return out, nil
}

func (s *Scanner) collect(ctx context.Context, stream string) ([][]Occurrence, error) {
	occs := make([][]Occurrence, len(s.markers))
	for i := range occs {
		occs[i] = []Occurrence{}
	}
	var now time.Time
	if s.clock != nil {
		now = s.clock()
	}
	done := s.m.find(stream, func(start, id int) {
		occs[id] = append(occs[id], Occurrence{Index: start, Timestamp: now})
	}, func() bool { return ctx.Err() != nil })
	if !done {
		return nil, perr.FromContext(ctx.Err())
	}
	return occs, nil
}
