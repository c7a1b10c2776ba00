// Package service generates seeded mock streams and gap lists
package service

import (
	"math/rand/v2"

	"otnanalyzer/internal/core/hexstream"
	"otnanalyzer/internal/core/mockgen"
	"otnanalyzer/internal/core/scanner"
	"otnanalyzer/internal/platform/config"
	perr "otnanalyzer/internal/platform/errors"
)

// Kinds of generated stream
const (
	KindRandom = "random"
	KindFramed = "framed"
)

// Config bounds what one request may generate
type Config struct {
	MaxDigits int
	MaxGaps   int
}

// DefaultConfig allows 4Mi digits and 10k gaps
func DefaultConfig() Config { return Config{MaxDigits: 4 << 20, MaxGaps: 10_000} }

// ConfigFromEnv reads CORE_MOCK_*; c must already carry the prefix
func ConfigFromEnv(c config.Conf) Config {
	d := DefaultConfig()
	d.MaxDigits = c.MayPositiveInt("MAX_DIGITS", d.MaxDigits)
	d.MaxGaps = c.MayPositiveInt("MAX_GAPS", d.MaxGaps)
	return d
}

// StreamInput selects a generator; zero fields take defaults
type StreamInput struct {
	// Seed 0 picks a random seed which is echoed back
	Seed   uint64
	Kind   string
	Marker string

	// random
	Digits     int
	InsertProb float64

	// framed
	Frames         int
	PeriodBytes    int
	JitterProb     float64
	JitterMaxBytes int
}

// Stream is a generated stream and the inputs that reproduce it
type Stream struct {
	Seed   uint64 `json:"seed"`
	Kind   string `json:"kind"`
	Marker string `json:"marker"`
	Digits int    `json:"digits"`
	Stream string `json:"stream"`
}

// GapList is a generated gap list
type GapList struct {
	Seed        uint64        `json:"seed"`
	PeriodBytes int           `json:"period_bytes"`
	Gaps        []scanner.Gap `json:"gaps"`
}

// Service generates mock data
type Service struct{ cfg Config }

// New returns a Service
func New(cfg Config) *Service { return &Service{cfg: cfg} }

// Config returns the limits in use
func (s *Service) Config() Config { return s.cfg }

// Stream generates a random or framed stream
func (s *Service) Stream(in StreamInput) (Stream, error) {
	seed := seedOr(in.Seed)
	kind := in.Kind
	if kind == "" {
		kind = KindRandom
	}
	marker, err := hexstream.Validate(in.Marker)
	if err != nil {
		return Stream{}, perr.WithField(err, "marker")
	}
	if marker == "" {
		marker = scanner.DefaultMarker
	}
	g := mockgen.New(seed)
	out := Stream{Seed: seed, Kind: kind, Marker: marker}

	switch kind {
	case KindRandom:
		digits := in.Digits
		if digits <= 0 {
			digits = 1000
		}
		if digits > s.cfg.MaxDigits {
			return Stream{}, perr.WithField(perr.TooLargef("digits %d over limit %d", digits, s.cfg.MaxDigits), "digits")
		}
		prob := in.InsertProb
		if prob == 0 {
			prob = 0.01
		}
		if prob < 0 || prob > 1 {
			return Stream{}, perr.InvalidInputf("insert_prob", "insert_prob must be within [0, 1]")
		}
		out.Stream = g.RandomStream(digits, marker, prob)

	case KindFramed:
		fs := mockgen.DefaultFrameSpec(in.Frames)
		fs.Marker = marker
		if fs.Frames <= 0 {
			fs.Frames = 8
		}
		if in.PeriodBytes > 0 {
			fs.PeriodBytes = in.PeriodBytes
		}
		fs.JitterProb = in.JitterProb
		fs.JitterMaxBytes = in.JitterMaxBytes
		if fs.JitterProb < 0 || fs.JitterProb > 1 {
			return Stream{}, perr.InvalidInputf("jitter_prob", "jitter_prob must be within [0, 1]")
		}
		// upper bound before building anything
		if est := fs.Frames * 2 * (fs.PeriodBytes + fs.JitterMaxBytes); est > s.cfg.MaxDigits {
			return Stream{}, perr.WithField(perr.TooLargef("about %d digits over limit %d", est, s.cfg.MaxDigits), "frames")
		}
		out.Stream = g.FramedStream(fs)

	default:
		return Stream{}, perr.InvalidInputf("kind", "kind must be random or framed, got %q", kind)
	}
	out.Digits = len(out.Stream)
	return out, nil
}

// Gaps generates n mock gaps around periodBytes
func (s *Service) Gaps(seed uint64, n, periodBytes int) (GapList, error) {
	if n <= 0 {
		n = 20
	}
	if n > s.cfg.MaxGaps {
		return GapList{}, perr.WithField(perr.TooLargef("n %d over limit %d", n, s.cfg.MaxGaps), "n")
	}
	if periodBytes <= 0 {
		periodBytes = int(scanner.DefaultExpectedPeriodBytes)
	}
	seed = seedOr(seed)
	return GapList{Seed: seed, PeriodBytes: periodBytes, Gaps: mockgen.New(seed).Gaps(n, periodBytes)}, nil
}

func seedOr(seed uint64) uint64 {
	for seed == 0 {
		seed = rand.Uint64()
	}
	return seed
}
