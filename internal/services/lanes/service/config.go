package service

import (
	"time"

	"otnanalyzer/internal/platform/config"
)

// Config controls the lane roster and its refresher
type Config struct {
	Count    int
	Interval time.Duration
	Workers  int
	Seed     uint64

	// Frames is how many markers an active lane's stream carries
	Frames int
	// NoiseDigits sizes an idle lane's markerless stream
	NoiseDigits    int
	ActiveProb     float64
	JitterProb     float64
	JitterMaxBytes int
	// PeriodBytes 0 follows the scanner default
	PeriodBytes int

	// KeepGaps bounds the gaps kept per lane detail
	KeepGaps      int
	PreviewDigits int
	Persist       bool
}

// DefaultConfig is a 16 lane roster refreshed every 5s
func DefaultConfig() Config {
	return Config{
		Count:          16,
		Interval:       5 * time.Second,
		Workers:        4,
		Seed:           1,
		Frames:         12,
		NoiseDigits:    4096,
		ActiveProb:     0.7,
		JitterProb:     0.15,
		JitterMaxBytes: 400,
		KeepGaps:       64,
		PreviewDigits:  300,
	}
}

// ConfigFromEnv reads CORE_LANES_*; c must already carry the prefix
func ConfigFromEnv(c config.Conf) Config {
	d := DefaultConfig()
	d.Count = max(c.MayInt("COUNT", d.Count), 0)
	d.Interval = c.MayDuration("INTERVAL", d.Interval)
	d.Workers = c.MayPositiveInt("WORKERS", d.Workers)
	d.Seed = uint64(max(c.MayInt("SEED", int(d.Seed)), 0))
	d.Frames = c.MayPositiveInt("FRAMES", d.Frames)
	d.NoiseDigits = c.MayPositiveInt("NOISE_DIGITS", d.NoiseDigits)
	d.ActiveProb = clamp01(c.MayFloat64("ACTIVE_PROB", d.ActiveProb))
	d.JitterProb = clamp01(c.MayFloat64("JITTER_PROB", d.JitterProb))
	d.JitterMaxBytes = max(c.MayInt("JITTER_MAX_BYTES", d.JitterMaxBytes), 0)
	d.PeriodBytes = max(c.MayInt("PERIOD_BYTES", d.PeriodBytes), 0)
	d.KeepGaps = c.MayPositiveInt("KEEP_GAPS", d.KeepGaps)
	d.PreviewDigits = c.MayPositiveInt("PREVIEW_DIGITS", d.PreviewDigits)
	d.Persist = c.MayBool("PERSIST", d.Persist)
	return d
}

func clamp01(f float64) float64 { return min(max(f, 0), 1) }
