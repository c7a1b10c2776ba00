package service

import (
	"time"

	"otnanalyzer/internal/core/frame"
	"otnanalyzer/internal/core/hexstream"
	"otnanalyzer/internal/core/scanner"
	"otnanalyzer/internal/platform/config"
)

// Config holds scan defaults and limits
type Config struct {
	Params     scanner.Params
	Matcher    scanner.Matcher
	Mode       hexstream.Mode
	Thresholds frame.Thresholds

	// MaxDigits rejects larger streams after sanitation; 0 disables the check
	MaxDigits int
	// AsyncThreshold moves scans of at least this many digits off the caller goroutine
	AsyncThreshold int
	// CacheSize is the result LRU size; 0 disables the cache
	CacheSize     int
	ScannerCache  int
	PreviewDigits int

	// Persist is the default when a request does not say
	Persist          bool
	RecentLimit      int
	MemoryCap        int
	StatementTimeout time.Duration
}

// DefaultConfig is what an unconfigured process runs with
func DefaultConfig() Config {
	return Config{
		Params:           scanner.DefaultParams(),
		Matcher:          scanner.MatcherAutomaton,
		Mode:             hexstream.ModeStrict,
		Thresholds:       frame.DefaultThresholds(),
		MaxDigits:        16 << 20,
		AsyncThreshold:   1 << 20,
		CacheSize:        256,
		ScannerCache:     32,
		PreviewDigits:    hexstream.DefaultPreviewDigits,
		Persist:          true,
		RecentLimit:      50,
		MemoryCap:        1024,
		StatementTimeout: 5 * time.Second,
	}
}

// ConfigFromEnv reads CORE_SCAN_* on top of DefaultConfig; c must already carry the prefix
func ConfigFromEnv(c config.Conf) (Config, error) {
	d := DefaultConfig()
	d.Params = scanner.Params{
		Marker:              c.MayString("MARKER", d.Params.Marker),
		ExpectedPeriodBytes: c.MayFloat64("PERIOD_BYTES", d.Params.ExpectedPeriodBytes),
		ToleranceBytes:      c.MayFloat64("TOLERANCE_BYTES", d.Params.ToleranceBytes),
	}
	if err := d.Params.Validate(); err != nil {
		return d, err
	}

	m, err := scanner.ParseMatcher(c.MayEnum("MATCHER", d.Matcher.String(), "automaton", "naive"))
	if err != nil {
		return d, err
	}
	d.Matcher = m

	mode, err := hexstream.ParseMode(c.MayEnum("MODE", d.Mode.String(), "strict", "lenient"))
	if err != nil {
		return d, err
	}
	d.Mode = mode

	d.Thresholds = frame.Thresholds{
		Acquire: c.MayPositiveInt("FRAME_ACQUIRE", d.Thresholds.Acquire),
		Lose:    c.MayPositiveInt("FRAME_LOSE", d.Thresholds.Lose),
	}
	d.MaxDigits = max(c.MayInt("MAX_DIGITS", d.MaxDigits), 0)
	d.AsyncThreshold = max(c.MayInt("ASYNC_THRESHOLD", d.AsyncThreshold), 0)
	d.CacheSize = max(c.MayInt("CACHE_SIZE", d.CacheSize), 0)
	d.ScannerCache = max(c.MayInt("SCANNER_CACHE", d.ScannerCache), 0)
	d.PreviewDigits = c.MayPositiveInt("PREVIEW_DIGITS", d.PreviewDigits)
	d.Persist = c.MayBool("PERSIST", d.Persist)
	d.RecentLimit = c.MayPositiveInt("RECENT_LIMIT", d.RecentLimit)
	d.MemoryCap = c.MayPositiveInt("MEMORY_CAP", d.MemoryCap)
	d.StatementTimeout = c.MayDuration("STATEMENT_TIMEOUT", d.StatementTimeout)
	return d, nil
}
