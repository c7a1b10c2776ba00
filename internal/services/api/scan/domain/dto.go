// Package domain holds DTOs for scan http and service contracts
package domain

import (
	"time"

	"otnanalyzer/internal/core/frame"
	"otnanalyzer/internal/core/hexstream"
	"otnanalyzer/internal/core/scanner"
	"otnanalyzer/internal/core/summary"

	"github.com/google/uuid"
)

// ScanInput is one scan request
// unset thresholds fall back to the service defaults; an omitted marker uses the default marker
type ScanInput struct {
	Stream              string   `json:"stream" validate:"max=16777216" example:"00f6f6f6282800"`
	Marker              string   `json:"marker,omitempty" validate:"omitempty,max=64,hexdigits" example:"f6f6f62828"`
	ExpectedPeriodBytes *float64 `json:"expected_period_bytes,omitempty" example:"16320"`
	ToleranceBytes      *float64 `json:"tolerance_bytes,omitempty" example:"1"`
	Markers             []string `json:"markers,omitempty" validate:"omitempty,max=8,dive,required,max=64,hexdigits"`
	Matcher             string   `json:"matcher,omitempty" validate:"omitempty,oneof=automaton naive" example:"automaton"`
	Mode                string   `json:"mode,omitempty" validate:"omitempty,oneof=strict lenient" example:"strict"`
	LaneID              int      `json:"lane_id,omitempty" validate:"gte=0,lte=65535" example:"3"`
	Persist             *bool    `json:"persist,omitempty"`
	PreviewDigits       int      `json:"preview_digits,omitempty" validate:"gte=0,lte=65536" example:"300"`
}

// ScanResult is the full outcome of one scan
type ScanResult struct {
	ID           uuid.UUID                `json:"id"`
	CreatedAt    time.Time                `json:"created_at"`
	LaneID       int                      `json:"lane_id,omitempty"`
	Params       scanner.Params           `json:"params"`
	Matcher      string                   `json:"matcher"`
	Mode         string                   `json:"mode"`
	StreamDigits int                      `json:"stream_digits"`
	Fingerprint  string                   `json:"fingerprint"`
	Occurrences  int                      `json:"occurrences"`
	Gaps         []scanner.Gap            `json:"gaps"`
	Extra        map[string][]scanner.Gap `json:"extra,omitempty"`
	Summary      summary.Summary          `json:"summary"`
	Frame        frame.Status             `json:"frame"`
	Preview      hexstream.Preview        `json:"preview"`
	Cached       bool                     `json:"cached"`
	Persisted    bool                     `json:"persisted"`
}

// ScanRecord is the listing row for recent scans
type ScanRecord struct {
	ID           uuid.UUID       `json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	LaneID       int             `json:"lane_id,omitempty"`
	Params       scanner.Params  `json:"params"`
	StreamDigits int             `json:"stream_digits"`
	Fingerprint  string          `json:"fingerprint"`
	Summary      summary.Summary `json:"summary"`
	FrameState   frame.State     `json:"frame_state"`
}

// Record trims a result down to its listing row
func (r ScanResult) Record() ScanRecord {
	return ScanRecord{
		ID:           r.ID,
		CreatedAt:    r.CreatedAt,
		LaneID:       r.LaneID,
		Params:       r.Params,
		StreamDigits: r.StreamDigits,
		Fingerprint:  r.Fingerprint,
		Summary:      r.Summary,
		FrameState:   r.Frame.State,
	}
}

// ScannerInfo describes the defaults a scan runs with when the caller sets nothing
type ScannerInfo struct {
	Params         scanner.Params   `json:"params"`
	Matcher        string           `json:"matcher"`
	Mode           string           `json:"mode"`
	Thresholds     frame.Thresholds `json:"frame_thresholds"`
	MaxDigits      int              `json:"max_digits"`
	AsyncThreshold int              `json:"async_threshold"`
	CacheSize      int              `json:"cache_size"`
	PreviewDigits  int              `json:"preview_digits"`
}
