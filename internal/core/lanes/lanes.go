// Package lanes models the per lane view of a multi lane receiver and the
// roster wide totals shown on the overview.
package lanes

import (
	"math"
	"time"

	"otnanalyzer/internal/core/frame"
	"otnanalyzer/internal/core/summary"
)

// Lane is one monitored lane
type Lane struct {
	ID            int             `json:"id"`
	Status        frame.State     `json:"status"`
	Active        bool            `json:"active"`
	PatternCount  int             `json:"pattern_count"`
	LastDetection time.Time       `json:"last_detection,omitzero"`
	Summary       summary.Summary `json:"summary"`
	Frame         frame.Status    `json:"frame"`
}

// Totals summarize a roster
type Totals struct {
	Lanes              int    `json:"lanes"`
	Active             int    `json:"active"`
	Inactive           int    `json:"inactive"`
	InFrame            int    `json:"in_frame"`
	TotalPatterns      int    `json:"total_patterns"`
	AvgPatternsPerLane int    `json:"avg_patterns_per_lane"`
	Status             string `json:"status"`
}

const (
	StatusOperational = "Operational"
	StatusDegraded    = "Degraded"
	StatusIdle        = "Idle"
)

// Overview totals a roster. The roster is Operational while every active lane
// is in frame, Degraded otherwise, and Idle when nothing is active.
func Overview(ls []Lane) Totals {
	t := Totals{Lanes: len(ls)}
	for _, l := range ls {
		t.TotalPatterns += l.PatternCount
		if l.Status == frame.InFrame {
			t.InFrame++
		}
		if l.Active {
			t.Active++
		}
	}
	t.Inactive = t.Lanes - t.Active
	if t.Lanes > 0 {
		t.AvgPatternsPerLane = int(math.Round(float64(t.TotalPatterns) / float64(t.Lanes)))
	}

	t.Status = StatusOperational
	if t.Active == 0 {
		t.Status = StatusIdle
		return t
	}
	for _, l := range ls {
		if l.Active && l.Status != frame.InFrame {
			t.Status = StatusDegraded
			break
		}
	}
	return t
}

// FromScan builds a lane from one scan of its stream
func FromScan(id int, active bool, occurrences int, s summary.Summary, fs frame.Status, at time.Time) Lane {
	l := Lane{
		ID:           id,
		Status:       fs.State,
		Active:       active,
		PatternCount: occurrences,
		Summary:      s,
		Frame:        fs,
	}
	if occurrences > 0 {
		l.LastDetection = at
	}
	return l
}
