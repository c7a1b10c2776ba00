// Package domain defines the lane monitor ports and views
package domain

import (
	"context"
	"time"

	"otnanalyzer/internal/core/hexstream"
	"otnanalyzer/internal/core/lanes"
	"otnanalyzer/internal/core/scanner"

	"github.com/google/uuid"
)

// Detail is one lane with the scan that produced it
type Detail struct {
	lanes.Lane
	ScanID    uuid.UUID         `json:"scan_id"`
	Digits    int               `json:"digits"`
	Tick      uint64            `json:"tick"`
	UpdatedAt time.Time         `json:"updated_at"`
	Gaps      []scanner.Gap     `json:"gaps"`
	Preview   hexstream.Preview `json:"preview"`
}

// Snapshot is the roster at one point in time
type Snapshot struct {
	Totals      lanes.Totals `json:"totals"`
	Lanes       []lanes.Lane `json:"lanes"`
	Tick        uint64       `json:"tick"`
	RefreshedAt time.Time    `json:"refreshed_at,omitzero"`
}

// ReaderPort serves the current roster
type ReaderPort interface {
	Snapshot() Snapshot
	Lane(id int) (Detail, error)
}

// RefreshPort regenerates and rescans every lane now
type RefreshPort interface {
	Refresh(ctx context.Context) (Snapshot, error)
}

// WorkerPort is the background refresh loop
type WorkerPort interface {
	Run(ctx context.Context) error
}
