package domain

import (
	"context"
	"time"

	"otnanalyzer/internal/core/scanner"

	"github.com/google/uuid"
)

// ServicePort is consumed by handlers and other modules (lanes)
type ServicePort interface {
	Scan(ctx context.Context, in ScanInput) (ScanResult, error)
	Get(ctx context.Context, id uuid.UUID) (ScanResult, error)
	Recent(ctx context.Context, limit int) ([]ScanRecord, error)
	Info() ScannerInfo
}

// StorageRepo persists scan results; saves are idempotent on the fingerprint
type StorageRepo interface {
	// SaveScan stores res and returns the id the fingerprint maps to, existed reports a prior save
	SaveScan(ctx context.Context, res ScanResult) (id uuid.UUID, existed bool, err error)
	GetScan(ctx context.Context, id uuid.UUID) (ScanResult, error)
	RecentScans(ctx context.Context, limit int) ([]ScanRecord, error)
}

// GapSink receives per gap rows for analytics
type GapSink interface {
	WriteGaps(ctx context.Context, scanID uuid.UUID, laneID int, at time.Time, gaps []scanner.Gap) error
}
