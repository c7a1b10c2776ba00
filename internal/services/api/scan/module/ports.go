package module

import (
	"context"

	"otnanalyzer/internal/services/api/scan/domain"
	scansvc "otnanalyzer/internal/services/api/scan/service"

	"github.com/google/uuid"
)

// Ports is what scan exposes to other modules
type Ports struct {
	Scan domain.ServicePort
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptScanPort struct{ svc scansvc.Service }

var _ domain.ServicePort = adaptScanPort{}

// Scan runs one scan
func (a adaptScanPort) Scan(ctx context.Context, in domain.ScanInput) (domain.ScanResult, error) {
	return a.svc.Scan(ctx, in)
}

// Get returns a persisted scan
func (a adaptScanPort) Get(ctx context.Context, id uuid.UUID) (domain.ScanResult, error) {
	return a.svc.Get(ctx, id)
}

// Recent lists persisted scans
func (a adaptScanPort) Recent(ctx context.Context, limit int) ([]domain.ScanRecord, error) {
	return a.svc.Recent(ctx, limit)
}

// Info reports scanner defaults
func (a adaptScanPort) Info() domain.ScannerInfo { return a.svc.Info() }
