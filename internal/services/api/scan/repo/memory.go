// Package repo provides storage for scan results: postgres, clickhouse gap rows and an in memory fallback
package repo

import (
	"context"
	"sync"

	perr "otnanalyzer/internal/platform/errors"
	"otnanalyzer/internal/services/api/scan/domain"

	"github.com/google/uuid"
)

// DefaultMemoryCap bounds the in memory repo
const DefaultMemoryCap = 1024

// Memory keeps the newest results when no database is configured
type Memory struct {
	mu    sync.RWMutex
	cap   int
	byID  map[uuid.UUID]domain.ScanResult
	byFP  map[string]uuid.UUID
	order []uuid.UUID // oldest first
}

// NewMemory returns a repo holding up to capacity results; capacity <= 0 uses DefaultMemoryCap
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultMemoryCap
	}
	return &Memory{
		cap:  capacity,
		byID: make(map[uuid.UUID]domain.ScanResult, capacity),
		byFP: make(map[string]uuid.UUID, capacity),
	}
}

var _ domain.StorageRepo = (*Memory)(nil)

// SaveScan stores res unless its fingerprint is already present
func (m *Memory) SaveScan(_ context.Context, res domain.ScanResult) (uuid.UUID, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.byFP[res.Fingerprint]; ok {
		return id, true, nil
	}
	if len(m.order) >= m.cap {
		old := m.order[0]
		m.order = m.order[1:]
		delete(m.byFP, m.byID[old].Fingerprint)
		delete(m.byID, old)
	}
	res.Persisted = true
	res.Cached = false
	m.byID[res.ID] = res
	m.byFP[res.Fingerprint] = res.ID
	m.order = append(m.order, res.ID)
	return res.ID, false, nil
}

// GetScan returns perr.ErrNotFound for unknown ids
func (m *Memory) GetScan(_ context.Context, id uuid.UUID) (domain.ScanResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.byID[id]
	if !ok {
		return domain.ScanResult{}, perr.ErrNotFound
	}
	return res, nil
}

// RecentScans lists newest first
func (m *Memory) RecentScans(_ context.Context, limit int) ([]domain.ScanRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := min(limit, len(m.order))
	out := make([]domain.ScanRecord, 0, max(n, 0))
	for i := len(m.order) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.byID[m.order[i]].Record())
	}
	return out, nil
}

// Len is the number of stored results
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}
