package repo

import (
	"context"
	"strconv"
	"testing"
	"time"

	perr "otnanalyzer/internal/platform/errors"
	"otnanalyzer/internal/services/api/scan/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(fp string) domain.ScanResult {
	return domain.ScanResult{
		ID:          uuid.Must(uuid.NewV7()),
		CreatedAt:   time.Now().UTC(),
		Fingerprint: fp,
		Cached:      true,
	}
}

func TestMemorySaveIsIdempotent(t *testing.T) {
	m := NewMemory(4)
	ctx := context.Background()

	a := result("fp-a")
	id, existed, err := m.SaveScan(ctx, a)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, a.ID, id)

	id, existed, err = m.SaveScan(ctx, result("fp-a"))
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, a.ID, id)
	assert.Equal(t, 1, m.Len())

	got, err := m.GetScan(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Persisted)
	assert.False(t, got.Cached)
}

func TestMemoryEvictsOldest(t *testing.T) {
	m := NewMemory(2)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := range 3 {
		r := result("fp-" + strconv.Itoa(i))
		_, _, err := m.SaveScan(ctx, r)
		require.NoError(t, err)
		ids = append(ids, r.ID)
	}
	assert.Equal(t, 2, m.Len())

	_, err := m.GetScan(ctx, ids[0])
	assert.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))

	// the evicted fingerprint can be stored again
	_, existed, err := m.SaveScan(ctx, result("fp-0"))
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestMemoryRecentNewestFirst(t *testing.T) {
	m := NewMemory(0)
	ctx := context.Background()
	for i := range 5 {
		_, _, err := m.SaveScan(ctx, result("fp-"+strconv.Itoa(i)))
		require.NoError(t, err)
	}

	recent, err := m.RecentScans(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "fp-4", recent[0].Fingerprint)
	assert.Equal(t, "fp-2", recent[2].Fingerprint)

	none, err := m.RecentScans(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
