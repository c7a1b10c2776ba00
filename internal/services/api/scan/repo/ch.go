package repo

import (
	"context"
	"time"

	"otnanalyzer/internal/core/scanner"
	"otnanalyzer/internal/modkit/repokit"
	perr "otnanalyzer/internal/platform/errors"
	"otnanalyzer/internal/services/api/scan/domain"

	"github.com/google/uuid"
)

const gapsTable = "scan_gaps"

const schemaCH = `
CREATE TABLE IF NOT EXISTS scan_gaps (
	scan_id UUID,
	lane_id UInt16,
	seq UInt32,
	idx UInt64,
	prev_idx UInt64,
	byte_distance Int64,
	raw_byte_distance Float64,
	expected Bool,
	created_at DateTime64(3)
) ENGINE = MergeTree
ORDER BY (lane_id, created_at, scan_id, seq)`

// MigrateCH creates the gap table if missing
func MigrateCH(ctx context.Context, c repokit.Clickhouse) error {
	if err := c.Exec(ctx, schemaCH); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "migrate scan_gaps")
	}
	return nil
}

// CHGaps writes one row per gap through the native batch API
type CHGaps struct{ c repokit.Clickhouse }

// NewCHGaps wraps a clickhouse seam; nil c yields a nil sink
func NewCHGaps(c repokit.Clickhouse) domain.GapSink {
	if c == nil {
		return nil
	}
	return &CHGaps{c: c}
}

// WriteGaps inserts gaps as a single batch; an empty list is a no-op
func (s *CHGaps) WriteGaps(ctx context.Context, scanID uuid.UUID, laneID int, at time.Time, gaps []scanner.Gap) error {
	if len(gaps) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(gaps))
	for _, g := range gaps {
		rows = append(rows, []any{
			scanID,
			uint16(laneID),
			uint32(g.Sequence),
			uint64(g.Index),
			uint64(g.PrevIndex),
			int64(g.ByteDistance),
			g.RawByteDistance,
			g.Expected,
			at,
		})
	}
	if err := s.c.Insert(ctx, gapsTable, rows); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "write scan gaps")
	}
	return nil
}
