package repo

import (
	"context"
	"encoding/json"
	"errors"

	"otnanalyzer/internal/modkit/repokit"
	perr "otnanalyzer/internal/platform/errors"
	"otnanalyzer/internal/platform/store"
	"otnanalyzer/internal/services/api/scan/domain"

	"github.com/google/uuid"
)

// schemaPG is applied by MigratePG; statements run one at a time
var schemaPG = []string{
	`CREATE TABLE IF NOT EXISTS scans (
		id uuid PRIMARY KEY,
		fingerprint text NOT NULL UNIQUE,
		lane_id integer NOT NULL DEFAULT 0,
		marker text NOT NULL,
		expected_period_bytes double precision NOT NULL,
		tolerance_bytes double precision NOT NULL,
		stream_digits integer NOT NULL,
		gaps integer NOT NULL,
		expected integer NOT NULL,
		frame_state text NOT NULL,
		result jsonb NOT NULL,
		hits integer NOT NULL DEFAULT 1,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS scans_created_at_idx ON scans (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS scans_lane_idx ON scans (lane_id, created_at DESC)`,
}

// MigratePG creates the scans table if missing
func MigratePG(ctx context.Context, q repokit.Queryer) error {
	for _, stmt := range schemaPG {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return perr.FromPostgres(err, "migrate scans")
		}
	}
	return nil
}

type binder struct{}

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) domain.StorageRepo { return &pg{q: q} }

type pg struct{ q repokit.Queryer }

type saved struct {
	id      uuid.UUID
	existed bool
}

// SaveScan upserts on fingerprint; a repeat bumps hits and returns the first id
func (r *pg) SaveScan(ctx context.Context, res domain.ScanResult) (uuid.UUID, bool, error) {
	res.Persisted = true
	res.Cached = false
	body, err := json.Marshal(res)
	if err != nil {
		return uuid.Nil, false, perr.Wrap(err, perr.ErrorCodeUnknown, "encode scan")
	}
	const sql = `
		INSERT INTO scans
			(id, fingerprint, lane_id, marker, expected_period_bytes, tolerance_bytes,
			 stream_digits, gaps, expected, frame_state, result, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11::jsonb,$12)
		ON CONFLICT (fingerprint) DO UPDATE SET hits = scans.hits + 1
		RETURNING id, hits > 1`
	out, err := store.One(ctx, r.q, func(row store.Row) (saved, error) {
		var s saved
		err := row.Scan(&s.id, &s.existed)
		return s, err
	}, sql,
		res.ID, res.Fingerprint, res.LaneID, res.Params.Marker, res.Params.ExpectedPeriodBytes,
		res.Params.ToleranceBytes, res.StreamDigits, res.Summary.Gaps, res.Summary.Expected,
		res.Frame.State.Code(), string(body), res.CreatedAt,
	)
	if err != nil {
		return uuid.Nil, false, perr.FromPostgres(err, "save scan")
	}
	return out.id, out.existed, nil
}

// GetScan decodes the stored result document
func (r *pg) GetScan(ctx context.Context, id uuid.UUID) (domain.ScanResult, error) {
	const sql = `SELECT result FROM scans WHERE id = $1`
	res, err := store.One(ctx, r.q, decodeResult, sql, id)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.ScanResult{}, perr.NotFoundf("scan %s not found", id)
	}
	if err != nil {
		return domain.ScanResult{}, perr.FromPostgres(err, "get scan")
	}
	return res, nil
}

// RecentScans lists newest first without the heavy gap and preview fields
func (r *pg) RecentScans(ctx context.Context, limit int) ([]domain.ScanRecord, error) {
	const sql = `
		SELECT result - 'gaps' - 'extra' - 'preview'
		FROM scans
		ORDER BY created_at DESC, id DESC
		LIMIT $1`
	rows, err := store.Many(ctx, r.q, func(row store.Row) (domain.ScanRecord, error) {
		res, err := decodeResult(row)
		return res.Record(), err
	}, sql, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "recent scans")
	}
	return rows, nil
}

func decodeResult(row store.Row) (domain.ScanResult, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		return domain.ScanResult{}, err
	}
	var res domain.ScanResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return domain.ScanResult{}, perr.Wrap(err, perr.ErrorCodeDB, "decode scan")
	}
	return res, nil
}
