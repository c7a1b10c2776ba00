package repo

import (
	"context"
	"errors"
	"testing"

	"otnanalyzer/internal/core/scanner"
	perr "otnanalyzer/internal/platform/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCH(t *testing.T) {
	c := &fakeCH{}
	require.NoError(t, MigrateCH(context.Background(), c))
	require.Len(t, c.execs, 1)
	assert.Contains(t, c.execs[0], "ENGINE = MergeTree")

	err := MigrateCH(context.Background(), &fakeCH{err: errors.New("down")})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeDB))
}

func TestCHGapsWriteGaps(t *testing.T) {
	assert.Nil(t, NewCHGaps(nil))

	c := &fakeCH{}
	sink := NewCHGaps(c)
	id := uuid.Must(uuid.NewV7())
	gaps := []scanner.Gap{
		{Sequence: 1, Index: 32640, PrevIndex: 0, ByteDistance: 16320, RawByteDistance: 16320, Expected: true},
		{Sequence: 2, Index: 40000, PrevIndex: 32640, ByteDistance: 3680, RawByteDistance: 3680},
	}
	require.NoError(t, sink.WriteGaps(context.Background(), id, 7, epoch, gaps))

	assert.Equal(t, "scan_gaps", c.table)
	require.Len(t, c.rows, 2)
	assert.Equal(t, []any{id, uint16(7), uint32(1), uint64(32640), uint64(0), int64(16320), 16320.0, true, epoch}, c.rows[0])

	// empty input never reaches clickhouse
	c = &fakeCH{err: errors.New("should not be called")}
	require.NoError(t, NewCHGaps(c).WriteGaps(context.Background(), id, 0, epoch, nil))

	c = &fakeCH{err: errors.New("down")}
	err := NewCHGaps(c).WriteGaps(context.Background(), id, 0, epoch, gaps)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeDB))
}
