package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer) {
	t.Helper()
	svc, err := newService()
	require.NoError(t, err)
	var out bytes.Buffer
	return NewREPL(svc, &out, 7), &out
}

func TestREPL_Settings(t *testing.T) {
	r, out := newTestREPL(t)
	ctx := context.Background()

	require.NoError(t, r.Exec(ctx, "params"))
	assert.Contains(t, out.String(), "marker=f6f6f62828 period=16320 tolerance=1 mode=strict matcher=automaton")

	out.Reset()
	for _, line := range []string{"marker AA", "period 2", "tolerance 0", "mode lenient", "matcher naive", "params"} {
		require.NoError(t, r.Exec(ctx, line), line)
	}
	assert.Contains(t, out.String(), "marker=AA period=2 tolerance=0 mode=lenient matcher=naive")

	require.Error(t, r.Exec(ctx, "period soon"))
	require.Error(t, r.Exec(ctx, "tolerance"))
}

func TestREPL_ScanAndGaps(t *testing.T) {
	r, out := newTestREPL(t)
	ctx := context.Background()

	require.Error(t, r.Exec(ctx, "gaps"), "nothing scanned yet")

	require.NoError(t, r.Exec(ctx, "marker aa"))
	require.NoError(t, r.Exec(ctx, "period 2"))
	require.NoError(t, r.Exec(ctx, "scan aa0000aa00aa"))
	assert.Contains(t, out.String(), "3 occurrences, 2 gaps")

	out.Reset()
	require.NoError(t, r.Exec(ctx, "gaps"))
	assert.Contains(t, out.String(), "#1 0 -> 6  3.0 bytes  expected=false")
	assert.Contains(t, out.String(), "#2 6 -> 10  2.0 bytes  expected=true")

	require.Error(t, r.Exec(ctx, "scan xyz"))
}

func TestREPL_MockAndChart(t *testing.T) {
	r, out := newTestREPL(t)
	ctx := context.Background()

	require.Error(t, r.Exec(ctx, "chart x.png"), "nothing scanned yet")

	require.NoError(t, r.Exec(ctx, "mock 5"))
	assert.Contains(t, out.String(), "5 occurrences, 4 gaps")
	assert.Contains(t, out.String(), "4 expected, 0 unexpected")

	require.NoError(t, r.Exec(ctx, "mock 6 1"))
	require.Error(t, r.Exec(ctx, "mock zero"))
	require.Error(t, r.Exec(ctx, "mock 3 2"))

	require.Error(t, r.Exec(ctx, "chart"))
	path := filepath.Join(t.TempDir(), "lane.png")
	require.NoError(t, r.Exec(ctx, "chart "+path))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestREPL_Commands(t *testing.T) {
	r, out := newTestREPL(t)
	ctx := context.Background()

	require.NoError(t, r.Exec(ctx, "   "))
	require.NoError(t, r.Exec(ctx, "help"))
	assert.Contains(t, out.String(), "mock [frames] [jitter]")

	assert.ErrorIs(t, r.Exec(ctx, "exit"), errQuit)
	assert.ErrorIs(t, r.Exec(ctx, "quit"), errQuit)
	assert.ErrorContains(t, r.Exec(ctx, "frobnicate"), "unknown command")
}
