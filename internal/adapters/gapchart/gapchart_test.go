package gapchart

import (
	"bytes"
	"image/png"
	"testing"

	"otnanalyzer/internal/core/scanner"
	perr "otnanalyzer/internal/platform/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaps(n int) []scanner.Gap {
	out := make([]scanner.Gap, n)
	for i := range out {
		raw := 16320.0
		if i%3 == 0 {
			raw = 9000
		}
		out[i] = scanner.Gap{Sequence: i + 1, RawByteDistance: raw, ByteDistance: int(raw), Expected: raw == 16320}
	}
	return out
}

func TestRenderPNG(t *testing.T) {
	b, err := PNG(gaps(10), Options{PeriodBytes: 16320, Width: 640, Height: 320})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 320, img.Bounds().Dy())
}

func TestRenderTrimsToMaxBars(t *testing.T) {
	b, err := PNG(gaps(500), Options{MaxBars: 50})
	require.NoError(t, err)
	assert.NotEmpty(t, b)
}

func TestRenderSingleGap(t *testing.T) {
	// a lone bar must still get a non zero y range
	_, err := PNG(gaps(1)[:1], Options{})
	require.NoError(t, err)
}

func TestRenderNoGaps(t *testing.T) {
	_, err := PNG(nil, Options{})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))
}
