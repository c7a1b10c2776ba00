package summary

import (
	"testing"

	"otnanalyzer/internal/core/scanner"

	"github.com/stretchr/testify/assert"
)

func TestOfEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Of(nil))
	assert.False(t, Of(nil).Healthy(0))
}

func TestOfReducesGaps(t *testing.T) {
	gaps := []scanner.Gap{
		{ByteDistance: 16320, RawByteDistance: 16320, Expected: true},
		{ByteDistance: 8166, RawByteDistance: 8165.5},
		{ByteDistance: 16320, RawByteDistance: 16320, Expected: true},
		{ByteDistance: 27999, RawByteDistance: 27999},
	}
	s := Of(gaps)
	assert.Equal(t, 4, s.Gaps)
	assert.Equal(t, 2, s.Expected)
	assert.Equal(t, 2, s.Unexpected)
	assert.Equal(t, 8166, s.MinByteDistance)
	assert.Equal(t, 27999, s.MaxByteDistance)
	// the mean follows the reported, rounded distances
	assert.InDelta(t, (16320+8166+16320+27999)/4.0, s.MeanByteDistance, 1e-9)
	assert.Equal(t, 0.5, s.ExpectedRatio)
	assert.True(t, s.Healthy(0.5))
	assert.False(t, s.Healthy(0.51))
}

func TestOfFromScan(t *testing.T) {
	stream := scanner.DefaultMarker + "0000" + scanner.DefaultMarker + "00" + scanner.DefaultMarker
	gaps, err := scanner.Scan(stream, scanner.DefaultMarker, 7, 0.5)
	assert.NoError(t, err)
	s := Of(gaps)
	assert.Equal(t, 2, s.Gaps)
	assert.Equal(t, 1, s.Expected)
	assert.Equal(t, 6.5, s.MeanByteDistance)
}

func TestOfMeanUsesRoundedDistances(t *testing.T) {
	// raw 2.5 and 3.5 round to 3 and 4; the raw mean would be 3
	s := Of([]scanner.Gap{
		{ByteDistance: 3, RawByteDistance: 2.5},
		{ByteDistance: 4, RawByteDistance: 3.5},
	})
	assert.Equal(t, 3.5, s.MeanByteDistance)
}
