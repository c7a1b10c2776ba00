package lanes

import (
	"testing"
	"time"

	"otnanalyzer/internal/core/frame"
	"otnanalyzer/internal/core/summary"

	"github.com/stretchr/testify/assert"
)

func TestOverview(t *testing.T) {
	ls := []Lane{
		{ID: 1, Status: frame.InFrame, Active: true, PatternCount: 10},
		{ID: 2, Status: frame.InFrame, Active: true, PatternCount: 5},
		{ID: 3, Status: frame.OutOfFrame, Active: false, PatternCount: 0},
	}
	got := Overview(ls)
	assert.Equal(t, Totals{
		Lanes:              3,
		Active:             2,
		Inactive:           1,
		InFrame:            2,
		TotalPatterns:      15,
		AvgPatternsPerLane: 5,
		Status:             StatusOperational,
	}, got)

	ls[2].Active = true
	assert.Equal(t, StatusDegraded, Overview(ls).Status)
}

func TestOverviewRounding(t *testing.T) {
	ls := []Lane{{PatternCount: 1, Active: true, Status: frame.InFrame}, {PatternCount: 2}}
	assert.Equal(t, 2, Overview(ls).AvgPatternsPerLane) // 1.5 rounds half away from zero
}

func TestOverviewEmpty(t *testing.T) {
	got := Overview(nil)
	assert.Equal(t, 0, got.AvgPatternsPerLane)
	assert.Equal(t, StatusIdle, got.Status)
}

func TestFromScan(t *testing.T) {
	at := time.Unix(100, 0)
	fs := frame.Status{State: frame.InFrame, Transitions: 1}
	l := FromScan(4, true, 3, summary.Summary{Gaps: 2, Expected: 2}, fs, at)
	assert.Equal(t, 4, l.ID)
	assert.Equal(t, frame.InFrame, l.Status)
	assert.Equal(t, at, l.LastDetection)
	assert.Equal(t, 2, l.Summary.Gaps)

	assert.True(t, FromScan(1, true, 0, summary.Summary{}, frame.Status{}, at).LastDetection.IsZero())
}
