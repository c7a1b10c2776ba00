package mockgen

import (
	"time"

	"otnanalyzer/internal/core/frame"
	"otnanalyzer/internal/core/lanes"
)

// Lanes returns a roster of n lanes numbered from 1 with random status,
// activity and pattern counts. LastDetection falls in the minute before now.
func (g *Generator) Lanes(n int, now time.Time) []lanes.Lane {
	out := make([]lanes.Lane, 0, max(n, 0))
	for i := 1; i <= n; i++ {
		st := frame.OutOfFrame
		if g.r.Float64() > 0.5 {
			st = frame.InFrame
		}
		out = append(out, lanes.Lane{
			ID:            i,
			Status:        st,
			Active:        g.r.Float64() > 0.3,
			PatternCount:  g.r.IntN(100),
			LastDetection: now.Add(-time.Duration(g.r.IntN(60_000)) * time.Millisecond),
		})
	}
	return out
}
