// Package summary reduces a classified gap list to the figures dashboards show
package summary

import "otnanalyzer/internal/core/scanner"

// Summary holds totals over one scan
type Summary struct {
	Gaps             int     `json:"gaps"`
	Expected         int     `json:"expected"`
	Unexpected       int     `json:"unexpected"`
	MeanByteDistance float64 `json:"mean_byte_distance"` // over the rounded ByteDistance values
	MinByteDistance  int     `json:"min_byte_distance"`
	MaxByteDistance  int     `json:"max_byte_distance"`
	ExpectedRatio    float64 `json:"expected_ratio"` // 0..1
}

// Of summarizes gaps; an empty list gives the zero Summary
func Of(gaps []scanner.Gap) Summary {
	if len(gaps) == 0 {
		return Summary{}
	}
	s := Summary{
		Gaps:            len(gaps),
		MinByteDistance: gaps[0].ByteDistance,
		MaxByteDistance: gaps[0].ByteDistance,
	}
	var total int
	for _, g := range gaps {
		if g.Expected {
			s.Expected++
		}
		total += g.ByteDistance
		s.MinByteDistance = min(s.MinByteDistance, g.ByteDistance)
		s.MaxByteDistance = max(s.MaxByteDistance, g.ByteDistance)
	}
	s.Unexpected = s.Gaps - s.Expected
	s.MeanByteDistance = float64(total) / float64(s.Gaps)
	s.ExpectedRatio = float64(s.Expected) / float64(s.Gaps)
	return s
}

// Healthy reports whether at least ratio of the gaps matched the period
func (s Summary) Healthy(ratio float64) bool {
	return s.Gaps > 0 && s.ExpectedRatio >= ratio
}
