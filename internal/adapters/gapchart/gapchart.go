// Package gapchart renders classified gaps as a PNG bar chart
// expected gaps are green, the rest red, in stream order
package gapchart

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"otnanalyzer/internal/core/scanner"
	perr "otnanalyzer/internal/platform/errors"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DefaultMaxBars keeps bars wide enough to see
const DefaultMaxBars = 120

var (
	colorExpected   = drawing.ColorFromHex("22c55e")
	colorUnexpected = drawing.ColorFromHex("ef4444")
)

// Options size the chart; zero values use go-chart defaults
type Options struct {
	Title   string
	Width   int
	Height  int
	MaxBars int
	// PeriodBytes pins the y axis so on period bars line up across charts
	PeriodBytes float64
}

// Render writes a PNG of the last MaxBars gaps
func Render(w io.Writer, gaps []scanner.Gap, o Options) error {
	if len(gaps) == 0 {
		return perr.InvalidInputf("gaps", "no gaps to chart")
	}
	limit := o.MaxBars
	if limit <= 0 {
		limit = DefaultMaxBars
	}
	if len(gaps) > limit {
		gaps = gaps[len(gaps)-limit:]
	}

	top := o.PeriodBytes
	bars := make([]chart.Value, 0, len(gaps))
	for _, g := range gaps {
		c := colorUnexpected
		if g.Expected {
			c = colorExpected
		}
		top = max(top, g.RawByteDistance)
		bars = append(bars, chart.Value{
			Label: strconv.Itoa(g.Sequence),
			Value: g.RawByteDistance,
			Style: chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1},
		})
	}
	if top <= 0 {
		top = 1
	}

	title := o.Title
	if title == "" {
		title = fmt.Sprintf("Gap byte distance (%d gaps)", len(gaps))
	}
	width := o.Width
	if width <= 0 {
		width = 1024
	}
	height := o.Height
	if height <= 0 {
		height = 400
	}
	bc := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     height,
		BarSpacing: 2,
		BarWidth:   max(2, (width-120)/len(bars)-2),
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.Style{Hidden: len(bars) > 40},
		YAxis: chart.YAxis{
			Name:  "bytes",
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.1},
		},
		Bars: bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "render gap chart")
	}
	return nil
}

// PNG is Render into a byte slice
func PNG(gaps []scanner.Gap, o Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Render(&buf, gaps, o); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
