// Package mockgen produces seeded synthetic hex streams, gap lists and lane
// rosters for demos, tests and the lane refresher. Identical seeds give
// identical output.
package mockgen

import (
	"math/rand/v2"
	"strings"

	"otnanalyzer/internal/core/scanner"
)

const hexDigits = "0123456789abcdef"

// Generator is not safe for concurrent use; give each goroutine its own
type Generator struct {
	r *rand.Rand
}

// New returns a generator over a PCG source derived from seed
func New(seed uint64) *Generator {
	return &Generator{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// RandomStream emits digits hex digits, inserting marker at a position with
// probability insertProb. The marker is written whole, so the result may
// slightly exceed digits.
func (g *Generator) RandomStream(digits int, marker string, insertProb float64) string {
	if digits <= 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(digits + len(marker)*int(float64(digits)*insertProb+1))
	for b.Len() < digits {
		if marker != "" && g.r.Float64() < insertProb {
			b.WriteString(marker)
			continue
		}
		b.WriteByte(hexDigits[g.r.IntN(16)])
	}
	return b.String()
}

// FrameSpec describes a quasi-periodic stream
type FrameSpec struct {
	Marker string
	// Frames is the number of markers emitted
	Frames      int
	PeriodBytes int
	// JitterProb is the chance that one gap is off period by up to JitterMaxBytes
	JitterProb     float64
	JitterMaxBytes int
}

// DefaultFrameSpec is a clean 16320 byte framing with no jitter
func DefaultFrameSpec(frames int) FrameSpec {
	return FrameSpec{
		Marker:      scanner.DefaultMarker,
		Frames:      frames,
		PeriodBytes: int(scanner.DefaultExpectedPeriodBytes),
	}
}

// FramedStream writes Frames markers separated by filler. Filler is drawn from
// digits absent in the marker, so markers appear only where they were placed.
func (g *Generator) FramedStream(fs FrameSpec) string {
	if fs.Frames <= 0 || fs.Marker == "" {
		return ""
	}
	alpha := fillerAlphabet(fs.Marker)
	var b strings.Builder
	b.Grow(fs.Frames * max(2*fs.PeriodBytes, len(fs.Marker)))
	for i := range fs.Frames {
		b.WriteString(fs.Marker)
		if i == fs.Frames-1 {
			break
		}
		gap := fs.PeriodBytes
		if fs.JitterMaxBytes > 0 && g.r.Float64() < fs.JitterProb {
			d := 1 + g.r.IntN(fs.JitterMaxBytes)
			if g.r.IntN(2) == 0 {
				d = -d
			}
			gap += d
		}
		for range max(2*gap-len(fs.Marker), 0) {
			b.WriteByte(alpha[g.r.IntN(len(alpha))])
		}
	}
	return b.String()
}

func fillerAlphabet(marker string) string {
	var b strings.Builder
	for i := 0; i < len(hexDigits); i++ {
		if !strings.ContainsRune(marker, rune(hexDigits[i])) {
			b.WriteByte(hexDigits[i])
		}
	}
	if b.Len() == 0 {
		// marker uses every digit; keep its first digit out of the filler
		return strings.ReplaceAll(hexDigits, marker[:1], "")
	}
	return b.String()
}

// Gaps returns n mock gaps: about 30% exactly periodBytes, the rest uniform in
// [8000, 28000). Classification uses the default tolerance.
func (g *Generator) Gaps(n int, periodBytes int) []scanner.Gap {
	if n <= 0 {
		return []scanner.Gap{}
	}
	occs := make([]scanner.Occurrence, n+1)
	idx := 0
	for i := 1; i <= n; i++ {
		bytes := periodBytes
		if g.r.Float64() <= 0.7 {
			bytes = g.r.IntN(20000) + 8000
		}
		idx += bytes * 2
		occs[i].Index = idx
	}
	return scanner.Classify(occs, float64(periodBytes), scanner.DefaultToleranceBytes)
}

// Intn exposes the source for callers composing their own fixtures
func (g *Generator) Intn(n int) int { return g.r.IntN(n) }

// Float64 returns a value in [0, 1)
func (g *Generator) Float64() float64 { return g.r.Float64() }
