package hexstream

import "strings"

// DefaultPreviewDigits is how much of a stream a preview shows
const DefaultPreviewDigits = 300

// Segment is a run of preview text; Marker segments are marker occurrences
type Segment struct {
	Text   string `json:"text"`
	Marker bool   `json:"marker,omitempty"`
}

// Preview is a truncated stream split around marker occurrences
type Preview struct {
	Segments  []Segment `json:"segments"`
	Markers   int       `json:"markers"`
	Truncated bool      `json:"truncated"`
	Total     int       `json:"total_digits"`
}

// Highlight cuts text to limit digits (DefaultPreviewDigits when limit <= 0) and
// splits it around non-overlapping marker matches, left to right
func Highlight(text, marker string, limit int) Preview {
	if limit <= 0 {
		limit = DefaultPreviewDigits
	}
	p := Preview{Total: len(text), Segments: []Segment{}}
	if len(text) > limit {
		text = text[:limit]
		p.Truncated = true
	}
	if marker == "" {
		if text != "" {
			p.Segments = append(p.Segments, Segment{Text: text})
		}
		return p
	}
	for {
		i := strings.Index(text, marker)
		if i < 0 {
			break
		}
		if i > 0 {
			p.Segments = append(p.Segments, Segment{Text: text[:i]})
		}
		p.Segments = append(p.Segments, Segment{Text: marker, Marker: true})
		p.Markers++
		text = text[i+len(marker):]
	}
	if text != "" {
		p.Segments = append(p.Segments, Segment{Text: text})
	}
	return p
}

// String renders the preview with markers wrapped in open/close, e.g. "[" and "]"
func (p Preview) String(open, close string) string {
	var b strings.Builder
	for _, s := range p.Segments {
		if s.Marker {
			b.WriteString(open)
			b.WriteString(s.Text)
			b.WriteString(close)
			continue
		}
		b.WriteString(s.Text)
	}
	if p.Truncated {
		b.WriteString("...")
	}
	return b.String()
}
