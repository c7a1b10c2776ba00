// Package hexstream is the input boundary for hex digit streams
//
// Two policies are offered. Strict (the default at every transport) fails on
// the first character that is not a hex digit, ignoring whitespace, because a
// silently dropped character shifts every later byte offset. Lenient keeps the
// dashboard behaviour of dropping anything outside [0-9a-f] after folding ASCII
// case and fullwidth forms.
package hexstream

import (
	"strings"
	"sync"
	"unicode"

	perr "otnanalyzer/internal/platform/errors"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// Mode picks the sanitation policy
type Mode uint8

const (
	ModeStrict Mode = iota
	ModeLenient
)

func (m Mode) String() string {
	if m == ModeLenient {
		return "lenient"
	}
	return "strict"
}

// ParseMode accepts "strict" (or "") and "lenient"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return ModeStrict, nil
	case "lenient":
		return ModeLenient, nil
	}
	return 0, perr.InvalidInputf("mode", "unknown mode %q, want strict or lenient", s)
}

// IsHexDigit reports whether r is in [0-9a-f]
func IsHexDigit(r rune) bool { return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') }

var chainPool = sync.Pool{
	New: func() any {
		// compatibility forms such as ½ or ﬀ are dropped, never decomposed into digits
		return transform.Chain(
			width.Fold, // fullwidth digits and letters to ASCII
			runes.Map(lowerASCIIHex),
			runes.Remove(runes.Predicate(func(r rune) bool { return !IsHexDigit(r) })),
		)
	},
}

func lowerASCIIHex(r rune) rune {
	if 'A' <= r && r <= 'F' {
		return r + ('a' - 'A')
	}
	return r
}

// Sanitize folds s and drops every character that is not a lowercase hex digit
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	if isCleanHex(s) {
		return s
	}
	tr := chainPool.Get().(transform.Transformer)
	out, _, _ := transform.String(tr, strings.ToValidUTF8(s, ""))
	tr.Reset()
	chainPool.Put(tr)
	return out
}

// Validate lowercases s and strips ASCII whitespace; any other non hex character
// is a validation error naming its byte offset
func Validate(s string) (string, error) {
	if isCleanHex(s) {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case IsHexDigit(r):
			b.WriteRune(r)
		case 'A' <= r && r <= 'F':
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
		default:
			return "", perr.WithField(perr.Validationf("invalid hex character %q at offset %d", r, i), "stream")
		}
	}
	return b.String(), nil
}

// Parse applies the policy selected by mode
func Parse(s string, mode Mode) (string, error) {
	if mode == ModeLenient {
		return Sanitize(s), nil
	}
	return Validate(s)
}

func isCleanHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(('0' <= c && c <= '9') || ('a' <= c && c <= 'f')) {
			return false
		}
	}
	return true
}
