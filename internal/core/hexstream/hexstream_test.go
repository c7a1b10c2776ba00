package hexstream

import (
	"testing"

	perr "otnanalyzer/internal/platform/errors"
	kit "otnanalyzer/internal/platform/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"":                       "",
		"f6f6f62828":             "f6f6f62828",
		"F6 F6 F6 28 28":         "f6f6f62828",
		"0x1G2h-3:4\n":           "01234",
		"ｆ６ｆ６ｆ６２８２８":             "f6f6f62828",
		"zz\xffab":               "ab",
		"deadbeef DEADBEEF xyz!": "deadbeefdeadbeef",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), "Sanitize(%q)", in)
	}
}

func TestSanitizeDropsCompatibilityForms(t *testing.T) {
	for _, in := range []string{"½", "ﬀ", "²", "㎈", "①", "ⅽ", "𝟏"} {
		assert.Equal(t, "0000", Sanitize("00"+in+"00"), "Sanitize(%q)", in)
	}
	// fullwidth hex still folds, it is the same character in another width
	assert.Equal(t, "00fa00", Sanitize("00ＦＡ00"))
}

func TestValidate(t *testing.T) {
	got, err := Validate("F6F6 f628\t28\r\n")
	require.NoError(t, err)
	assert.Equal(t, "f6f6f62828", got)

	got, err = Validate("")
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = Validate("f6f6g6")
	kit.MustCode(t, err, perr.ErrorCodeValidation)
	kit.MustContain(t, err.Error(), "offset 4")
	e, _ := perr.As(err)
	assert.Equal(t, "stream", e.Field())

	// fullwidth is not silently folded in strict mode
	_, err = Validate("ｆ６")
	kit.MustCode(t, err, perr.ErrorCodeValidation)
}

func TestParseAndMode(t *testing.T) {
	got, err := Parse("ab-cd", ModeLenient)
	require.NoError(t, err)
	assert.Equal(t, "abcd", got)

	_, err = Parse("ab-cd", ModeStrict)
	kit.MustCode(t, err, perr.ErrorCodeValidation)

	for in, want := range map[string]Mode{"": ModeStrict, "STRICT": ModeStrict, " lenient": ModeLenient} {
		m, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, m)
	}
	_, err = ParseMode("loose")
	kit.MustCode(t, err, perr.ErrorCodeInvalidArgument)
	assert.Equal(t, "lenient", ModeLenient.String())
	assert.Equal(t, "strict", ModeStrict.String())
}

func TestHighlight(t *testing.T) {
	const m = "f6f6f62828"
	p := Highlight("00"+m+"11"+m, m, 0)
	assert.False(t, p.Truncated)
	assert.Equal(t, 2, p.Markers)
	assert.Equal(t, []Segment{{Text: "00"}, {Text: m, Marker: true}, {Text: "11"}, {Text: m, Marker: true}}, p.Segments)
	assert.Equal(t, "00["+m+"]11["+m+"]", p.String("[", "]"))

	// a marker cut by the limit is not highlighted
	p = Highlight(m+"00"+m, m, 15)
	assert.True(t, p.Truncated)
	assert.Equal(t, 1, p.Markers)
	assert.Equal(t, 22, p.Total)
	assert.Equal(t, "<"+m+">00f6f...", p.String("<", ">"))

	p = Highlight("abc", "", 10)
	assert.Equal(t, []Segment{{Text: "abc"}}, p.Segments)
	assert.Empty(t, Highlight("", m, 10).Segments)
}
