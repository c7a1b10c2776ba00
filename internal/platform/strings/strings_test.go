package strings

import (
	"testing"

	kit "otnanalyzer/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()
	if got := IfEmpty([]int{1, 2}, []int{9}); len(got) != 2 {
		t.Fatalf("IfEmpty replaced non-empty slice: %v", got)
	}
	if got := IfEmpty(nil, []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("IfEmpty did not return default: %v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"scan":      "/scan",
		"/lanes/":   "/lanes",
		"  /meta  ": "/meta",
		"mock/gaps": "/mock/gaps",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { _ = MustPrefix(" / ") })
}

func TestClip(t *testing.T) {
	t.Parallel()
	if got := Clip("f6f6f62828", 4); got != "f6f6..." {
		t.Fatalf("Clip = %q", got)
	}
	if got := Clip("abc", 10); got != "abc" {
		t.Fatalf("Clip short = %q", got)
	}
	if got := Clip("abc", 0); got != "abc" {
		t.Fatalf("Clip zero = %q", got)
	}
}
