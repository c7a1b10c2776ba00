package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	kit "otnanalyzer/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"trace":     "trace",
		"debug":     "debug",
		"info":      "info",
		"warning":   "warn",
		"error":     "error",
		"fatal":     "fatal",
		"panic":     "panic",
		"":          "info",
		"  bogus  ": "info",
	}
	for in, want := range cases {
		if got := strings.ToLower(parseLevel(in).String()); got != want {
			t.Fatalf("parseLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInitNamedAndContext(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "info",
		Format:       "console",
		Service:      "otnanalyzer-test",
		Writer:       &buf,
		WithCaller:   true,
		SampleEvery:  2,
		StaticFields: map[string]string{"build": "test"},
	})

	// resample to N=1 so every line emits
	rv := Get().Sample(&zerolog.BasicSampler{N: 1})
	(&rv).Info().Msg("root-msg")

	nv := Named("scanner").Sample(&zerolog.BasicSampler{N: 1})
	(&nv).Info().Msg("named-msg")

	ctx := WithLane(WithRequest(context.Background(), "req-123"), 7)
	cv := C(ctx).Sample(&zerolog.BasicSampler{N: 1})
	(&cv).Info().Msg("ctx-msg")

	out := buf.String()
	kit.MustContain(t, out, "root-msg")
	kit.MustContain(t, out, "named-msg")
	kit.MustContain(t, out, "scanner")
	kit.MustContain(t, out, "req-123")
	kit.MustContain(t, out, "lane=")
	kit.MustContain(t, out, "otnanalyzer-test")
	kit.MustContain(t, out, "build=")
}

func TestLaneID(t *testing.T) {
	if _, ok := LaneID(context.Background()); ok {
		t.Fatalf("empty context should carry no lane")
	}
	if id, ok := LaneID(WithLane(context.Background(), 3)); !ok || id != 3 {
		t.Fatalf("LaneID = %d,%v", id, ok)
	}
	if WithRequest(context.Background(), "") != context.Background() {
		t.Fatalf("empty request id should not wrap ctx")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_COMPONENT", "lanes")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Component != "lanes" {
		t.Fatalf("FromEnv fields mismatch: %+v", opt)
	}
	if opt.Service != "otnanalyzer" {
		t.Fatalf("FromEnv default service = %q", opt.Service)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample mismatch: %+v", opt)
	}
}
