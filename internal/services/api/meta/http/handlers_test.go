package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"otnanalyzer/internal/core/scanner"
	"otnanalyzer/internal/core/version"
	phttp "otnanalyzer/internal/platform/net/http"
	scandom "otnanalyzer/internal/services/api/scan/domain"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type info struct{}

func (info) Info() scandom.ScannerInfo {
	return scandom.ScannerInfo{Params: scanner.DefaultParams(), Matcher: "automaton"}
}

func serve(d Deps, path string, out any) int {
	r := phttp.AdaptChi(chi.NewRouter())
	r.Route("/meta", func(rr phttp.Router) { Register(rr, d) })
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		env := struct {
			Data any `json:"data"`
		}{Data: out}
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec.Code
}

func TestReady(t *testing.T) {
	cases := []struct {
		name   string
		pg, ch any
		status int
		want   string
	}{
		{"all disabled", nil, nil, http.StatusOK, "ok"},
		{"pg ok", pinger{}, nil, http.StatusOK, "ok"},
		{"pg fails", pinger{err: errors.New("refused")}, nil, http.StatusServiceUnavailable, "fail"},
		{"ch not a pinger", nil, struct{}{}, http.StatusOK, "degraded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out ReadyResponse
			code := serve(Deps{PG: tc.pg, CH: tc.ch}, "/meta/ready", &out)
			if code != tc.status || out.Status != tc.want {
				t.Fatalf("ready = %d %q, want %d %q", code, out.Status, tc.status, tc.want)
			}
			if len(out.Checks) != 2 {
				t.Fatalf("checks = %+v", out.Checks)
			}
		})
	}
}

func TestHealthVersionService(t *testing.T) {
	d := Deps{ServiceName: "otnanalyzer-api", StartedAt: time.Now().Add(-time.Minute)}

	var h HealthResponse
	if code := serve(d, "/meta/health", &h); code != http.StatusOK || !h.OK || h.Service != "otnanalyzer-api" {
		t.Fatalf("health = %d %+v", code, h)
	}
	var v version.BuildInfo
	if code := serve(d, "/meta/version", &v); code != http.StatusOK || v.Service != "otnanalyzer-api" || v.GoVersion == "" {
		t.Fatalf("version = %d %+v", code, v)
	}
	var s ServiceResponse
	if code := serve(d, "/meta/service", &s); code != http.StatusOK || s.Uptime < 59 {
		t.Fatalf("service = %d %+v", code, s)
	}
}

func TestScannerRoute(t *testing.T) {
	if code := serve(Deps{}, "/meta/scanner", nil); code != http.StatusNotFound {
		t.Fatalf("scanner without port = %d", code)
	}
	var got scandom.ScannerInfo
	if code := serve(Deps{Scanner: info{}}, "/meta/scanner", &got); code != http.StatusOK || got.Params.Marker != scanner.DefaultMarker {
		t.Fatalf("scanner = %d %+v", code, got)
	}
}
