package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"otnanalyzer/internal/platform/config"
	phttp "otnanalyzer/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mount(t *testing.T, opt Options) (phttp.Router, int) {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	opt.Config = config.New()
	runners, err := Mount(context.Background(), r, opt)
	require.NoError(t, err)
	return r, len(runners)
}

func do(r phttp.Router, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.Mux().ServeHTTP(rec, req)
	return rec
}

func TestMount_Modules(t *testing.T) {
	r, runners := mount(t, Options{})
	assert.Equal(t, 1, runners, "lanes refresher is the only runner")

	for _, p := range []string{
		"/api/v1/meta/health",
		"/api/v1/meta/scanner",
		"/api/v1/scan/info",
		"/api/v1/lanes",
		"/api/v1/mock/gaps?seed=3",
		"/api/v1/ping",
	} {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, p, "").Code, p)
	}

	// optional surfaces stay off unless asked for
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/docs/doc.json", "").Code)
}

func TestMount_ScanRoundTrip(t *testing.T) {
	r, _ := mount(t, Options{})

	rec := do(r, http.MethodPost, "/api/v1/scan", `{"stream":"00f6f6f62828aa","persist":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Data struct {
			ID          string `json:"id"`
			Occurrences int    `json:"occurrences"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, 1, env.Data.Occurrences)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/scan/"+env.Data.ID, "").Code)
}

func TestMount_WithoutLanes(t *testing.T) {
	r, runners := mount(t, Options{DisableLanes: true})
	assert.Zero(t, runners)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/lanes", "").Code)
}

func TestMount_OptionalSurfaces(t *testing.T) {
	r, _ := mount(t, Options{EnableMetrics: true, EnableSwagger: true})

	rec := do(r, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "otnanalyzer_")

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/docs/doc.json", "").Code)
}
