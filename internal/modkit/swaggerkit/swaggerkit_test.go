package swaggerkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	phttp "otnanalyzer/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetchSpec(t *testing.T, r phttp.Router) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs/doc.json", nil))
	if rec.Code != http.StatusOK {
		return rec.Code, nil
	}
	var spec map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &spec))
	return rec.Code, spec
}

func TestMount_Disabled(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, false)

	code, _ := fetchSpec(t, r)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestMount_Redirect(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, true)

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/docs", nil))
	assert.Equal(t, http.StatusPermanentRedirect, rec.Code)
	assert.Equal(t, "/api/docs/", rec.Header().Get("Location"))
}

func TestDocJSON_FillsSharedParts(t *testing.T) {
	t.Setenv("CORE_API_DOCS_TITLE_SUFFIX", "(dev)")
	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, true)

	code, spec := fetchSpec(t, r)
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.Equal(t, []any{map[string]any{"url": "/api/v1"}}, spec["servers"])
	assert.Equal(t, "OTN Analyzer API (dev)", spec["info"].(map[string]any)["title"])

	schemas := spec["components"].(map[string]any)["schemas"].(map[string]any)
	assert.Contains(t, schemas, "ErrorResponse")
	assert.Contains(t, schemas, "ScanResult")

	post := spec["paths"].(map[string]any)["/scan"].(map[string]any)["post"].(map[string]any)
	resps := post["responses"].(map[string]any)
	for _, s := range []string{"200", "400", "413", "422", "500"} {
		assert.Contains(t, resps, s)
	}
	// declared responses win over shared ones
	assert.Equal(t, "Invalid thresholds", resps["422"].(map[string]any)["description"])
}

func TestDocJSON_Mutators(t *testing.T) {
	Register(nil)
	Register(func(spec map[string]any) { spec["x-lanes"] = 16 })
	t.Cleanup(func() {
		mu.Lock()
		mutators = nil
		mu.Unlock()
	})

	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, true)

	_, spec := fetchSpec(t, r)
	assert.EqualValues(t, 16, spec["x-lanes"])
}

func TestDocJSON_BadDocument(t *testing.T) {
	prev := docReader
	docReader = func() string { return "{not json" }
	t.Cleanup(func() { docReader = prev })

	r := phttp.AdaptChi(chi.NewRouter())
	Mount(r, true)

	code, _ := fetchSpec(t, r)
	assert.Equal(t, http.StatusInternalServerError, code)
}

func TestEnsureServers_Downgrades(t *testing.T) {
	spec := map[string]any{"swagger": "2.0"}
	ensureServers(spec, "/x")
	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.NotContains(t, spec, "swagger")

	spec = map[string]any{"openapi": "3.1.0", "servers": []any{}}
	ensureServers(spec, "/x")
	assert.Equal(t, "3.0.3", spec["openapi"])
	assert.Equal(t, []any{}, spec["servers"])
}
