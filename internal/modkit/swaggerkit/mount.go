// Package swaggerkit mounts the Swagger UI and the served OpenAPI document
package swaggerkit

import (
	"net/http"

	"otnanalyzer/internal/platform/config"
	phttp "otnanalyzer/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount the Swagger UI under /api/docs and the document at /api/docs/doc.json
// DOCS_TITLE_SUFFIX comes from CORE_API_
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(config.New().Prefix("CORE_API_")))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
