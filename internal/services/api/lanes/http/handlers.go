// Package http provides http transport for the lane monitor
package http

import (
	stdhttp "net/http"
	"strconv"

	"otnanalyzer/internal/modkit/httpkit"
	perr "otnanalyzer/internal/platform/errors"
	"otnanalyzer/internal/services/lanes/domain"
)

// Register mounts lane endpoints on the given router
func Register(r httpkit.Router, reader domain.ReaderPort, refresher domain.RefreshPort) {
	h := &handlers{reader: reader, refresher: refresher}

	httpkit.Get(r, "/", h.overview)
	httpkit.Get(r, "/{id}", h.lane)
	httpkit.Post(r, "/refresh", h.refresh)
}

type handlers struct {
	reader    domain.ReaderPort
	refresher domain.RefreshPort
}

// swagger:route GET /lanes Lanes lanesOverview
// @Summary Lane roster and totals
// @Tags Lanes
// @Produce json
// @Success 200 {object} domain.Snapshot "ok"
// @Router /lanes [get]
func (h *handlers) overview(*stdhttp.Request) (any, error) {
	return h.reader.Snapshot(), nil
}

// swagger:route GET /lanes/{id} Lanes lanesDetail
// @Summary One lane with its latest gaps and preview
// @Tags Lanes
// @Produce json
// @Param id path int true "Lane id"
// @Success 200 {object} domain.Detail "ok"
// @Failure 404 {object} httpkit.Envelope "not scanned yet"
// @Router /lanes/{id} [get]
func (h *handlers) lane(r *stdhttp.Request) (any, error) {
	id, err := strconv.Atoi(httpkit.URLParam(r, "id"))
	if err != nil {
		return nil, perr.InvalidInputf("id", "lane id must be an integer")
	}
	return h.reader.Lane(id)
}

// swagger:route POST /lanes/refresh Lanes lanesRefresh
// @Summary Regenerate and rescan every lane now
// @Tags Lanes
// @Produce json
// @Success 200 {object} domain.Snapshot "ok"
// @Router /lanes/refresh [post]
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	return h.refresher.Refresh(r.Context())
}
