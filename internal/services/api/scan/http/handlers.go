// Package http provides http transport for scan
package http

import (
	stdhttp "net/http"

	"otnanalyzer/internal/adapters/gapchart"
	"otnanalyzer/internal/adapters/hexio"
	"otnanalyzer/internal/modkit/httpkit"
	perr "otnanalyzer/internal/platform/errors"
	"otnanalyzer/internal/platform/net/http/bind"
	"otnanalyzer/internal/services/api/scan/domain"

	"github.com/google/uuid"
)

// Options bound request sizes; zero values take the service limits
type Options struct {
	// MaxBodyBytes caps JSON and raw bodies
	MaxBodyBytes int64
	Chart        gapchart.Options
}

// Register mounts scan endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, o Options) {
	if o.MaxBodyBytes <= 0 {
		// json quoting plus the other fields fit in a few KB on top of the digits
		o.MaxBodyBytes = int64(s.Info().MaxDigits) + 64<<10
	}
	h := &handlers{svc: s, o: o}
	jsonOpts := bind.JSONOptions{MaxBytes: o.MaxBodyBytes, DisallowUnknown: true}

	// scan a JSON body
	httpkit.PostJSON[domain.ScanInput](r, "/", h.scan, jsonOpts)

	// scan a raw text or s2 body, params in the query
	httpkit.Post(r, "/raw", h.raw)

	// scan then render the gaps as a PNG
	httpkit.PostJSON[domain.ScanInput](r, "/chart", h.chart, jsonOpts)

	httpkit.Get(r, "/recent", h.recent)
	httpkit.Get(r, "/info", h.info)
	httpkit.Get(r, "/{id}", h.get)
}

type handlers struct {
	svc domain.ServicePort
	o   Options
}

// swagger:route POST /scan Scan scanStream
// @Summary Scan a hex stream for markers
// @Description Finds every marker occurrence, classifies the gaps against the expected period and reports frame alignment
// @Tags Scan
// @Accept json
// @Produce json
// @Param payload body domain.ScanInput true "Stream and thresholds"
// @Success 200 {object} domain.ScanResult "ok"
// @Failure 400 {object} httpkit.Envelope "invalid hex"
// @Failure 413 {object} httpkit.Envelope "stream too large"
// @Failure 422 {object} httpkit.Envelope "invalid parameters"
// @Router /scan [post]
func (h *handlers) scan(r *stdhttp.Request, in domain.ScanInput) (any, error) {
	return h.svc.Scan(r.Context(), in)
}

// swagger:route POST /scan/raw Scan scanRaw
// @Summary Scan a raw hex body
// @Description Body is plain hex text, gzip or s2 framed (Content-Type application/x-snappy-framed)
// @Tags Scan
// @Accept plain
// @Produce json
// @Param marker query string false "Marker" default(f6f6f62828)
// @Param period query number false "Expected period in bytes" default(16320)
// @Param tolerance query number false "Tolerance in bytes" default(1)
// @Param mode query string false "strict or lenient"
// @Param matcher query string false "automaton or naive"
// @Param lane query int false "Lane id"
// @Param persist query bool false "Persist the result"
// @Success 200 {object} domain.ScanResult "ok"
// @Failure 413 {object} httpkit.Envelope "stream too large"
// @Router /scan/raw [post]
func (h *handlers) raw(r *stdhttp.Request) (any, error) {
	in, err := queryInput(r)
	if err != nil {
		return nil, err
	}
	enc, err := hexio.FromHeaders(r.Header.Get("Content-Type"), r.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}
	body := stdhttp.MaxBytesReader(nil, r.Body, h.o.MaxBodyBytes)
	defer body.Close()

	// decoded text may carry whitespace, the digit limit is applied after parsing
	in.Stream, err = hexio.ReadAll(body, enc, h.o.MaxBodyBytes)
	if err != nil {
		return nil, err
	}
	return h.svc.Scan(r.Context(), in)
}

// swagger:route POST /scan/chart Scan scanChart
// @Summary Scan and chart the gaps
// @Tags Scan
// @Accept json
// @Produce png
// @Param payload body domain.ScanInput true "Stream and thresholds"
// @Success 200 {file} binary "PNG bar chart, green gaps on period"
// @Failure 422 {object} httpkit.Envelope "no gaps to chart"
// @Router /scan/chart [post]
func (h *handlers) chart(r *stdhttp.Request, in domain.ScanInput) (any, error) {
	res, err := h.svc.Scan(r.Context(), in)
	if err != nil {
		return nil, err
	}
	o := h.o.Chart
	o.PeriodBytes = res.Params.ExpectedPeriodBytes
	png, err := gapchart.PNG(res.Gaps, o)
	if err != nil {
		return nil, err
	}
	resp := httpkit.Bytes("image/png", png)
	resp.Header = stdhttp.Header{"X-Scan-Id": {res.ID.String()}}
	return resp, nil
}

// swagger:route GET /scan/recent Scan scanRecent
// @Summary Recently persisted scans
// @Tags Scan
// @Produce json
// @Param limit query int false "Max rows"
// @Success 200 {array} domain.ScanRecord "ok"
// @Router /scan/recent [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit, err := httpkit.QueryInt(r, "limit", 0)
	if err != nil {
		return nil, err
	}
	return h.svc.Recent(r.Context(), limit)
}

// swagger:route GET /scan/info Scan scanInfo
// @Summary Scanner defaults and limits
// @Tags Scan
// @Produce json
// @Success 200 {object} domain.ScannerInfo "ok"
// @Router /scan/info [get]
func (h *handlers) info(*stdhttp.Request) (any, error) {
	return h.svc.Info(), nil
}

// swagger:route GET /scan/{id} Scan scanGet
// @Summary Fetch a persisted scan
// @Tags Scan
// @Produce json
// @Param id path string true "Scan id"
// @Success 200 {object} domain.ScanResult "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /scan/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := uuid.Parse(httpkit.URLParam(r, "id"))
	if err != nil {
		return nil, perr.InvalidInputf("id", "id must be a uuid")
	}
	return h.svc.Get(r.Context(), id)
}

func queryInput(r *stdhttp.Request) (domain.ScanInput, error) {
	in := domain.ScanInput{
		Marker:  httpkit.QueryString(r, "marker", ""),
		Mode:    httpkit.QueryString(r, "mode", ""),
		Matcher: httpkit.QueryString(r, "matcher", ""),
	}
	var err error
	if in.LaneID, err = httpkit.QueryInt(r, "lane", 0); err != nil {
		return in, err
	}
	if in.PreviewDigits, err = httpkit.QueryInt(r, "preview", 0); err != nil {
		return in, err
	}
	if v := r.URL.Query().Get("period"); v != "" {
		f, err := httpkit.QueryFloat(r, "period", 0)
		if err != nil {
			return in, err
		}
		in.ExpectedPeriodBytes = &f
	}
	if v := r.URL.Query().Get("tolerance"); v != "" {
		f, err := httpkit.QueryFloat(r, "tolerance", 0)
		if err != nil {
			return in, err
		}
		in.ToleranceBytes = &f
	}
	if v := r.URL.Query().Get("persist"); v != "" {
		b, err := httpkit.QueryBool(r, "persist", false)
		if err != nil {
			return in, err
		}
		in.Persist = &b
	}
	// same checks the JSON body gets; stream is read after this
	return in, bind.Validate(in)
}
