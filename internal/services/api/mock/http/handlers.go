// Package http provides http transport for mock data
package http

import (
	"bytes"
	stdhttp "net/http"
	"strconv"

	"otnanalyzer/internal/adapters/hexio"
	"otnanalyzer/internal/modkit/httpkit"
	perr "otnanalyzer/internal/platform/errors"
	"otnanalyzer/internal/services/api/mock/service"
)

// Register mounts mock endpoints on the given router
func Register(r httpkit.Router, s *service.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/stream", h.stream)
	httpkit.Get(r, "/gaps", h.gaps)
}

type handlers struct{ svc *service.Service }

// swagger:route GET /mock/stream Mock mockStream
// @Summary Generate a seeded hex stream
// @Description kind=random inserts the marker with insert_prob per digit; kind=framed places frames markers period bytes apart
// @Tags Mock
// @Produce json
// @Produce plain
// @Param seed query int false "Seed, 0 picks one"
// @Param kind query string false "random or framed" default(random)
// @Param marker query string false "Marker" default(f6f6f62828)
// @Param digits query int false "Digits for random" default(1000)
// @Param insert_prob query number false "Marker insert probability" default(0.01)
// @Param frames query int false "Markers for framed" default(8)
// @Param period query int false "Frame period in bytes" default(16320)
// @Param jitter_prob query number false "Chance a gap is off period"
// @Param jitter_max query int false "Max jitter in bytes"
// @Param encoding query string false "json, plain, gzip or s2" default(json)
// @Success 200 {object} service.Stream "ok"
// @Failure 413 {object} httpkit.Envelope "over limit"
// @Router /mock/stream [get]
func (h *handlers) stream(r *stdhttp.Request) (any, error) {
	var (
		in  service.StreamInput
		err error
	)
	in.Kind = httpkit.QueryString(r, "kind", "")
	in.Marker = httpkit.QueryString(r, "marker", "")
	if in.Seed, err = httpkit.QueryUint64(r, "seed", 0); err != nil {
		return nil, err
	}
	if in.Digits, err = httpkit.QueryInt(r, "digits", 0); err != nil {
		return nil, err
	}
	if in.InsertProb, err = httpkit.QueryFloat(r, "insert_prob", 0); err != nil {
		return nil, err
	}
	if in.Frames, err = httpkit.QueryInt(r, "frames", 0); err != nil {
		return nil, err
	}
	if in.PeriodBytes, err = httpkit.QueryInt(r, "period", 0); err != nil {
		return nil, err
	}
	if in.JitterProb, err = httpkit.QueryFloat(r, "jitter_prob", 0); err != nil {
		return nil, err
	}
	if in.JitterMaxBytes, err = httpkit.QueryInt(r, "jitter_max", 0); err != nil {
		return nil, err
	}

	out, err := h.svc.Stream(in)
	if err != nil {
		return nil, err
	}

	enc := httpkit.QueryString(r, "encoding", "json")
	if enc == "json" {
		return out, nil
	}
	e, err := hexio.ParseEncoding(enc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := hexio.NewWriter(&buf, e)
	if _, err := w.Write([]byte(out.Stream)); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "encode stream")
	}
	if err := w.Close(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "encode stream")
	}
	resp := httpkit.Bytes(contentType(e), buf.Bytes())
	resp.Header = stdhttp.Header{
		"X-Mock-Seed":   {strconv.FormatUint(out.Seed, 10)},
		"X-Mock-Digits": {strconv.Itoa(out.Digits)},
	}
	return resp, nil
}

func contentType(e hexio.Encoding) string {
	switch e {
	case hexio.S2:
		return hexio.ContentTypeS2
	case hexio.Gzip:
		return "application/gzip"
	default:
		return "text/plain; charset=utf-8"
	}
}

// swagger:route GET /mock/gaps Mock mockGaps
// @Summary Generate mock gap records
// @Description About 30% of gaps sit exactly on the period, the rest are uniform in 8000..27999 bytes
// @Tags Mock
// @Produce json
// @Param seed query int false "Seed, 0 picks one"
// @Param n query int false "Gap count" default(20)
// @Param period query int false "Period in bytes" default(16320)
// @Success 200 {object} service.GapList "ok"
// @Router /mock/gaps [get]
func (h *handlers) gaps(r *stdhttp.Request) (any, error) {
	seed, err := httpkit.QueryUint64(r, "seed", 0)
	if err != nil {
		return nil, err
	}
	n, err := httpkit.QueryInt(r, "n", 0)
	if err != nil {
		return nil, err
	}
	period, err := httpkit.QueryInt(r, "period", 0)
	if err != nil {
		return nil, err
	}
	return h.svc.Gaps(seed, n, period)
}
