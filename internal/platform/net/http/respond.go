// Package http provides the chi backed router seam and JSON response helpers
package http

import (
	"encoding/json"
	stdhttp "net/http"

	lumnet "otnanalyzer/internal/platform/net"
)

// Envelope is the standard response body for all JSON endpoints
type Envelope = lumnet.Wire

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondError maps a project error into an envelope and writes it
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, env := lumnet.Error(err, lumnet.RequestID(r.Context()))
	JSON(w, status, env)
}

// Response is a functional response object for return-style handlers
// Raw bodies bypass the envelope and are written with ContentType
type Response struct {
	Status      int
	Body        any
	Raw         []byte
	ContentType string
	Header      stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	reqID := lumnet.RequestID(r.Context())

	// error bodies decide their own status
	if err, ok := resp.Body.(error); ok && err != nil {
		st, env := lumnet.Error(err, reqID)
		JSON(w, st, env)
		return
	}

	if resp.Raw != nil {
		ct := resp.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(status)
		_, _ = w.Write(resp.Raw)
		return
	}

	st, env := lumnet.Success(status, resp.Body, reqID)
	JSON(w, st, env)
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created returns a 201 response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response that maps the error to status and envelope
func Error(err error) Response { return Response{Body: err} }

// Bytes returns a 200 response with a raw body such as a PNG
func Bytes(contentType string, b []byte) Response {
	return Response{Status: stdhttp.StatusOK, Raw: b, ContentType: contentType}
}
