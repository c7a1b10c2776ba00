package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"otnanalyzer/internal/core/frame"
	"otnanalyzer/internal/core/lanes"
	perr "otnanalyzer/internal/platform/errors"
	phttp "otnanalyzer/internal/platform/net/http"
	"otnanalyzer/internal/services/lanes/domain"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLanes struct {
	roster    []lanes.Lane
	refreshed int
}

func (f *fakeLanes) Snapshot() domain.Snapshot {
	return domain.Snapshot{Totals: lanes.Overview(f.roster), Lanes: f.roster, Tick: uint64(f.refreshed)}
}

func (f *fakeLanes) Lane(id int) (domain.Detail, error) {
	for _, l := range f.roster {
		if l.ID == id {
			return domain.Detail{Lane: l, Digits: 100}, nil
		}
	}
	return domain.Detail{}, perr.NotFoundf("lane %d", id)
}

func (f *fakeLanes) Refresh(context.Context) (domain.Snapshot, error) {
	f.refreshed++
	return f.Snapshot(), nil
}

func serve(t *testing.T, f *fakeLanes, method, path string, out any) int {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	r.Route("/lanes", func(rr phttp.Router) { Register(rr, f, f) })

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	if out != nil && rec.Code == http.StatusOK {
		env := struct {
			Data any `json:"data"`
		}{Data: out}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code
}

func TestLanesRoutes(t *testing.T) {
	f := &fakeLanes{roster: []lanes.Lane{
		{ID: 1, Status: frame.InFrame, Active: true, PatternCount: 10},
		{ID: 2, Status: frame.OutOfFrame, Active: true, PatternCount: 3},
	}}

	var snap domain.Snapshot
	require.Equal(t, http.StatusOK, serve(t, f, http.MethodGet, "/lanes", &snap))
	assert.Len(t, snap.Lanes, 2)
	assert.Equal(t, lanes.StatusDegraded, snap.Totals.Status)
	assert.Equal(t, 7, snap.Totals.AvgPatternsPerLane)

	var d domain.Detail
	require.Equal(t, http.StatusOK, serve(t, f, http.MethodGet, "/lanes/2", &d))
	assert.Equal(t, 2, d.ID)
	assert.Equal(t, frame.OutOfFrame, d.Status)
	assert.Equal(t, 100, d.Digits)

	assert.Equal(t, http.StatusNotFound, serve(t, f, http.MethodGet, "/lanes/9", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, serve(t, f, http.MethodGet, "/lanes/abc", nil))

	require.Equal(t, http.StatusOK, serve(t, f, http.MethodPost, "/lanes/refresh", &snap))
	assert.Equal(t, uint64(1), snap.Tick)
}
