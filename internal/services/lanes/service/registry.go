package service

import (
	"slices"

	"otnanalyzer/internal/core/lanes"
	"otnanalyzer/internal/services/lanes/domain"

	"github.com/puzpuzpuz/xsync/v3"
)

// Registry holds the latest detail per lane; readers never block the refresher
type Registry struct {
	m *xsync.MapOf[int, domain.Detail]
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry { return &Registry{m: xsync.NewMapOf[int, domain.Detail]()} }

// Put replaces a lane's detail
func (r *Registry) Put(d domain.Detail) { r.m.Store(d.ID, d) }

// Get returns a lane's detail
func (r *Registry) Get(id int) (domain.Detail, bool) { return r.m.Load(id) }

// Trim drops lanes with an id above n
func (r *Registry) Trim(n int) {
	r.m.Range(func(id int, _ domain.Detail) bool {
		if id > n {
			r.m.Delete(id)
		}
		return true
	})
}

// Lanes lists lanes ordered by id
func (r *Registry) Lanes() []lanes.Lane {
	out := make([]lanes.Lane, 0, r.m.Size())
	r.m.Range(func(_ int, d domain.Detail) bool {
		out = append(out, d.Lane)
		return true
	})
	slices.SortFunc(out, func(a, b lanes.Lane) int { return a.ID - b.ID })
	return out
}

// Len is the number of lanes held
func (r *Registry) Len() int { return r.m.Size() }
