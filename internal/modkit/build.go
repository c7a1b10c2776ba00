package modkit

import (
	"net/http"

	phttp "otnanalyzer/internal/platform/net/http"
)

// Built is the resolved option set a module constructor reads
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(phttp.Router)
}

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(phttp.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount runs the shared MountRoutes body: prefix route, middlewares, then register
func (b Built) Mount(r phttp.Router, register func(phttp.Router)) {
	r.Route(b.Prefix, func(rr phttp.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		register(rr)
		b.Register(rr)
	})
}
