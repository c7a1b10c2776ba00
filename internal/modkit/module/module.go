// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "otnanalyzer/internal/platform/net/http"
)

// Module mirrors modkit.Module; a sibling package so service packages can
// look up each other's ports without importing modkit
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
