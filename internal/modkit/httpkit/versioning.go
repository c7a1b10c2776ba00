package httpkit

import (
	"net/http"
	"strings"

	"otnanalyzer/internal/platform/net/middleware"
)

// MountAPI mounts a subrouter under /api/{version} with mw applied to every module,
// plus a GET {prefix}/ping heartbeat on r itself
//
//	httpkit.MountAPI(r, "v1", httpkit.CommonStack(httpkit.StackOptions{}), func(api httpkit.Router) {
//	  scan.MountRoutes(api)
//	})
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	prefix := "/api/" + strings.Trim(version, "/")
	MountUnder(r, prefix, mw, mount)
	// chi's heartbeat matches the full request path, so it lives on the root router
	r.Handle(prefix+"/ping", middleware.Heartbeat(prefix+"/ping")(http.NotFoundHandler()))
}

// MountAPIV1 is MountAPI with version v1
func MountAPIV1(r Router, mw []func(http.Handler) http.Handler, mount func(Router)) {
	MountAPI(r, "v1", mw, mount)
}
