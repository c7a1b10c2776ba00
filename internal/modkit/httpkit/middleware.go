package httpkit

import (
	"net/http"
	"time"

	"otnanalyzer/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack; zero values pick defaults
type StackOptions struct {
	Timeout time.Duration
	CORS    middleware.CORSOptions
}

// CommonStack returns the baseline middleware for the versioned API router
// request id, access log, recovery, timeout and compression come from middleware.Defaults
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	stack := middleware.Defaults(timeout)
	return append(stack, middleware.CORS(o.CORS))
}
