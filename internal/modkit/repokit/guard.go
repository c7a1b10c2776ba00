package repokit

import (
	"context"
	"fmt"
	"time"
)

// StartupTimeout bounds a startup check whose context carries no deadline
const StartupTimeout = 5 * time.Second

// Pinger is a backend that can report readiness
type Pinger interface {
	Ping(context.Context) error
}

type guarder interface {
	Enabled() bool
	Guard(context.Context) error
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

// MustPing panics when backend is nil or does not answer before StartupTimeout
func MustPing(ctx context.Context, name string, backend Pinger) {
	if backend == nil {
		panic(fmt.Sprintf("%s: nil dependency", name))
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, StartupTimeout)
		defer cancel()
	}
	if err := backend.Ping(ctx); err != nil {
		panic(fmt.Sprintf("%s ping failed: %v", name, err))
	}
}

// MustGuard pings every enabled backend of st once at startup and panics on failure.
// A store with nothing enabled keeps scans in memory and is not contacted.
func MustGuard(ctx context.Context, st guarder) {
	if st == nil || !st.Enabled() {
		return
	}
	MustPing(ctx, "storage", pingFunc(st.Guard))
}
