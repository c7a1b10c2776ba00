package http_test

import (
	"context"
	"testing"
	"time"

	"otnanalyzer/internal/platform/config"
	phttp "otnanalyzer/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func TestNewServerAddr(t *testing.T) {
	cfg := config.New().Prefix("TSRV_")
	if got := phttp.NewServer(cfg).Addr(); got != ":4000" {
		t.Fatalf("default addr = %q", got)
	}
	t.Setenv("TSRV_PORT", "8088")
	if got := phttp.NewServer(cfg).Addr(); got != ":8088" {
		t.Fatalf("port addr = %q", got)
	}
	t.Setenv("TSRV_ADDR", "127.0.0.1:0")
	if got := phttp.NewServer(cfg).Addr(); got != "127.0.0.1:0" {
		t.Fatalf("addr override = %q", got)
	}
}

func TestServerRunStopsOnContext(t *testing.T) {
	t.Setenv("TRUN_ADDR", "127.0.0.1:0")
	called := false
	srv := phttp.NewServer(config.New().Prefix("TRUN_"), func(*chi.Mux) { called = true })
	if !called {
		t.Fatalf("option not invoked")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestServerRunListenError(t *testing.T) {
	t.Setenv("TBAD_ADDR", "256.0.0.1:99999")
	srv := phttp.NewServer(config.New().Prefix("TBAD_"))
	if err := srv.Run(context.Background()); err == nil {
		t.Fatalf("expected listen error")
	}
}
