package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// fakeTx satisfies TxRunner; it pings only when ping is set
type fakeTx struct{ fakeRowQuerier }

func (f *fakeTx) Tx(ctx context.Context, fn func(q RowQuerier) error) error { return fn(f) }

type fakeTxPing struct {
	fakeTx
	err    error
	closed bool
}

func (f *fakeTxPing) Ping(context.Context) error { return f.err }
func (f *fakeTxPing) Close() error               { f.closed = true; return nil }

type fakeCH struct {
	pingErr  error
	closeErr error
}

func (f *fakeCH) Insert(context.Context, string, [][]any) error   { return nil }
func (f *fakeCH) Exec(context.Context, string, ...any) error       { return nil }
func (f *fakeCH) Query(context.Context, string, ...any) (Rows, error) { return &fakeRows{}, nil }
func (f *fakeCH) Close() error                                     { return f.closeErr }
func (f *fakeCH) Ping(context.Context) error                       { return f.pingErr }

func TestOpen_CHOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := Open(ctx, Config{CH: CHConfig{Enabled: true, URL: "clickhouse://localhost:9000/otn", ClientTag: "test"}})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.CH == nil || s.PG != nil {
		t.Fatalf("seams: PG=%T CH=%T", s.PG, s.CH)
	}
	if !s.Enabled() {
		t.Fatalf("Enabled() false with CH set")
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_PGBadURL(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{
		PG: PGConfig{Enabled: true, URL: "://bad"},
		CH: CHConfig{Enabled: true, URL: "clickhouse://localhost:9000/otn"},
	})
	if err == nil || s != nil {
		t.Fatalf("want error and nil store, got %v %#v", err, s)
	}
}

func TestOpen_CHBadURL(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{CH: CHConfig{Enabled: true}}); err == nil {
		t.Fatalf("want empty url error")
	}
}

func TestOpen_EmptyWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s, err := Open(context.Background(), Config{}, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Log.Info().Msg("hello")
	if buf.Len() == 0 {
		t.Fatalf("logger option not applied")
	}
	if s.Enabled() {
		t.Fatalf("empty store reports enabled")
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_OptionError(t *testing.T) {
	t.Parallel()

	bad := func(*Store) error { return errors.New("nope") }
	if _, err := Open(context.Background(), Config{}, bad); err == nil {
		t.Fatalf("option error swallowed")
	}
}

func TestGuard(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var nilStore *Store
	if err := nilStore.Guard(ctx); err == nil {
		t.Fatalf("nil store passed guard")
	}
	if err := (&Store{}).Guard(ctx); err != nil {
		t.Fatalf("empty store: %v", err)
	}
	if err := (&Store{PG: &fakeTx{}}).Guard(ctx); err != nil {
		t.Fatalf("non pinger PG should be skipped: %v", err)
	}

	s := &Store{
		PG: &fakeTxPing{err: errors.New("pg down")},
		CH: &fakeCH{pingErr: errors.New("ch down")},
	}
	err := s.Guard(ctx)
	if err == nil {
		t.Fatalf("want joined error")
	}
	for _, want := range []string{"pg: pg down", "ch: ch down"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("guard error %q missing %q", err, want)
		}
	}
}

func TestClose_JoinsErrors(t *testing.T) {
	t.Parallel()

	pg := &fakeTxPing{}
	s := &Store{PG: pg, CH: &fakeCH{closeErr: errors.New("ch close")}}
	err := s.Close(context.Background())
	if err == nil || !pg.closed {
		t.Fatalf("Close err=%v pgClosed=%v", err, pg.closed)
	}
}
