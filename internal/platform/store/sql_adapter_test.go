package store

import (
	"context"
	"errors"
	"testing"

	"otnanalyzer/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxFakeRow struct{ err error }

func (r pgxFakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int); ok {
		*p = 7
	}
	return nil
}

// pgxFakeRows implements pgx.Rows over one int column
type pgxFakeRows struct {
	cols   []string
	data   []int
	idx    int
	closed bool
}

func (r *pgxFakeRows) Close()                        { r.closed = true }
func (r *pgxFakeRows) Err() error                    { return nil }
func (r *pgxFakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT 0") }
func (r *pgxFakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}
func (r *pgxFakeRows) Next() bool             { r.idx++; return r.idx <= len(r.data) }
func (r *pgxFakeRows) RawValues() [][]byte    { return nil }
func (r *pgxFakeRows) Values() ([]any, error) { return []any{r.data[r.idx-1]}, nil }
func (r *pgxFakeRows) Conn() *pgx.Conn        { return nil }
func (r *pgxFakeRows) Scan(dest ...any) error {
	*(dest[0].(*int)) = r.data[r.idx-1]
	return nil
}

// pgxFakeTx implements pgx.Tx; only the statement and commit methods do anything
type pgxFakeTx struct {
	execErr    error
	committed  bool
	rolledBack bool
}

func (f *pgxFakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}
func (f *pgxFakeTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return &pgxFakeRows{cols: []string{"n"}, data: []int{1, 2}}, nil
}
func (f *pgxFakeTx) QueryRow(context.Context, string, ...any) pgx.Row { return pgxFakeRow{} }
func (f *pgxFakeTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	return nil
}
func (f *pgxFakeTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not implemented")
}
func (f *pgxFakeTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }
func (f *pgxFakeTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not implemented")
}
func (f *pgxFakeTx) Conn() *pgx.Conn                           { return nil }
func (f *pgxFakeTx) Commit(context.Context) error              { f.committed = true; return nil }
func (f *pgxFakeTx) Rollback(context.Context) error            { f.rolledBack = true; return nil }
func (f *pgxFakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return f, nil }

type recTracer struct{ events []pg.QueryEvent }

func (r *recTracer) OnQuery(_ context.Context, ev pg.QueryEvent) { r.events = append(r.events, ev) }

func TestTraced_EmitsPerStatement(t *testing.T) {
	t.Parallel()

	rec := &recTracer{}
	q := traced{q: &pgxFakeTx{}, tracer: rec, slowUS: 0}
	ctx := context.Background()

	ct, err := q.Exec(ctx, "INSERT INTO scans VALUES ($1)", 1)
	if err != nil || ct.RowsAffected() != 1 || ct.String() != "INSERT 0 1" {
		t.Fatalf("Exec = %v, %v", ct, err)
	}

	rs, err := q.Query(ctx, "SELECT n")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if cols := rs.Columns(); len(cols) != 1 || cols[0] != "n" {
		t.Fatalf("Columns = %v", cols)
	}
	sum := 0
	for rs.Next() {
		var n int
		if err := rs.Scan(&n); err != nil {
			t.Fatalf("Scan: %v", err)
		}
		sum += n
	}
	rs.Close()
	if sum != 3 {
		t.Fatalf("sum = %d", sum)
	}

	var one int
	if err := q.QueryRow(ctx, "SELECT 7").Scan(&one); err != nil || one != 7 {
		t.Fatalf("QueryRow = %d, %v", one, err)
	}

	if len(rec.events) != 3 {
		t.Fatalf("events = %d, want 3", len(rec.events))
	}
	// slowUS 0 marks everything slow
	if !rec.events[0].Slow || rec.events[0].SQL != "INSERT INTO scans VALUES ($1)" {
		t.Fatalf("event = %+v", rec.events[0])
	}
}

func TestTraced_NoTracer(t *testing.T) {
	t.Parallel()

	q := traced{q: &pgxFakeTx{execErr: errors.New("boom")}}
	if _, err := q.Exec(context.Background(), "DELETE FROM scans"); err == nil {
		t.Fatalf("expected exec error")
	}
}

func TestRunTx_CommitAndRollback(t *testing.T) {
	t.Parallel()

	rec := &recTracer{}
	ok := &pgxFakeTx{}
	err := runTx(context.Background(), ok, traced{tracer: rec}, func(q RowQuerier) error {
		_, err := q.Exec(context.Background(), "INSERT INTO scans DEFAULT VALUES")
		return err
	})
	if err != nil || !ok.committed || ok.rolledBack {
		t.Fatalf("commit path: err=%v tx=%+v", err, ok)
	}
	if len(rec.events) != 1 {
		t.Fatalf("tx statements not traced")
	}

	bad := &pgxFakeTx{}
	sentinel := errors.New("nope")
	err = runTx(context.Background(), bad, traced{}, func(RowQuerier) error { return sentinel })
	if !errors.Is(err, sentinel) || bad.committed || !bad.rolledBack {
		t.Fatalf("rollback path: err=%v tx=%+v", err, bad)
	}
}

func TestPGAdapter_NilPing(t *testing.T) {
	t.Parallel()

	var a *pgAdapter
	if err := a.Ping(context.Background()); err == nil {
		t.Fatalf("expected nil adapter error")
	}
}
