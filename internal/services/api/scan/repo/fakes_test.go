package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"otnanalyzer/internal/modkit/repokit"

	"github.com/google/uuid"
)

// fakeRows hands out canned rows; Scan copies by destination type
type fakeRows struct {
	data [][]any
	i    int
}

func (r *fakeRows) Next() bool {
	if r.i >= len(r.data) {
		return false
	}
	r.i++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.i-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d dest for %d cols", len(dest), len(row))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = row[i].(uuid.UUID)
		case *bool:
			*p = row[i].(bool)
		case *[]byte:
			*p = row[i].([]byte)
		default:
			return fmt.Errorf("scan: unsupported %T", d)
		}
	}
	return nil
}

func (r *fakeRows) Err() error        { return nil }
func (r *fakeRows) Close()            {}
func (r *fakeRows) Columns() []string { return nil }

type fakeQ struct {
	sqls []string
	args [][]any
	rows [][]any
	err  error
}

func (q *fakeQ) Exec(_ context.Context, sql string, args ...any) (repokit.CommandTag, error) {
	q.sqls = append(q.sqls, sql)
	q.args = append(q.args, args)
	return nil, q.err
}

func (q *fakeQ) Query(_ context.Context, sql string, args ...any) (repokit.Rows, error) {
	q.sqls = append(q.sqls, sql)
	q.args = append(q.args, args)
	if q.err != nil {
		return nil, q.err
	}
	return &fakeRows{data: q.rows}, nil
}

func (q *fakeQ) QueryRow(context.Context, string, ...any) repokit.Row { return nil }

type fakeCH struct {
	table string
	rows  [][]any
	execs []string
	err   error
}

func (c *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	c.table, c.rows = table, rows
	return c.err
}

func (c *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	c.execs = append(c.execs, strings.TrimSpace(sql))
	return c.err
}

func (c *fakeCH) Query(context.Context, string, ...any) (repokit.Rows, error) {
	return nil, errors.New("not used")
}

func (c *fakeCH) Close() error { return nil }

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
