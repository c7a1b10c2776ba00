// Package ch provides a clickhouse client over clickhouse-go/v2 native protocol
package ch

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the clickhouse client
// URL is a clickhouse DSN, e.g. clickhouse://default:@localhost:9000/otn
type Config struct {
	URL          string
	ClientName   string
	ClientTag    string
	MaxOpenConns int
	DialTimeout  time.Duration
}

// Rows is the minimal result set iteration for ch; driver.Rows satisfies it
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

type batch interface {
	Append(v ...any) error
	Send() error
	Abort() error
}

// conn is the slice of driver.Conn the client uses
type conn interface {
	prepare(ctx context.Context, query string) (batch, error)
	query(ctx context.Context, query string, args ...any) (Rows, error)
	exec(ctx context.Context, query string, args ...any) error
	ping(ctx context.Context) error
	close() error
}

type driverConn struct{ c driver.Conn }

func (d driverConn) prepare(ctx context.Context, q string) (batch, error) { return d.c.PrepareBatch(ctx, q) }
func (d driverConn) query(ctx context.Context, q string, args ...any) (Rows, error) {
	return d.c.Query(ctx, q, args...)
}
func (d driverConn) exec(ctx context.Context, q string, args ...any) error { return d.c.Exec(ctx, q, args...) }
func (d driverConn) ping(ctx context.Context) error                       { return d.c.Ping(ctx) }
func (d driverConn) close() error                                         { return d.c.Close() }

// CH is a clickhouse client
type CH struct {
	c conn
}

var openConn = func(opts *clickhouse.Options) (conn, error) {
	c, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}
	return driverConn{c: c}, nil
}

// Open parses the DSN and dials lazily; callers Ping to verify connectivity
func Open(_ context.Context, cfg Config) (*CH, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("ch: empty url")
	}
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)
	if cfg.MaxOpenConns > 0 {
		opts.MaxOpenConns = cfg.MaxOpenConns
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	c, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	return &CH{c: c}, nil
}

// Insert appends rows to table in a single native batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	b, err := c.c.prepare(ctx, "INSERT INTO "+table)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := b.Append(r...); err != nil {
			_ = b.Abort()
			return err
		}
	}
	return b.Send()
}

// Exec runs a statement without results (DDL, mutations)
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	return c.c.exec(ctx, sql, args...)
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.c.query(ctx, sql, args...)
}

// Ping checks the server answers
func (c *CH) Ping(ctx context.Context) error {
	if c == nil || c.c == nil {
		return errors.New("ch: nil client")
	}
	return c.c.ping(ctx)
}

// Close closes resources
func (c *CH) Close() error {
	if c == nil || c.c == nil {
		return nil
	}
	return c.c.close()
}
