// Package postgres implements the SqlConnector contract over
// github.com/lib/pq. Every acquired connection is forced read-only and
// statement-timed-out before use, and both settings are reset before the
// connection returns to the pool, so a leaked writable or unbounded
// connection can never reach a later request.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/groundedquery/core/genai/telemetry"
	"github.com/groundedquery/core/genai/toolruntime"
)

// Connector pools connections to a single Postgres database and enforces
// the read-only/statement-timeout discipline on every query.
type Connector struct {
	db *sql.DB
}

// Open dials dsn (a postgres:// URL or libpq keyword string) and verifies
// connectivity.
func Open(ctx context.Context, dsn string) (*Connector, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connector: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Connector{db: db}, nil
}

// Query runs req.Sql, which the SQL Safety Gate has already validated as a
// single SELECT with an injected LIMIT, over a connection pinned read-only
// with a statement timeout for the duration of this call.
func (c *Connector) Query(ctx context.Context, req toolruntime.SqlQueryRequest) (*toolruntime.SqlQueryResult, error) {
	conn, err := c.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer c.release(ctx, conn)

	if _, err := conn.ExecContext(ctx, "SET statement_timeout = 30000"); err != nil {
		return nil, fmt.Errorf("setting statement_timeout: %w", err)
	}
	if _, err := conn.ExecContext(ctx, "SET default_transaction_read_only = ON"); err != nil {
		return nil, fmt.Errorf("setting default_transaction_read_only: %w", err)
	}

	rows, err := conn.QueryContext(ctx, req.Sql)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	result := &toolruntime.SqlQueryResult{Columns: columns}
	for rows.Next() {
		scanned := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range scanned {
			ptrs[i] = &scanned[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		result.Rows = append(result.Rows, scanned)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	result.RowCount = len(result.Rows)
	return result, nil
}

// release resets the read-only and statement-timeout settings before the
// connection returns to the pool. A failure to reset is logged but never
// fails the request that triggered it, matching the best-effort reset rule.
func (c *Connector) release(ctx context.Context, conn *sql.Conn) {
	if _, err := conn.ExecContext(ctx, "SET default_transaction_read_only = OFF"); err != nil {
		telemetry.Warnf("sqlconnector.postgres", "failed to reset default_transaction_read_only: %v", err)
	}
	if _, err := conn.ExecContext(ctx, "SET statement_timeout = 0"); err != nil {
		telemetry.Warnf("sqlconnector.postgres", "failed to reset statement_timeout: %v", err)
	}
	conn.Close()
}

// TestConnection pings the pool.
func (c *Connector) TestConnection(ctx context.Context) (*toolruntime.TestConnectionResult, error) {
	if err := c.db.PingContext(ctx); err != nil {
		return &toolruntime.TestConnectionResult{Ok: false, Error: err.Error()}, nil
	}
	return &toolruntime.TestConnectionResult{Ok: true}, nil
}

// Disconnect closes the pool.
func (c *Connector) Disconnect() error {
	return c.db.Close()
}
