package store

import (
	"context"
	"database/sql"
)

// DBTX is the querying surface the sqlite stores run against. Both
// *sql.DB and *sql.Tx satisfy it, so a store built over a plain
// connection can be rebound to a transaction when a batch must commit
// or roll back as one unit.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
