// Package storage implements the repositories over PostgreSQL. Services
// depend on interfaces declared next to them; the types here are the pgx
// implementations injected at startup.
package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the minimal data-access contract the repositories run on.
// Both *pgxpool.Pool and pgx.Tx satisfy it, so the same query code works
// inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
