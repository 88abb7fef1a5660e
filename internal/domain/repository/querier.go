package repository

import (
	"context"
	"database/sql"
)

// querier is the subset of *sql.DB and *sql.Tx the repositories use, so every
// method can run inside the caller's transaction or directly on the pool.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func conn(db *sql.DB, tx *sql.Tx) querier {
	if tx != nil {
		return tx
	}
	return db
}
