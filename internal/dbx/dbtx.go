// Package dbx provides the small database abstractions shared by the
// repositories: DBTX, satisfied by both *sql.DB and *sql.Tx, and helpers to
// run a function inside a transaction.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by the repositories.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is the unit of work executed by a TxRunner.
type TxFunc func(ctx context.Context, tx DBTX) error

// TxRunner executes fn atomically.
type TxRunner func(ctx context.Context, fn TxFunc) error

// NewTxRunner returns a TxRunner backed by WithTx on db.
func NewTxRunner(db *sql.DB, opts *sql.TxOptions) TxRunner {
	return func(ctx context.Context, fn TxFunc) error {
		return WithTx(ctx, db, opts, fn)
	}
}

// WithTx begins a transaction, runs fn with the transactional handle and
// commits on success. Any error or panic from fn rolls back; panics are
// rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
