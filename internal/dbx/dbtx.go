// Package dbx holds the small database plumbing shared by the certledger
// repositories: a query interface satisfied by both *sql.DB and *sql.Tx,
// and a transaction wrapper.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the query surface the repositories depend on. Passing a *sql.Tx
// instead of the *sql.DB runs the same repository code transactionally.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit when fn returns nil, rollback
// when it returns an error or panics (the panic is rethrown).
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    repo, _ := certificates.NewPostgresRepository(tx)
//	    return repo.UpsertIssued(ctx, cert)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
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
