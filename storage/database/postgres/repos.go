// Package pgrepos implements the core repositories on PostgreSQL. Each Replace runs in one
// transaction: the table is emptied and refilled in order, so readers see the old or the new
// collection and never a mix.
package pgrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// replace swaps the content of table for rows inside a transaction. insert is a named query.
func replace(ctx context.Context, db *sqlx.DB, table, insert string, rows []interface{}) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return errors.Wrapf(err, "clearing %s", table)
	}
	for _, row := range rows {
		if _, err = tx.NamedExecContext(ctx, insert, row); err != nil {
			return errors.Wrapf(err, "inserting into %s", table)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	return nil
}
