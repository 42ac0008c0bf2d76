package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// WithTransaction function:
//     Begin transaction from the connection pool
//     Deferred rollback fires when:
//         fn returns an error
//         fn panics (panic is re-thrown after rollback)
//     Commit only when fn succeeds

// Querier is satisfied by both *sqlx.DB and *sqlx.Tx so repositories can run
// the same statement inside or outside a transaction.
type Querier = sqlx.ExtContext

// TxFunc is executed inside a transaction
type TxFunc func(tx *sqlx.Tx) error

// WithTransaction wraps fn in a transaction.
// Rollback on error or panic, commit on success.
func WithTransaction(ctx context.Context, db *sqlx.DB, fn TxFunc) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithTransactionResult wraps a function with a return value in a transaction
func WithTransactionResult[T any](ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) (T, error)) (T, error) {
	var result T

	err := WithTransaction(ctx, db, func(tx *sqlx.Tx) error {
		var fnErr error
		result, fnErr = fn(tx)
		return fnErr
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
