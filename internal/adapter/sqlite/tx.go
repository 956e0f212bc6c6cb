package sqlite

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx returns a context carrying tx.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFrom returns the transaction of the repository write ctx belongs to, if
// any. Hooks passed to ServiceRepository receive such a context.
func TxFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok && tx != nil
}

// runHook calls hook, if set, with a context carrying tx.
func runHook(ctx context.Context, tx *sql.Tx, hook func(context.Context) error) error {
	if hook == nil {
		return nil
	}
	return hook(WithTx(ctx, tx))
}
