// Package repokit is the narrow sql surface service repos bind to. It aliases
// the platform store seams so repos never import a driver
package repokit

import (
	"context"

	"fishdash/internal/platform/store"
)

type (
	// Queryer is what a bound repo reads and writes through
	Queryer = store.RowQuerier

	// TxRunner is a Queryer that can also open a transaction
	TxRunner = store.TxRunner

	// Rows is a result set
	Rows = store.Rows

	// Row is a single row result
	Row = store.Row

	// CommandTag reports what an Exec changed
	CommandTag = store.CommandTag
)

// Binder binds a repo implementation to a Queryer, usually the tx bound one
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor to Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// WithTx runs fn inside a transaction on db
func WithTx(ctx context.Context, db TxRunner, fn func(q Queryer) error) error {
	return db.Tx(ctx, fn)
}

// ReadTx binds b inside a transaction on db and hands the repo to fn
func ReadTx[T any](ctx context.Context, db TxRunner, b Binder[T], fn func(T) error) error {
	return db.Tx(ctx, func(q Queryer) error { return fn(b.Bind(q)) })
}

// Many scans every row of sql with scan
func Many[T any](ctx context.Context, q Queryer, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	return store.Many(ctx, q, scan, sql, args...)
}
