package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fishdash/internal/platform/store/sqlite"
	"fishdash/internal/platform/store/trace"
)

// sqlConn is the query surface shared by *sql.DB and *sql.Tx
type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqliteAdapter wraps sqlite.SQLite and implements TxRunner over database/sql
type sqliteAdapter struct {
	s  *sqlite.SQLite
	em trace.Emitter
}

func newSQLiteAdapter(s *sqlite.SQLite) *sqliteAdapter {
	return &sqliteAdapter{s: s, em: s.Emitter()}
}

func (a *sqliteAdapter) Ping(ctx context.Context) error {
	if a == nil || a.s == nil || a.s.DB == nil {
		return errors.New("sqlite: nil adapter")
	}
	return a.s.DB.PingContext(ctx)
}

func (a *sqliteAdapter) Close() error { return a.s.Close() }

func (a *sqliteAdapter) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return sqlExec(ctx, a.s.DB, a.em, q, args)
}

func (a *sqliteAdapter) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return sqlQuery(ctx, a.s.DB, a.em, q, args)
}

func (a *sqliteAdapter) QueryRow(ctx context.Context, q string, args ...any) Row {
	return sqlQueryRow(ctx, a.s.DB, a.em, q, args)
}

func (a *sqliteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(sqlTxQuerier{tx: tx, em: a.em}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type sqlTxQuerier struct {
	tx *sql.Tx
	em trace.Emitter
}

func (t sqlTxQuerier) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return sqlExec(ctx, t.tx, t.em, q, args)
}

func (t sqlTxQuerier) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return sqlQuery(ctx, t.tx, t.em, q, args)
}

func (t sqlTxQuerier) QueryRow(ctx context.Context, q string, args ...any) Row {
	return sqlQueryRow(ctx, t.tx, t.em, q, args)
}

func sqlExec(ctx context.Context, c sqlConn, em trace.Emitter, q string, args []any) (CommandTag, error) {
	start := time.Now()
	res, err := c.ExecContext(ctx, q, args...)
	em.Emit(ctx, q, args, start, err)
	if err != nil {
		return sqlTag{}, err
	}
	n, _ := res.RowsAffected()
	return sqlTag{n: n}, nil
}

func sqlQuery(ctx context.Context, c sqlConn, em trace.Emitter, q string, args []any) (Rows, error) {
	start := time.Now()
	rs, err := c.QueryContext(ctx, q, args...)
	em.Emit(ctx, q, args, start, err)
	if err != nil {
		return nil, err
	}
	return &sqlRows{r: rs}, nil
}

func sqlQueryRow(ctx context.Context, c sqlConn, em trace.Emitter, q string, args []any) Row {
	start := time.Now()
	r := c.QueryRowContext(ctx, q, args...)
	return sqlRow{r: r, after: func(scanErr error) { em.Emit(ctx, q, args, start, scanErr) }}
}

type sqlRow struct {
	r     *sql.Row
	after func(error)
}

func (x sqlRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

// sqlRows keeps the first Columns error so Err can surface it
type sqlRows struct {
	r      *sql.Rows
	colErr error
}

func (x *sqlRows) Next() bool            { return x.r.Next() }
func (x *sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *sqlRows) Close()                { _ = x.r.Close() }

func (x *sqlRows) Err() error {
	if err := x.r.Err(); err != nil {
		return err
	}
	return x.colErr
}

func (x *sqlRows) Columns() []string {
	cols, err := x.r.Columns()
	if err != nil && x.colErr == nil {
		x.colErr = err
	}
	return cols
}

type sqlTag struct{ n int64 }

func (t sqlTag) String() string      { return fmt.Sprintf("ROWS %d", t.n) }
func (t sqlTag) RowsAffected() int64 { return t.n }
