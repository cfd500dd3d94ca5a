package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type tag string

func (t tag) String() string      { return string(t) }
func (t tag) RowsAffected() int64 { return 0 }

// recorder is a TxRunner that logs statements and fails the ones containing fail
type recorder struct {
	stmts []string
	txs   int
	fail  string
}

func (r *recorder) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	if r.fail != "" && strings.Contains(sql, r.fail) {
		return nil, errors.New("refused: " + sql)
	}
	return tag("OK"), nil
}

func (r *recorder) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (r *recorder) QueryRow(context.Context, string, ...any) Row        { return nil }

func (r *recorder) Tx(ctx context.Context, fn func(Queryer) error) error {
	r.txs++
	return fn(r)
}

type waterRepo struct{ q Queryer }

func TestReadTx_BindsInsideTransaction(t *testing.T) {
	rec := &recorder{}
	b := BindFunc[waterRepo](func(q Queryer) waterRepo { return waterRepo{q: q} })

	err := ReadTx(context.Background(), rec, b, func(r waterRepo) error {
		_, err := r.q.Exec(context.Background(), "select 1 from waters")
		return err
	})
	if err != nil {
		t.Fatalf("ReadTx: %v", err)
	}
	if rec.txs != 1 || len(rec.stmts) != 1 {
		t.Fatalf("txs=%d stmts=%v", rec.txs, rec.stmts)
	}
}

func TestWithBeginHooks_RunBeforeFn(t *testing.T) {
	rec := &recorder{}
	db := WithBeginHooks(rec, PGReadOnly(), PGStatementTimeout(1500*time.Millisecond))

	err := WithTx(context.Background(), db, func(q Queryer) error {
		_, err := q.Exec(context.Background(), "select count(*) from surveys")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	want := []string{
		"set transaction read only",
		"set local statement_timeout = 1500",
		"select count(*) from surveys",
	}
	if strings.Join(rec.stmts, "|") != strings.Join(want, "|") {
		t.Fatalf("statements = %q", rec.stmts)
	}

	// outside a transaction the hooks stay out of the way
	rec.stmts = nil
	if _, err := db.Exec(context.Background(), "select 1"); err != nil || len(rec.stmts) != 1 {
		t.Fatalf("plain exec ran %q err=%v", rec.stmts, err)
	}
}

func TestWithBeginHooks_FailingHookSkipsFn(t *testing.T) {
	rec := &recorder{fail: "read only"}
	db := WithBeginHooks(rec, PGReadOnly())

	called := false
	err := db.Tx(context.Background(), func(Queryer) error { called = true; return nil })
	if err == nil || called {
		t.Fatalf("expected hook failure to stop fn, err=%v called=%v", err, called)
	}
}

func TestWithBeginHooks_NoHooksAndZeroTimeout(t *testing.T) {
	rec := &recorder{}
	if WithBeginHooks(rec) != TxRunner(rec) {
		t.Fatal("no hooks returns inner unchanged")
	}
	db := WithBeginHooks(rec, PGStatementTimeout(0))
	if err := db.Tx(context.Background(), func(Queryer) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if len(rec.stmts) != 0 {
		t.Fatalf("zero timeout must not issue a statement: %q", rec.stmts)
	}
}
