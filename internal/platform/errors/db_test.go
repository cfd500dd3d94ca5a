package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDBCode_Postgres(t *testing.T) {
	cases := map[string]ErrorCode{
		"42P01": ErrorCodeUnavailable, // surveys table missing
		"08006": ErrorCodeUnavailable,
		"57P03": ErrorCodeUnavailable,
		"23503": ErrorCodeInvalidArgument,
		"23505": ErrorCodeInvalidArgument,
		"22P02": ErrorCodeDB,
	}
	for code, want := range cases {
		err := fmt.Errorf("read surveys: %w", &pgconn.PgError{Code: code})
		if got := DBCode(err); got != want {
			t.Errorf("DBCode(%s) = %v, want %v", code, got, want)
		}
	}
}

func TestDBCode_SQLite(t *testing.T) {
	cases := map[string]ErrorCode{
		"no such table: surveys":              ErrorCodeUnavailable,
		"FOREIGN KEY constraint failed":       ErrorCodeInvalidArgument,
		"UNIQUE constraint failed: waters.id": ErrorCodeInvalidArgument,
		"disk I/O error":                      ErrorCodeDB,
	}
	for msg, want := range cases {
		if got := DBCode(stderrs.New(msg)); got != want {
			t.Errorf("DBCode(%q) = %v, want %v", msg, got, want)
		}
	}
	if DBCode(context.DeadlineExceeded) != ErrorCodeTimeout {
		t.Fatal("deadline is a timeout")
	}
}

func TestFromDB(t *testing.T) {
	if FromDB(nil, "x") != nil || FromDBf(nil, "x %d", 1) != nil {
		t.Fatal("nil stays nil")
	}

	err := FromDBf(stderrs.New("no such table: waters"), "surveys repo: read %s", "waters")
	if CodeOf(err) != ErrorCodeUnavailable {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if err.Error() != "surveys repo: read waters: no such table: waters" {
		t.Fatalf("render = %q", err.Error())
	}

	already := InvalidArgf("bad")
	if FromDB(already, "again") != already {
		t.Fatal("project errors are not rewrapped")
	}
	if _, ok := PgError(err); ok {
		t.Fatal("sqlite text is not a pg error")
	}
}
