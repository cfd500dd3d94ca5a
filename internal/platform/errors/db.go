package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var contextDeadline = context.DeadlineExceeded

// SQLSTATE classes and codes the catalog readers and the seeder can hit
const (
	pgClassConnection = "08"

	pgUndefinedTable      = "42P01"
	pgUndefinedColumn     = "42703"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgCannotConnectNow    = "57P03"
	pgAdminShutdown       = "57P01"
	pgReadOnlyTx          = "25006"
)

// PgError returns the *pgconn.PgError at the root of err
func PgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// DBCode classifies a postgres or sqlite error
//
//   - missing schema or an unreachable server is ErrorCodeUnavailable so a
//     catalog source that was never seeded answers 503
//   - constraint violations while seeding are ErrorCodeInvalidArgument
//   - everything else is ErrorCodeDB
func DBCode(err error) ErrorCode {
	if err == nil {
		return ErrorCodeUnknown
	}
	if stderrs.Is(err, context.DeadlineExceeded) {
		return ErrorCodeTimeout
	}
	if pgErr, ok := PgError(err); ok {
		switch {
		case pgErr.Code == pgUndefinedTable, pgErr.Code == pgUndefinedColumn,
			pgErr.Code == pgCannotConnectNow, pgErr.Code == pgAdminShutdown,
			pgErr.Code == pgReadOnlyTx, strings.HasPrefix(pgErr.Code, pgClassConnection):
			return ErrorCodeUnavailable
		case pgErr.Code == pgForeignKeyViolation, pgErr.Code == pgUniqueViolation,
			pgErr.Code == pgNotNullViolation, pgErr.Code == pgCheckViolation:
			return ErrorCodeInvalidArgument
		}
		return ErrorCodeDB
	}
	return sqliteCode(Root(err).Error())
}

// sqliteCode matches the messages go-sqlite3 surfaces; the driver is cgo and
// stays out of this package
func sqliteCode(msg string) ErrorCode {
	s := strings.ToLower(msg)
	switch {
	case strings.Contains(s, "no such table"), strings.Contains(s, "no such column"),
		strings.Contains(s, "unable to open database"), strings.Contains(s, "database is locked"),
		strings.Contains(s, "attempt to write a readonly database"):
		return ErrorCodeUnavailable
	case strings.Contains(s, "constraint failed"):
		return ErrorCodeInvalidArgument
	}
	return ErrorCodeDB
}

// FromDB wraps a backend error with its DBCode. nil stays nil
func FromDB(err error, msg string) error {
	if err == nil {
		return nil
	}
	if _, ok := As(err); ok {
		return err
	}
	return Wrap(err, DBCode(err), msg)
}

// FromDBf is FromDB with a format
func FromDBf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return FromDB(err, fmt.Sprintf(format, a...))
}
