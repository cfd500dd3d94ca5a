// Package sqlite opens the SQLite catalog source through database/sql and the
// mattn/go-sqlite3 driver
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fishdash/internal/platform/store/trace"

	_ "github.com/mattn/go-sqlite3"
)

// Backend is the label reported on trace events
const Backend = "sqlite"

// DriverName is the database/sql driver registered by go-sqlite3
const DriverName = "sqlite3"

// Config configures the sqlite handle
type Config struct {
	// Path is a file path or a go-sqlite3 DSN such as file::memory:?cache=shared
	Path     string
	MaxConns int
	SlowMs   int
	ReadOnly bool
}

// SQLite is a database/sql handle with an optional tracer
type SQLite struct {
	DB     *sql.DB
	Tracer trace.Tracer
	SlowMs int
}

var sqlOpen = sql.Open

// Open opens and pings the database
func Open(ctx context.Context, cfg Config, tracer trace.Tracer) (*SQLite, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite: empty path")
	}
	dsn := cfg.Path
	if cfg.ReadOnly {
		dsn = withParam(dsn, "mode=ro")
	}

	db, err := sqlOpen(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", cfg.Path, err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", cfg.Path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}

	return &SQLite{DB: db, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Emitter returns the trace emitter for calls on this handle
func (s *SQLite) Emitter() trace.Emitter {
	return trace.Emitter{Backend: Backend, Tracer: s.Tracer, SlowMs: s.SlowMs}
}

// Close closes the handle; nil safe
func (s *SQLite) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

// withParam appends a uri parameter, switching plain paths to the file: form
func withParam(dsn, param string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + param
	}
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	return dsn + "?" + param
}
