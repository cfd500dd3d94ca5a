// Package store opens the optional sql backends the survey catalog can be read from
// and exposes them through one small query seam
package store

import (
	"context"
	"errors"
	"fmt"

	"fishdash/internal/platform/logger"
	"fishdash/internal/platform/store/trace"
)

// Store holds whichever backends were enabled. The zero value has none
type Store struct {
	Log    logger.Logger
	Tracer trace.Tracer // observes every sql call, nil disables

	PG     TxRunner // nil when disabled
	SQLite TxRunner // nil when disabled
}

// The seam below is what both adapters implement over pgx and database/sql.
// Placeholders are always $n; sqlite accepts them natively

type (
	// Row is a single row result
	Row interface {
		Scan(dest ...any) error
	}

	// Rows iterates a result set
	Rows interface {
		Next() bool
		Scan(dest ...any) error
		Err() error
		Close()
		Columns() []string
	}

	// CommandTag reports what an Exec changed
	CommandTag interface {
		String() string
		RowsAffected() int64
	}

	// RowQuerier is the surface repos run sql against
	RowQuerier interface {
		Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
		Query(ctx context.Context, sql string, args ...any) (Rows, error)
		QueryRow(ctx context.Context, sql string, args ...any) Row
	}

	// TxRunner runs fn inside a transaction, committing when it returns nil
	TxRunner interface {
		RowQuerier
		Tx(ctx context.Context, fn func(q RowQuerier) error) error
	}

	// Pinger is implemented by seams that can report readiness
	Pinger interface{ Ping(context.Context) error }
)

// Option adjusts a Store before any backend is opened
type Option func(*Store) error

// WithLogger sets the logger used for retries and LogSQL
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithTracer adds a query observer such as sql metrics. Repeated use stacks
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) error {
		s.Tracer = trace.Multi(s.Tracer, t)
		return nil
	}
}


// Open connects the backends cfg enables; the others stay nil. A failure
// closes whatever was already opened
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	if cfg.LogSQL {
		s.Tracer = trace.Multi(s.Tracer, trace.Log(s.Log))
	}

	var err error
	if cfg.PG.Enabled {
		if s.PG, err = openPG(ctx, cfg, s); err != nil {
			return nil, err
		}
	}
	if cfg.SQLite.Enabled {
		if s.SQLite, err = openSQLite(ctx, cfg, s); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

// ErrNoBackend is returned by SQL when no sql backend is enabled
var ErrNoBackend = errors.New("store: no sql backend enabled")

// Backend is one enabled sql seam and its name, "pg" or "sqlite"
type Backend struct {
	Name string
	DB   TxRunner
}

// Backends lists the enabled seams, postgres first
func (s *Store) Backends() []Backend {
	if s == nil {
		return nil
	}
	var out []Backend
	if s.PG != nil {
		out = append(out, Backend{Name: "pg", DB: s.PG})
	}
	if s.SQLite != nil {
		out = append(out, Backend{Name: "sqlite", DB: s.SQLite})
	}
	return out
}

// SQL returns the preferred sql seam and its backend name
func (s *Store) SQL() (TxRunner, string, error) {
	if bs := s.Backends(); len(bs) > 0 {
		return bs[0].DB, bs[0].Name, nil
	}
	return nil, "", ErrNoBackend
}

// Ping asks every seam that can answer. Failures are joined and prefixed
// with the backend name
func (s *Store) Ping(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil")
	}
	var errs []error
	for _, b := range s.Backends() {
		if p, ok := b.DB.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases every seam; a nil Store is a no op
func (s *Store) Close(_ context.Context) error {
	var errs []error
	for _, b := range s.Backends() {
		if c, ok := b.DB.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", b.Name, err))
			}
		}
	}
	return errors.Join(errs...)
}
