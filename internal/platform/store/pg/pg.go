// Package pg opens the Postgres catalog source on a pgxpool with optional query tracing
package pg

import (
	"context"
	"fmt"
	"time"

	"fishdash/internal/platform/store/trace"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Backend is the label reported on trace events
const Backend = "pg"

// Config configures the pool
type Config struct {
	URL      string
	AppName  string
	MaxConns int32
	SlowMs   int
}

// PG is a pool plus the tracer its adapter reports to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer trace.Tracer
	SlowMs int
}

var (
	newPool  = pgxpool.NewWithConfig
	pingPool = func(ctx context.Context, p *pgxpool.Pool) error { return p.Ping(ctx) }
	sleep    = time.Sleep
)

// Open parses cfg.URL and builds the pool. Connections are lazy, see WaitReady
func Open(ctx context.Context, cfg Config, tracer trace.Tracer) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		if pcfg.ConnConfig.RuntimeParams == nil {
			pcfg.ConnConfig.RuntimeParams = map[string]string{}
		}
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Retry bounds WaitReady
type Retry struct {
	Attempts    int           // default 20
	PingTimeout time.Duration // default 3s
	// OnRetry is told about every failed attempt but the last
	OnRetry func(attempt int, err error)
}

// WaitReady pings the pool with doubling backoff until it answers, ctx ends or
// attempts run out. Boot pings bypass the tracer
func (p *PG) WaitReady(ctx context.Context, r Retry) error {
	if r.Attempts <= 0 {
		r.Attempts = 20
	}
	if r.PingTimeout <= 0 {
		r.PingTimeout = 3 * time.Second
	}
	const ceiling = 2 * time.Second

	var err error
	backoff := 150 * time.Millisecond
	for i := 1; i <= r.Attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, r.PingTimeout)
		err = pingPool(pctx, p.Pool)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i == r.Attempts {
			break
		}
		if r.OnRetry != nil {
			r.OnRetry(i, err)
		}
		sleep(backoff)
		backoff = min(backoff*2, ceiling)
	}
	return fmt.Errorf("pg: not ready after %d attempts: %w", r.Attempts, err)
}

// Emitter returns the trace emitter for calls on this pool
func (p *PG) Emitter() trace.Emitter {
	return trace.Emitter{Backend: Backend, Tracer: p.Tracer, SlowMs: p.SlowMs}
}

// Close closes the pool; nil safe
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
