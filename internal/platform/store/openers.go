package store

import (
	"context"

	"fishdash/internal/platform/store/pg"
	"fishdash/internal/platform/store/sqlite"
)

// openPG opens pg and wraps it with the sql adapter once the pool answers
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, s.Tracer)
	if err != nil {
		return nil, err
	}

	err = p.WaitReady(ctx, pg.Retry{
		Attempts:    cfg.PG.ConnectRetries,
		PingTimeout: cfg.PG.PingTimeout,
		OnRetry: func(attempt int, err error) {
			s.Log.Debug().Int("attempt", attempt).Err(err).Msg("postgres not ready")
		},
	})
	if err != nil {
		p.Close()
		return nil, err
	}
	return newPGAdapter(p), nil
}

// openSQLite opens the catalog file and wraps it with the database/sql adapter
func openSQLite(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	lite, err := sqlite.Open(ctx, sqlite.Config{
		Path:     cfg.SQLite.Path,
		MaxConns: cfg.SQLite.MaxConns,
		ReadOnly: cfg.SQLite.ReadOnly,
		SlowMs:   cfg.SQLite.SlowQueryMs,
	}, s.Tracer)
	if err != nil {
		return nil, err
	}
	return newSQLiteAdapter(lite), nil
}
