// Package cli implements the fishdash command line: queries, statistics, tokens
// and catalog maintenance against any catalog source
package cli

import (
	"context"
	"fmt"
	"io"

	"fishdash/internal/core/catalog"
	"fishdash/internal/platform/config"
	"fishdash/internal/platform/logger"
	"fishdash/internal/platform/metrics"
	"fishdash/internal/platform/store"
	surveyssvc "fishdash/internal/services/api/surveys/service"

	"github.com/spf13/cobra"
)

// app carries the global flags and the lazily opened service
type app struct {
	source string
	path   string
	sqlite string
	pgURL  string
	asJSON bool

	st  *store.Store
	svc surveyssvc.Service
}

func newApp(cfg config.Conf) *app {
	fc := cfg.Prefix("FISHDASH_")
	return &app{
		source: fc.MayString("CATALOG_SOURCE", catalog.SourceEmbedded),
		path:   fc.MayString("CATALOG_PATH", ""),
		sqlite: cfg.Prefix("SERVICE_SQLITE_").MayString("PATH", "fishdash.db"),
		pgURL:  cfg.Prefix("SERVICE_PGSQL_").MayString("DBURL", ""),
	}
}

func (a *app) bindFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&a.source, "source", a.source, "catalog source: embedded, file, pg or sqlite")
	pf.StringVar(&a.path, "catalog", a.path, "catalog yaml path for --source file")
	pf.StringVar(&a.sqlite, "sqlite", a.sqlite, "sqlite database path")
	pf.StringVar(&a.pgURL, "pg-url", a.pgURL, "postgres url")
	pf.BoolVar(&a.asJSON, "json", false, "print json instead of tables")
}

// openStore opens only the backend the source needs
func (a *app) openStore(ctx context.Context, kind string, readOnly bool) (*store.Store, error) {
	if a.st != nil {
		return a.st, nil
	}
	cfg := store.Config{AppName: "fishdash-cli"}
	switch kind {
	case catalog.SourcePG:
		cfg.PG = store.PGConfig{Enabled: true, URL: a.pgURL, MaxConns: 2, ConnectRetries: 1}
	case catalog.SourceSQLite:
		cfg.SQLite = store.SQLiteConfig{Enabled: true, Path: a.sqlite, MaxConns: 1, ReadOnly: readOnly}
	default:
		return nil, fmt.Errorf("%q is not a sql source", kind)
	}
	st, err := store.Open(ctx, cfg,
		store.WithLogger(*logger.Named("store")),
		store.WithTracer(metrics.SQLTracer()),
	)
	if err != nil {
		return nil, err
	}
	a.st = st
	return st, nil
}

// catalogSource resolves --source, opening the read only store it needs
func (a *app) catalogSource(ctx context.Context) (surveyssvc.Source, error) {
	var b surveyssvc.Backends
	if a.source == catalog.SourcePG || a.source == catalog.SourceSQLite {
		st, err := a.openStore(ctx, a.source, true)
		if err != nil {
			return nil, err
		}
		b.PG, b.SQLite = st.PG, st.SQLite
	}
	return surveyssvc.Resolve(surveyssvc.SourceConfig{Kind: a.source, Path: a.path}, b)
}

// load reads the catalog straight from the source, bypassing the service
func (a *app) load(ctx context.Context) (*catalog.Catalog, error) {
	src, err := a.catalogSource(ctx)
	if err != nil {
		return nil, err
	}
	return src.Load(ctx)
}

// service performs the catalog load once per process
func (a *app) service(ctx context.Context) (surveyssvc.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	src, err := a.catalogSource(ctx)
	if err != nil {
		return nil, err
	}
	svc := surveyssvc.New(src)
	if err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

func (a *app) close(ctx context.Context) error {
	if a.st == nil {
		return nil
	}
	err := a.st.Close(ctx)
	a.st = nil
	return err
}

func (a *app) printer(w io.Writer) *printer { return &printer{w: w, json: a.asJSON} }
