package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fishdash/internal/core/catalog"
	"fishdash/internal/modkit/repokit"
	"fishdash/internal/platform/config"
	"fishdash/internal/services/api/surveys/repo"
)

// Source loads a catalog. Load may be called again to refresh
type Source interface {
	Name() string
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// SourceConfig selects a catalog source
type SourceConfig struct {
	Kind             string        // embedded file pg sqlite
	Path             string        // yaml path for file
	StatementTimeout time.Duration // per statement bound for pg reads, 0 disables
}

// SourceFromConfig reads FISHDASH_CATALOG_* values
func SourceFromConfig(cfg config.Conf) SourceConfig {
	fc := cfg.Prefix("FISHDASH_CATALOG_")
	return SourceConfig{
		Kind:             strings.ToLower(fc.MayString("SOURCE", catalog.SourceEmbedded)),
		Path:             fc.MayString("PATH", ""),
		StatementTimeout: fc.MayDuration("STATEMENT_TIMEOUT", 5*time.Second),
	}
}

// Backends are the sql seams a source may read from
type Backends struct {
	PG     repokit.TxRunner
	SQLite repokit.TxRunner
}

// Resolve turns a SourceConfig into a Source, failing when the chosen backend is missing
func Resolve(sc SourceConfig, b Backends) (Source, error) {
	switch sc.Kind {
	case "", catalog.SourceEmbedded:
		return Embedded(), nil
	case catalog.SourceFile:
		if strings.TrimSpace(sc.Path) == "" {
			return nil, fmt.Errorf("catalog source file needs FISHDASH_CATALOG_PATH")
		}
		return File(sc.Path), nil
	case catalog.SourcePG:
		if b.PG == nil {
			return nil, fmt.Errorf("catalog source pg needs SERVICE_PGSQL_ENABLED")
		}
		db := repokit.WithBeginHooks(b.PG, repokit.PGReadOnly(), repokit.PGStatementTimeout(sc.StatementTimeout))
		return SQL(catalog.SourcePG, db, repo.NewSQL()), nil
	case catalog.SourceSQLite:
		if b.SQLite == nil {
			return nil, fmt.Errorf("catalog source sqlite needs SERVICE_SQLITE_ENABLED")
		}
		return SQL(catalog.SourceSQLite, b.SQLite, repo.NewSQL()), nil
	}
	return nil, fmt.Errorf("unknown catalog source %q", sc.Kind)
}

type embeddedSource struct{}

// Embedded serves the catalog compiled into the binary
func Embedded() Source { return embeddedSource{} }

func (embeddedSource) Name() string { return catalog.SourceEmbedded }

func (embeddedSource) Load(context.Context) (*catalog.Catalog, error) { return catalog.Embedded() }

type fileSource struct{ path string }

// File reads a yaml catalog from disk on every Load
func File(path string) Source { return fileSource{path: path} }

func (f fileSource) Name() string { return catalog.SourceFile }

func (f fileSource) Load(context.Context) (*catalog.Catalog, error) { return catalog.LoadFile(f.path) }

type staticSource struct{ c *catalog.Catalog }

// Static always returns c
func Static(c *catalog.Catalog) Source {
	if c == nil {
		panic("surveys.Static requires a non nil catalog")
	}
	return staticSource{c: c}
}

func (s staticSource) Name() string { return s.c.Info().Source }

func (s staticSource) Load(context.Context) (*catalog.Catalog, error) { return s.c, nil }

type sqlSource struct {
	backend string
	db      repokit.TxRunner
	binder  repokit.Binder[repo.Repo]
}

// SQL reads the catalog tables through the store seam inside one transaction
func SQL(backend string, db repokit.TxRunner, binder repokit.Binder[repo.Repo]) Source {
	if db == nil {
		panic("surveys.SQL requires a non nil TxRunner")
	}
	if binder == nil {
		panic("surveys.SQL requires a non nil Repo binder")
	}
	return &sqlSource{backend: backend, db: db, binder: binder}
}

func (s *sqlSource) Name() string { return s.backend }

func (s *sqlSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	var snap catalog.Snapshot
	err := repokit.ReadTx(ctx, s.db, s.binder, func(r repo.Repo) error {
		var err error
		snap, err = repo.Snapshot(ctx, r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", s.backend, err)
	}
	return catalog.New(snap, s.backend)
}
