package store

import (
	"time"

	"fishdash/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	// LogSQL prints every sql call through the store logger
	LogSQL bool

	PG     PGConfig
	SQLite SQLiteConfig
}

// PGConfig configures postgres connectivity
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	SlowQueryMs int

	// boot retry knobs
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// SQLiteConfig configures the sqlite catalog file
type SQLiteConfig struct {
	Enabled     bool
	Path        string
	MaxConns    int
	ReadOnly    bool
	SlowQueryMs int
}

// ConfigFromEnv reads SERVICE_PGSQL_* and SERVICE_SQLITE_* under root
// both backends are off unless ENABLED is set
func ConfigFromEnv(root config.Conf, appName string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	lite := root.Prefix("SERVICE_SQLITE_")

	cfg := Config{
		AppName: appName,
		LogSQL:  root.Prefix("SERVICE_").MayBool("LOG_SQL", false),
		PG: PGConfig{
			Enabled:        pg.MayBool("ENABLED", false),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 500),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		SQLite: SQLiteConfig{
			Enabled:     lite.MayBool("ENABLED", false),
			Path:        lite.MayString("PATH", "fishdash.db"),
			MaxConns:    lite.MayInt("MAX_CONNS", 1),
			ReadOnly:    lite.MayBool("READ_ONLY", false),
			SlowQueryMs: lite.MayInt("SLOW_MS", 200),
		},
	}
	if cfg.PG.Enabled {
		cfg.PG.URL = pg.MustString("DBURL")
	}
	return cfg
}
