package modkit

import (
	"fishdash/internal/modkit/repokit"
	"fishdash/internal/platform/config"
)

// Deps are the shared dependencies handed to every module constructor.
// The zero value is usable and means no sql backends
type Deps struct {
	Cfg config.Conf

	// PG and SQLite are nil unless enabled; surveys may read its catalog
	// from either and meta probes both
	PG     repokit.TxRunner
	SQLite repokit.TxRunner
}
