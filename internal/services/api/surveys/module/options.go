package module

import (
	"time"

	"fishdash/internal/platform/config"
	surveyssvc "fishdash/internal/services/api/surveys/service"
)

// Options controls where the catalog comes from and how long the first load may take
type Options struct {
	Source      surveyssvc.SourceConfig
	LoadTimeout time.Duration

	// Service short circuits source resolution, used by tests and the cli
	Service surveyssvc.Service
}

// FromConfig reads FISHDASH_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	return Options{
		Source:      surveyssvc.SourceFromConfig(cfg),
		LoadTimeout: cfg.Prefix("FISHDASH_").MayDuration("CATALOG_LOAD_TIMEOUT", 30*time.Second),
	}
}
