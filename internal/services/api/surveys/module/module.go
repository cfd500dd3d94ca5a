// Package module wires survey queries into the API using modkit
package module

import (
	"context"

	"fishdash/internal/modkit"
	"fishdash/internal/modkit/httpkit"
	"fishdash/internal/platform/logger"

	surveyshttp "fishdash/internal/services/api/surveys/http"
	surveyssvc "fishdash/internal/services/api/surveys/service"
)

// Module owns the survey catalog and serves the query endpoints
type Module struct {
	base modkit.Base
	svc surveyssvc.Service
}

// New constructs the surveys module and performs the first catalog load.
// A failed load is logged and the module answers 503 until a reload succeeds
func New(deps modkit.Deps, opt Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("surveys"),
		modkit.WithPrefix("/surveys"),
	}, opts...)...)

	svc := opt.Service
	if svc == nil {
		svc = newService(deps, opt)
	}
	return &Module{base: b, svc: svc}
}

func newService(deps modkit.Deps, opt Options) surveyssvc.Service {
	log := logger.Named("surveys")
	src, err := surveyssvc.Resolve(opt.Source, surveyssvc.Backends{PG: deps.PG, SQLite: deps.SQLite})
	if err != nil {
		log.Error().Err(err).Str("source", opt.Source.Kind).Msg("catalog source unavailable, using embedded")
		src = surveyssvc.Embedded()
	}

	svc := surveyssvc.New(src)
	ctx := context.Background()
	if opt.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opt.LoadTimeout)
		defer cancel()
	}
	if err := svc.Reload(ctx); err != nil {
		log.Error().Err(err).Str("source", src.Name()).Msg("initial catalog load failed")
	}
	return svc
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.base.Name }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.base.Mount(r, func(sr httpkit.Router) { surveyshttp.Register(sr, m.svc) })
}
