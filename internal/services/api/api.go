// Package api provides the HTTP API for the application
package api

//go:generate go run github.com/swaggo/swag/v2/cmd/swag init --v3.1 -d ../../../ -g cmd/fishdash-api/main.go -o docs --instanceName api --parseInternal

import (
	"net/http"

	"fishdash/internal/platform/config"
	"fishdash/internal/platform/metrics"
	phttp "fishdash/internal/platform/net/http"
	"fishdash/internal/platform/net/middleware"
	"fishdash/internal/platform/store"

	"fishdash/internal/modkit"
	"fishdash/internal/modkit/httpkit"
	"fishdash/internal/modkit/swaggerkit"

	metamod "fishdash/internal/services/api/meta/module"
	surveysmod "fishdash/internal/services/api/surveys/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool

	// Surveys overrides the surveys module options; zero reads them from Config
	Surveys *surveysmod.Options
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	deps := modkit.Deps{Cfg: opt.Config}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.SQLite = opt.Store.SQLite
	}

	so := surveysmod.FromConfig(deps.Cfg)
	if opt.Surveys != nil {
		so = *opt.Surveys
	}

	// surveys owns the catalog; meta reads it through the surveys port
	surveys := surveysmod.New(deps, so)
	svc := modkit.MustPortsOf[surveysmod.Ports](surveys).Service

	mods := []modkit.Module{
		metamod.New(deps, modkit.WithPorts(metamod.Ports{Catalog: svc})),
		surveys,
	}

	// unversioned operational endpoints
	r.Handle("/health", middleware.Heartbeat("/health")(http.NotFoundHandler()))
	if opt.EnableMetrics {
		r.Handle("/metrics", metrics.Handler())
	}
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackFromConfig(deps.Cfg.Prefix("CORE_API_")))
	httpkit.MountAPI(r, "v1", stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
}
