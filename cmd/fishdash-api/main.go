// @title         Fishdash API
// @version       0.1.0
// @description   Read only cross survey queries and fish statistics

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fishdash/internal/platform/config"
	"fishdash/internal/platform/logger"
	"fishdash/internal/platform/metrics"
	phttp "fishdash/internal/platform/net/http"
	"fishdash/internal/platform/store"

	"fishdash/internal/services/api"

	"golang.org/x/sync/errgroup"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early (LOG_*)
	opt := logger.FromEnv()
	if opt.Service == "" {
		opt.Service = "fishdash-api"
	}
	l := logger.Init(opt)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// open the optional sql backends (SERVICE_PGSQL_*, SERVICE_SQLITE_*)
	st, err := store.Open(ctx,
		store.ConfigFromEnv(root, "fishdash-api"),
		store.WithLogger(*logger.Named("store")),
		store.WithTracer(metrics.SQLTracer()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API; the surveys module loads the catalog here (FISHDASH_*)
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
			EnableMetrics:  apiCfg.MayBool("METRICS", true),
		},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		// boot time ping only, ongoing health is /meta/ready
		if err := st.Ping(gctx); err != nil {
			l.Warn().Err(err).Msg("store ping failed")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("bye")
}
