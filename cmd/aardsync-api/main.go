// @title         aardsync API
// @version       0.1.0
// @description   Repository metadata sync for the aardvark editor
// @BasePath      /api/v1

// Command aardsync-api serves the sync api used by the metadata editor
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/modkit/repokit"
	"aardsync/internal/platform/config"
	"aardsync/internal/platform/logger"
	phttp "aardsync/internal/platform/net/http"
	"aardsync/internal/platform/store"

	"aardsync/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// records live in postgres so the api cannot start without it
	cfg := store.FromConfig(root, "api")
	if !cfg.PG.Enabled {
		l.Panic().Msg("SERVICE_PGSQL_DBURL is required")
	}
	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	repokit.MustGuard(ctx, st)
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	addr := ":4000"
	if apiCfg.MayString("PORT", "") != "" {
		addr = apiCfg.MustPort("PORT")
	}
	srv := phttp.NewServer(addr)
	if _, err := api.Mount(ctx, srv.Router(), api.Options{
		Config: root,
		Store:  st,
		Forge:  github.NewClient(github.FromConfig(root)),
		Logger: l,

		EnableSwagger: apiCfg.MayBool("ENABLE_SWAGGER", false),
	}); err != nil {
		l.Panic().Err(err).Msg("api.Mount failed")
	}

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
