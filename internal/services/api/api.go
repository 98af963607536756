// Package api provides the HTTP API for the application
package api

import (
	"context"

	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/platform/config"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"
	phttp "aardsync/internal/platform/net/http"
	"aardsync/internal/platform/net/middleware"
	"aardsync/internal/platform/store"
	str "aardsync/internal/platform/strings"

	"aardsync/internal/modkit"
	"aardsync/internal/modkit/httpkit"
	"aardsync/internal/modkit/module"
	"aardsync/internal/modkit/swaggerkit"

	metamod "aardsync/internal/services/api/meta/module"
	syncdom "aardsync/internal/services/api/sync/domain"
	syncmod "aardsync/internal/services/api/sync/module"
	impdom "aardsync/internal/services/importer/domain"
	impmod "aardsync/internal/services/importer/module"
	recdom "aardsync/internal/services/records/domain"
	recmod "aardsync/internal/services/records/module"
	runmod "aardsync/internal/services/runs/module"
	scandom "aardsync/internal/services/scan/domain"
	scanmod "aardsync/internal/services/scan/module"
	wbdom "aardsync/internal/services/writeback/domain"
	wbmod "aardsync/internal/services/writeback/module"
)

// Options are the API options. Config is the root view; modules add their own prefixes
type Options struct {
	Config config.Conf
	Store  *store.Store
	Forge  *github.Client
	Logger *logger.Logger

	// EnableSwagger mounts the docs UI at /api/docs
	EnableSwagger bool
}

// Mount builds the modules, prepares their storage and mounts them under /api/v1
func Mount(ctx context.Context, r phttp.Router, opt Options) ([]module.Module, error) {
	if opt.Store == nil || opt.Store.PG == nil {
		return nil, perr.Unavailablef("api: record store is not configured")
	}
	if opt.Forge == nil {
		return nil, perr.Unavailablef("api: forge client is not configured")
	}
	deps := modkit.Deps{
		Cfg:   opt.Config,
		PG:    opt.Store.PG,
		CH:    opt.Store.CH,
		Forge: opt.Forge,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// workers own the domain ports; the sync module only drives them
	records := recmod.New(deps)
	runs := runmod.New(deps)
	scanner := scanmod.New(deps)
	importer := impmod.New(deps, modkit.WithPorts(impmod.Collaborators{
		Sink: records.Records(),
		Runs: runs.Runs(),
	}))
	writer := wbmod.New(deps)

	if err := records.Records().EnsureSchema(ctx); err != nil {
		return nil, err
	}
	if err := runs.EnsureSchema(ctx); err != nil {
		// the run log is an audit trail; the api still serves without it
		deps.Log.Warn().Err(err).Msg("run log schema unavailable")
	}

	mods := []module.Module{
		metamod.New(deps, modkit.WithMiddlewares(middleware.NoCache())),
		syncmod.New(deps, modkit.WithMiddlewares(middleware.NoCache()), modkit.WithPorts(syncdom.Backends{
			Scanner:  func(tok string) scandom.ScannerPort { return scanner.WithToken(tok).Scanner },
			Importer: func(tok string) impdom.ImporterPort { return importer.WithToken(tok).Importer },
			Writer:   func(tok string) wbdom.WriterPort { return writer.WithToken(tok).Writer },
			Reader:   func(tok string) syncdom.Reader { return opt.Forge.WithToken(tok) },
			Records:  module.MustPortsOf[recdom.ServicePort](records),
			Runs:     runs.Runs(),
		})),
	}

	apiCfg := opt.Config.Prefix("CORE_API_")
	stack := httpkit.CommonStack(httpkit.StackOptions{
		Origins: str.Dedupe(apiCfg.MayCSV("CORS_ORIGINS", nil)),
		Timeout: apiCfg.MayDuration("REQUEST_TIMEOUT", 0),
		Slow:    apiCfg.MayDuration("SLOW_REQUEST", 0),
	})
	swaggerkit.Mount(r, opt.EnableSwagger)
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return mods, nil
}
