// Command aardsync scans, imports, writes back and exports geospatial metadata
// kept in a GitHub repository
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/core/forge"
	"aardsync/internal/platform/config"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"
	"aardsync/internal/platform/store"
)

func main() {
	if err := run(); err != nil {
		logger.Get().Error().Err(err).Msg("aardsync failed")
		os.Exit(1)
	}
}

func run() error {
	root := config.New()
	l := logger.Get()

	var (
		fRepo    = flag.String("repo", "", "repository, owner/repo or https://github.com/owner/repo")
		fBranch  = flag.String("branch", "main", "branch to read and write")
		fToken   = flag.String("token", "", "personal access token (default $CORE_FORGE_TOKEN or $GITHUB_TOKEN)")
		fMode    = flag.String("mode", "scan", "scan | import | put | export")
		fPath    = flag.String("path", "", "repository path for -mode put")
		fFile    = flag.String("file", "", "local file to upload for -mode put")
		fMessage = flag.String("message", "", "commit message for -mode put")
		fOut     = flag.String("out", "", "scan/import report file, or export directory (default ./export)")
	)
	flag.Parse()

	mode := *fMode
	switch mode {
	case "scan", "import", "put", "export":
	default:
		return perr.InvalidArgf("-mode must be scan, import, put or export, got %q", mode)
	}

	// SIGINT cancels; an import stops between chunks and still commits
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ref forge.RepoRef
	if mode != "export" {
		r, err := forge.ParseRepoURL(*fRepo)
		if err != nil {
			return perr.WithField(err, "repo")
		}
		ref = r.WithBranch(*fBranch)
	}

	opts := github.FromConfig(root)
	if *fToken != "" {
		opts.Token = *fToken
	}
	gh := github.NewClient(opts)

	var st *store.Store
	if mode == "import" || mode == "export" {
		cfg := store.FromConfig(root, "cli")
		if !cfg.PG.Enabled {
			return perr.InvalidArgf("-mode %s needs SERVICE_PGSQL_DBURL", mode)
		}
		s, err := store.Open(ctx, cfg, store.WithLogger(*l))
		if err != nil {
			return err
		}
		defer func() {
			if err := s.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
		st = s
	}

	a := &app{root: root, log: l, gh: gh, st: st, ref: ref, out: *fOut}
	switch mode {
	case "import":
		return a.importRepo(ctx)
	case "put":
		return a.put(ctx, *fPath, *fFile, *fMessage)
	case "export":
		return a.export(ctx)
	default:
		return a.scan(ctx)
	}
}
