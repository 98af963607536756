package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/core/forge"
	"aardsync/internal/core/normalize"
	"aardsync/internal/modkit"
	"aardsync/internal/platform/config"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"
	"aardsync/internal/platform/store"
	str "aardsync/internal/platform/strings"

	impdom "aardsync/internal/services/importer/domain"
	impmod "aardsync/internal/services/importer/module"
	recmod "aardsync/internal/services/records/module"
	runmod "aardsync/internal/services/runs/module"
	scanmod "aardsync/internal/services/scan/module"
	wbmod "aardsync/internal/services/writeback/module"
)

type app struct {
	root config.Conf
	log  *logger.Logger
	gh   *github.Client
	st   *store.Store
	ref  forge.RepoRef
	out  string
}

func (a *app) deps() modkit.Deps {
	d := modkit.Deps{Cfg: a.root, Log: *a.log, Forge: a.gh}
	if a.st != nil {
		d.PG = a.st.PG
		d.CH = a.st.CH
	}
	return d
}

func (a *app) scan(ctx context.Context) error {
	res, err := scanmod.New(a.deps()).WithToken("").Scanner.Scan(ctx, a.ref)
	if err != nil {
		return err
	}
	a.log.Info().
		Int("files", len(res.Files)).
		Str("mode", string(res.Mode)).
		Str("branch", res.Branch).
		Bool("truncated", res.Truncated).
		Strs("sample", str.Head(res.Paths(), 5)).
		Msg("scan done")
	return a.writeReport(res)
}

func (a *app) importRepo(ctx context.Context) error {
	deps := a.deps()
	records := recmod.New(deps)
	runs := runmod.New(deps)
	if err := records.Records().EnsureSchema(ctx); err != nil {
		return err
	}
	if err := runs.EnsureSchema(ctx); err != nil {
		a.log.Warn().Err(err).Msg("run log schema unavailable")
	}

	res, err := scanmod.New(deps).WithToken("").Scanner.Scan(ctx, a.ref)
	if err != nil {
		return err
	}

	importer := impmod.New(deps, modkit.WithPorts(impmod.Collaborators{
		Sink: records.Records(),
		Runs: runs.Runs(),
	}))
	progress := impdom.ObserverFunc(func(p impdom.ImportProgress) {
		a.log.Info().Int("processed", p.Processed).Int("total", p.Total).Int("failures", p.Failures).Msg("import progress")
	})

	rep, runErr := importer.Observed("", progress).Importer.Run(ctx, res, a.ref)
	if err := a.writeReport(rep); err != nil {
		return errors.Join(runErr, err)
	}
	if errors.Is(runErr, context.Canceled) {
		a.log.Warn().Int("processed", rep.Progress.Processed).Int("total", rep.Progress.Total).Msg("import interrupted; imported records were committed")
	}
	return runErr
}

func (a *app) put(ctx context.Context, path, file, message string) error {
	if path == "" || file == "" {
		return perr.InvalidArgf("-mode put needs -path and -file")
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	return wbmod.New(a.deps()).WithToken("").Writer.Upsert(ctx, a.ref, path, content, message)
}

func (a *app) export(ctx context.Context) error {
	dir := a.out
	if dir == "" {
		dir = "export"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	n, err := recmod.New(a.deps()).Records().Export(ctx, func(id string, doc []byte) error {
		return os.WriteFile(filepath.Join(dir, normalize.FileStem(id)+".json"), doc, 0o644)
	})
	if err != nil {
		return err
	}
	a.log.Info().Int("records", n).Str("dir", dir).Msg("export done")
	return nil
}

// writeReport prints v as indented JSON to -out or stdout
func (a *app) writeReport(v any) error {
	var w io.Writer = os.Stdout
	if a.out != "" {
		f, err := os.Create(a.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
