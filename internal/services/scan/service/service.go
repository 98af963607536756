// Package service implements staged repository discovery
package service

import (
	"context"

	"aardsync/internal/core/aardvark"
	"aardsync/internal/core/forge"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"
	"aardsync/internal/services/scan/domain"
)

// Service scans a repository for metadata files
type Service struct {
	Forge domain.Forge
}

// New constructs a scanner over f
func New(f domain.Forge) *Service {
	if f == nil {
		panic("scan.Service requires a non nil Forge")
	}
	return &Service{Forge: f}
}

// Scan resolves the branch and discovers metadata files in stages:
// the metadata-aardvark folder, then the legacy json folder, then a full
// recursive walk. Rate limits are fatal at every stage; other stage failures
// fall through to the next one
func (s *Service) Scan(ctx context.Context, ref forge.RepoRef) (domain.ScanResult, error) {
	if ref.Branch == "" {
		ref.Branch = forge.DefaultBranch
	}
	log := logger.C(ctx).With().Str("component", "scan").Str("repo", ref.FullName()).Logger()

	ref, err := s.resolveBranch(ctx, ref)
	if err != nil {
		return domain.ScanResult{}, err
	}

	w := &walker{forge: s.Forge, ref: ref}
	var (
		files []forge.TreeEntry
		mode  = aardvark.ModeAardvark
		found bool
	)

	for _, stage := range []struct {
		dir  string
		mode aardvark.Mode
	}{
		{domain.AardvarkDir, aardvark.ModeAardvark},
		{domain.LegacyDir, aardvark.ModeLegacy},
	} {
		if err := ctx.Err(); err != nil {
			return domain.ScanResult{}, err
		}
		sub, err := w.subtree(ctx, stage.dir)
		if err != nil {
			if forge.IsRateLimited(err) {
				return domain.ScanResult{}, err
			}
			log.Warn().Err(err).Str("dir", stage.dir).Msg("subtree listing failed, trying next stage")
			continue
		}
		if len(sub) == 0 {
			log.Debug().Str("dir", stage.dir).Msg("folder not found or empty")
			continue
		}
		files, mode, found = sub, stage.mode, true
		log.Info().Str("dir", stage.dir).Int("entries", len(sub)).Msg("found metadata folder")
		break
	}

	if !found {
		if err := ctx.Err(); err != nil {
			return domain.ScanResult{}, err
		}
		log.Warn().Msg("no conventional metadata folder, falling back to full recursive listing")
		files, err = w.full(ctx)
		if err != nil {
			return domain.ScanResult{}, err
		}
	}

	selected, mode, defaulted := reclassify(files, mode)
	if len(selected) == 0 {
		return domain.ScanResult{}, perr.Wrap(&domain.NoMetadataError{Total: len(files), Sample: sample(files)}, perr.ErrorCodeNotFound, "")
	}
	if defaulted {
		log.Warn().Int("files", len(selected)).Msg("json files outside any known folder, assuming legacy schema")
	}

	res := domain.ScanResult{
		Files:     selected,
		Mode:      mode,
		Branch:    ref.Branch,
		Truncated: w.truncated,
	}
	log.Info().Str("branch", res.Branch).Str("mode", string(res.Mode)).Int("files", len(res.Files)).Bool("truncated", res.Truncated).Msg("scan complete")
	return res, nil
}

// resolveBranch switches "main" to the repository default when they differ.
// Metadata failures other than rate limits are logged and ignored
func (s *Service) resolveBranch(ctx context.Context, ref forge.RepoRef) (forge.RepoRef, error) {
	if ref.Branch != forge.DefaultBranch {
		return ref, nil
	}
	repo, err := s.Forge.GetRepo(ctx, ref.Owner, ref.Repo)
	if err != nil {
		if forge.IsRateLimited(err) {
			return ref, err
		}
		logger.C(ctx).Warn().Err(err).Str("repo", ref.FullName()).Msg("could not read repo info for default branch check")
		return ref, nil
	}
	if repo.DefaultBranch != "" && repo.DefaultBranch != ref.Branch {
		logger.C(ctx).Info().Str("repo", ref.FullName()).Str("from", ref.Branch).Str("to", repo.DefaultBranch).Msg("switching to repository default branch")
		return ref.WithBranch(repo.DefaultBranch), nil
	}
	return ref, nil
}
