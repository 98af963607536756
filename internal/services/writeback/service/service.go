// Package service writes single files back to a repository with optimistic concurrency
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"path"

	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/core/aardvark"
	"aardsync/internal/core/forge"
	"aardsync/internal/core/normalize"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"
	str "aardsync/internal/platform/strings"
	"aardsync/internal/services/writeback/domain"
)

// RecordDir is where UpsertRecord places documents
const RecordDir = "metadata-aardvark"

// Service implements domain.WriterPort
type Service struct {
	Forge domain.Forge
}

// New constructs a writer
func New(f domain.Forge) *Service {
	if f == nil {
		panic("writeback.Service requires a non nil Forge")
	}
	return &Service{Forge: f}
}

var _ domain.WriterPort = (*Service)(nil)

// Upsert creates or replaces path with content. A stale revision is retried
// exactly once against the latest sha; the second failure is returned as is
func (s *Service) Upsert(ctx context.Context, ref forge.RepoRef, p string, content []byte, message string) error {
	p, ok := str.RepoPath(p)
	if !ok {
		return perr.WithField(perr.InvalidArgf("path must be a relative path inside the repository"), "path")
	}
	if message == "" {
		message = "Update " + p
	}
	log := logger.C(ctx).With().Str("component", "writeback").Str("path", p).Str("branch", ref.Branch).Logger()

	sha, err := s.currentSHA(ctx, ref, p)
	if err != nil {
		return err
	}
	encoded := github.EncodeContent(content)

	err = s.Forge.PutFile(ctx, ref, p, encoded, message, sha)
	if err == nil {
		log.Info().Bool("created", sha == nil).Msg("file written")
		return nil
	}
	if !forge.IsConflict(err) {
		return err
	}

	log.Warn().Err(err).Msg("stale revision; retrying with latest sha")
	sha, err = s.currentSHA(ctx, ref, p)
	if err != nil {
		return err
	}
	if err := s.Forge.PutFile(ctx, ref, p, encoded, message, sha); err != nil {
		return err
	}
	log.Info().Msg("file written after conflict retry")
	return nil
}

// UpsertJSON writes v pretty printed with a two space indent
func (s *Service) UpsertJSON(ctx context.Context, ref forge.RepoRef, p string, v any, message string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "encode %s", p)
	}
	return s.Upsert(ctx, ref, p, buf.Bytes(), message)
}

// UpsertRecord writes rec to metadata-aardvark/<id>.json and returns the path used
func (s *Service) UpsertRecord(ctx context.Context, ref forge.RepoRef, rec aardvark.Record, message string) (string, error) {
	stem := normalize.FileStem(rec.ID())
	if stem == "" {
		return "", perr.WithField(perr.New(perr.ErrorCodeNoIdentifier, "no identifier found"), "id")
	}
	p := path.Join(RecordDir, stem+".json")
	if message == "" {
		message = "Update " + rec.ID()
	}
	doc, err := rec.MarshalIndent()
	if err != nil {
		return "", err
	}
	return p, s.Upsert(ctx, ref, p, doc, message)
}

// currentSHA returns nil when the file does not exist yet
func (s *Service) currentSHA(ctx context.Context, ref forge.RepoRef, p string) (*string, error) {
	meta, found, err := s.Forge.GetFileMeta(ctx, ref, p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	sha := meta.SHA
	return &sha, nil
}
