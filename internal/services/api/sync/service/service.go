// Package service implements the sync api use cases over the worker modules
package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"aardsync/internal/core/forge"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"
	"aardsync/internal/services/api/sync/domain"
	impdom "aardsync/internal/services/importer/domain"
	recdom "aardsync/internal/services/records/domain"
	rundom "aardsync/internal/services/runs/domain"
	scandom "aardsync/internal/services/scan/domain"
)

// Service is the sync api use case surface
type Service interface {
	Verify(ctx context.Context, in domain.RepoInput) (domain.VerifyOutput, error)
	Read(ctx context.Context, in domain.ReadInput) (json.RawMessage, error)
	Scan(ctx context.Context, in domain.RepoInput) (scandom.ScanResult, error)
	Import(ctx context.Context, in domain.RepoInput) (impdom.ImportReport, error)
	PutFile(ctx context.Context, in domain.PutFileInput) error
	PutRecord(ctx context.Context, in domain.PutRecordInput) (domain.PutRecordOutput, error)
	GetRecord(ctx context.Context, id string) (recdom.StoredRecord, error)
	CountRecords(ctx context.Context) (domain.CountOutput, error)
	Runs(ctx context.Context, limit int) ([]rundom.RunRow, error)
}

type svc struct {
	b domain.Backends
}

// New constructs the sync service. Every backend except Runs is required
func New(b domain.Backends) Service {
	if b.Scanner == nil || b.Importer == nil || b.Writer == nil || b.Reader == nil || b.Records == nil {
		panic("sync.Service requires scanner, importer, writer, reader and records backends")
	}
	return &svc{b: b}
}

// ref parses the repository and applies the default branch
func ref(in domain.RepoInput) (forge.RepoRef, error) {
	r, err := forge.ParseRepoURL(in.RepoURL)
	if err != nil {
		return forge.RepoRef{}, err
	}
	b := strings.TrimSpace(in.Branch)
	if b == "" {
		b = domain.DefaultBranch
	}
	return r.WithBranch(b), nil
}

func (s *svc) Verify(ctx context.Context, in domain.RepoInput) (domain.VerifyOutput, error) {
	r, err := ref(in)
	if err != nil {
		return domain.VerifyOutput{}, err
	}
	if err := s.b.Reader(in.Token).VerifyRepoAndBranch(ctx, r); err != nil {
		return domain.VerifyOutput{}, err
	}
	return domain.VerifyOutput{Repo: r.FullName(), Branch: r.Branch, OK: true}, nil
}

// Read prefers the blob sha when given since it pins the exact revision
func (s *svc) Read(ctx context.Context, in domain.ReadInput) (json.RawMessage, error) {
	r, err := ref(in.RepoInput)
	if err != nil {
		return nil, err
	}
	rd := s.b.Reader(in.Token)
	if in.SHA != "" {
		return rd.GetBlob(ctx, r, in.SHA)
	}
	return rd.ReadJSONFile(ctx, r, in.Path)
}

func (s *svc) Scan(ctx context.Context, in domain.RepoInput) (scandom.ScanResult, error) {
	r, err := ref(in)
	if err != nil {
		return scandom.ScanResult{}, err
	}
	return s.b.Scanner(in.Token).Scan(ctx, r)
}

// Import scans then imports. Once the run started the report is returned
// alongside any cancel or commit error
func (s *svc) Import(ctx context.Context, in domain.RepoInput) (impdom.ImportReport, error) {
	r, err := ref(in)
	if err != nil {
		return impdom.ImportReport{}, err
	}
	res, err := s.b.Scanner(in.Token).Scan(ctx, r)
	if err != nil {
		return impdom.ImportReport{}, err
	}
	logger.C(ctx).Info().Str("repo", r.FullName()).Int("files", len(res.Files)).Str("mode", string(res.Mode)).Msg("sync import requested")
	return s.b.Importer(in.Token).Run(ctx, res, r)
}

func (s *svc) PutFile(ctx context.Context, in domain.PutFileInput) error {
	r, err := ref(in.RepoInput)
	if err != nil {
		return err
	}
	w := s.b.Writer(in.Token)

	raw := bytes.TrimSpace(in.Content)
	if len(raw) > 0 && raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return perr.WithField(perr.JSONErrf("invalid content string: %v", err), "content")
		}
		return w.Upsert(ctx, r, in.Path, []byte(text), in.Message)
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return perr.WithField(perr.JSONErrf("invalid content: %v", err), "content")
	}
	return w.UpsertJSON(ctx, r, in.Path, v, in.Message)
}

func (s *svc) PutRecord(ctx context.Context, in domain.PutRecordInput) (domain.PutRecordOutput, error) {
	r, err := ref(in.RepoInput)
	if err != nil {
		return domain.PutRecordOutput{}, err
	}
	p, err := s.b.Writer(in.Token).UpsertRecord(ctx, r, in.Record, in.Message)
	if err != nil {
		return domain.PutRecordOutput{}, err
	}
	return domain.PutRecordOutput{Path: p}, nil
}

func (s *svc) GetRecord(ctx context.Context, id string) (recdom.StoredRecord, error) {
	return s.b.Records.Get(ctx, id)
}

func (s *svc) CountRecords(ctx context.Context) (domain.CountOutput, error) {
	n, err := s.b.Records.Count(ctx)
	if err != nil {
		return domain.CountOutput{}, err
	}
	return domain.CountOutput{Count: n}, nil
}

func (s *svc) Runs(ctx context.Context, limit int) ([]rundom.RunRow, error) {
	if s.b.Runs == nil {
		return []rundom.RunRow{}, nil
	}
	return s.b.Runs.Recent(ctx, limit)
}
