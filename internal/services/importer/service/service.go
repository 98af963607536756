// Package service runs chunked bulk imports of scanned metadata files
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aardsync/internal/core/aardvark"
	"aardsync/internal/core/forge"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"
	"aardsync/internal/services/importer/domain"
	scandom "aardsync/internal/services/scan/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// commitTimeout bounds the final commit, which runs even after cancellation
const commitTimeout = 2 * time.Minute

// Config holds tuning for a run
type Config struct {
	Chunk    int // files fetched concurrently per chunk; <=0 -> 50
	ErrorLog int // error entries kept per run; <=0 -> 100
}

// Service implements domain.ImporterPort
type Service struct {
	Fetch     domain.Fetcher
	Crosswalk domain.Crosswalk
	Sink      domain.RecordSink

	// optional
	Runs     domain.RunRecorder
	Observer domain.ProgressObserver

	Cfg Config

	now func() time.Time
}

// New constructs an import service
func New(f domain.Fetcher, cw domain.Crosswalk, sink domain.RecordSink, cfg Config) *Service {
	if f == nil {
		panic("importer.Service requires a non nil Fetcher")
	}
	if sink == nil {
		panic("importer.Service requires a non nil RecordSink")
	}
	if cw == nil {
		cw = aardvark.Crosswalk{}
	}
	if cfg.Chunk <= 0 {
		cfg.Chunk = domain.DefaultChunk
	}
	if cfg.ErrorLog <= 0 {
		cfg.ErrorLog = domain.DefaultErrorLog
	}
	return &Service{Fetch: f, Crosswalk: cw, Sink: sink, Cfg: cfg, now: time.Now}
}

// WithRunRecorder attaches an audit sink
func (s *Service) WithRunRecorder(r domain.RunRecorder) *Service {
	s.Runs = r
	return s
}

// WithObserver attaches a progress observer
func (s *Service) WithObserver(o domain.ProgressObserver) *Service {
	s.Observer = o
	return s
}

// Run imports every file of res. Chunks run one after another and the files of
// a chunk are fetched concurrently. Per-file failures are counted, never returned.
// ctx is checked between chunks; a cancelled run still commits what it imported
// and returns the partial report with ctx.Err(). A commit failure is returned
// with the report
func (s *Service) Run(ctx context.Context, res scandom.ScanResult, ref forge.RepoRef) (domain.ImportReport, error) {
	if res.Branch != "" {
		ref = ref.WithBranch(res.Branch)
	}
	runID := uuid.New()
	ctx = logger.WithRun(ctx, runID.String(), ref.FullName())
	log := logger.C(ctx).With().Str("component", "importer").Logger()

	rep := domain.ImportReport{
		RunID:     runID,
		Repo:      ref.FullName(),
		Branch:    ref.Branch,
		Mode:      res.Mode,
		StartedAt: s.now().UTC(),
	}
	agg := NewAggregator(len(res.Files), s.Cfg.ErrorLog)
	log.Info().Int("files", len(res.Files)).Str("mode", string(res.Mode)).Int("chunk", s.Cfg.Chunk).Msg("import started")

	var runErr error
	for i := 0; i < len(res.Files); i += s.Cfg.Chunk {
		if err := ctx.Err(); err != nil {
			runErr = err
			rep.Cancelled = true
			log.Warn().Err(err).Int("processed", i).Msg("import cancelled between chunks")
			break
		}
		batch := res.Files[i:min(i+s.Cfg.Chunk, len(res.Files))]

		g, gctx := errgroup.WithContext(ctx)
		for _, f := range batch {
			g.Go(func() error {
				s.importOne(gctx, ref, res.Mode, f.Path, agg)
				return nil
			})
		}
		_ = g.Wait()

		agg.Advance(len(batch))
		p, _ := agg.Snapshot()
		log.Debug().Int("processed", p.Processed).Int("total", p.Total).Int("successes", p.Successes).Int("failures", p.Failures).Msg("chunk done")
		if s.Observer != nil {
			s.Observer.OnProgress(p)
		}
	}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	if err := s.Sink.Commit(cctx); err != nil {
		log.Error().Err(err).Msg("commit failed")
		runErr = errors.Join(runErr, perr.WithOp(err, "commit"))
	}
	cancel()

	rep.Progress, rep.Errors = agg.Snapshot()
	rep.FinishedAt = s.now().UTC()
	s.record(ctx, rep)

	log.Info().
		Int("processed", rep.Progress.Processed).
		Int("successes", rep.Progress.Successes).
		Int("failures", rep.Progress.Failures).
		Dur("elapsed", rep.FinishedAt.Sub(rep.StartedAt)).
		Msg("import finished")
	return rep, runErr
}

// importOne fetches, decodes and stores one file. Every outcome lands in agg
func (s *Service) importOne(ctx context.Context, ref forge.RepoRef, mode aardvark.Mode, path string, agg *Aggregator) {
	defer func() {
		if r := recover(); r != nil {
			agg.RecordFailure(domain.ErrorLogEntry{Path: path, Message: fmt.Sprintf("panic: %v", r)})
		}
	}()

	if err := s.importFile(ctx, ref, mode, path); err != nil {
		logger.C(ctx).Debug().Err(err).Str("path", path).Msg("file failed")
		agg.RecordFailure(domain.ErrorLogEntry{Path: path, Message: err.Error()})
		return
	}
	agg.RecordSuccess()
}

func (s *Service) importFile(ctx context.Context, ref forge.RepoRef, mode aardvark.Mode, path string) error {
	raw, err := s.Fetch.FetchJSON(ctx, ref, path)
	if err != nil {
		return err
	}
	rr, err := aardvark.DecodeRaw(mode, raw)
	if err != nil {
		return err
	}
	n, err := s.Sink.Import(ctx, aardvark.ToRecord(rr, s.Crosswalk), domain.ImportOptions{Deferred: true, SourcePath: path})
	if err != nil {
		return err
	}
	if n == 0 {
		return perr.New(perr.ErrorCodeNoIdentifier, "no identifier found")
	}
	return nil
}

// record writes the audit rows; failures are logged only
func (s *Service) record(ctx context.Context, rep domain.ImportReport) {
	if s.Runs == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	if err := s.Runs.RecordRun(rctx, rep); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("run log write failed")
	}
}
