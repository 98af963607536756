// Package service implements the record store: deferred imports, batched commits and export
package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"aardsync/internal/core/aardvark"
	"aardsync/internal/modkit/repokit"
	perr "aardsync/internal/platform/errors"
	"aardsync/internal/platform/logger"
	"aardsync/internal/services/records/domain"

	"github.com/cenkalti/backoff/v4"
)

// Config holds commit tuning
type Config struct {
	Batch         int           // rows per upsert statement batch; <=0 -> 500
	CommitRetries int           // retries of a commit that hit contention; <0 -> 0
	RetryBase     time.Duration // first retry delay; <=0 -> 200ms
	LockTimeout   string        // SET LOCAL lock_timeout for commits; "" leaves the server default
}

// Service implements domain.ServicePort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
	cfg    Config

	mu      sync.Mutex
	seq     uint64
	pending map[string]pendingRow

	// one commit at a time
	commitMu sync.Mutex
}

type pendingRow struct {
	row domain.Row
	seq uint64
}

// New constructs a record store service
func New(db repokit.TxRunner, binder repokit.Binder[domain.Repo], cfg Config) *Service {
	if db == nil {
		panic("records.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("records.Service requires a non nil Repo binder")
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 500
	}
	if cfg.CommitRetries < 0 {
		cfg.CommitRetries = 0
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 200 * time.Millisecond
	}
	if cfg.LockTimeout != "" {
		db = repokit.WithBeginHooks(db, repokit.SetLocal("lock_timeout", cfg.LockTimeout))
	}
	return &Service{db: db, binder: binder, cfg: cfg, pending: map[string]pendingRow{}}
}

// EnsureSchema creates the backing table
func (s *Service) EnsureSchema(ctx context.Context) error {
	return s.binder.Bind(s.db).EnsureSchema(ctx)
}

// Import stores rec. Deferred records are buffered and the last one per id wins
func (s *Service) Import(ctx context.Context, rec aardvark.Record, opts domain.ImportOptions) (int, error) {
	id := rec.ID()
	if id == "" {
		return 0, nil
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeJSON, "encode record %s", id)
	}
	row := domain.Row{ID: id, Title: rec.Title(), Doc: doc, SourcePath: opts.SourcePath}

	if opts.Deferred {
		s.mu.Lock()
		s.seq++
		s.pending[id] = pendingRow{row: row, seq: s.seq}
		s.mu.Unlock()
		return 1, nil
	}

	if _, err := s.binder.Bind(s.db).Upsert(ctx, []domain.Row{row}); err != nil {
		return 0, err
	}
	return 1, nil
}

// Pending returns the number of buffered records
func (s *Service) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Commit writes the buffer in one transaction, retrying on contention.
// Entries are dropped from the buffer only once they are committed
func (s *Service) Commit(ctx context.Context) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	s.mu.Lock()
	snap := make(map[string]pendingRow, len(s.pending))
	rows := make([]domain.Row, 0, len(s.pending))
	for id, p := range s.pending {
		snap[id] = p
		rows = append(rows, p.row)
	}
	s.mu.Unlock()
	if len(rows) == 0 {
		return nil
	}

	log := logger.C(ctx).With().Str("component", "records").Logger()
	start := time.Now()

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.cfg.RetryBase
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(s.cfg.CommitRetries)), ctx)

	var written int64
	op := func() error {
		written = 0
		err := repokit.WithTx(ctx, s.db, func(q repokit.Queryer) error {
			repo := repokit.MustBind(s.binder, q)
			for i := 0; i < len(rows); i += s.cfg.Batch {
				n, err := repo.Upsert(ctx, rows[i:min(i+s.cfg.Batch, len(rows))])
				if err != nil {
					return err
				}
				written += n
			}
			return nil
		})
		if err != nil && !perr.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("commit hit contention, retrying")
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return err
	}

	s.mu.Lock()
	for id, p := range snap {
		if cur, ok := s.pending[id]; ok && cur.seq == p.seq {
			delete(s.pending, id)
		}
	}
	s.mu.Unlock()

	log.Info().Int("records", len(rows)).Int64("rows_affected", written).Dur("elapsed", time.Since(start)).Msg("commit done")
	return nil
}

// Get loads one stored record
func (s *Service) Get(ctx context.Context, id string) (domain.StoredRecord, error) {
	if id == "" {
		return domain.StoredRecord{}, perr.WithField(perr.InvalidArgf("id is required"), "id")
	}
	return s.binder.Bind(s.db).Get(ctx, id)
}

// Count returns the number of stored records
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.binder.Bind(s.db).Count(ctx)
}

// Export hands each record to fn as indented JSON with null and empty values dropped
func (s *Service) Export(ctx context.Context, fn func(id string, doc []byte) error) (int, error) {
	n := 0
	err := s.binder.Bind(s.db).Each(ctx, func(r domain.StoredRecord) error {
		if r.ID == "" {
			return nil
		}
		b, err := r.Doc.Compact().MarshalIndent()
		if err != nil {
			return perr.Wrapf(err, perr.ErrorCodeJSON, "encode record %s", r.ID)
		}
		if err := fn(r.ID, b); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}
