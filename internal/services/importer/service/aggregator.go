package service

import (
	"sync"

	"aardsync/internal/services/importer/domain"
)

// Aggregator owns the counters and error log of one run.
// Every method is safe for concurrent use
type Aggregator struct {
	mu       sync.Mutex
	progress domain.ImportProgress

	// ring buffer of the newest entries
	log   []domain.ErrorLogEntry
	start int
	n     int
}

// NewAggregator returns an aggregator for total files keeping the last limit errors
func NewAggregator(total, limit int) *Aggregator {
	if limit <= 0 {
		limit = domain.DefaultErrorLog
	}
	return &Aggregator{
		progress: domain.ImportProgress{Total: total},
		log:      make([]domain.ErrorLogEntry, limit),
	}
}

// RecordSuccess counts one imported file
func (a *Aggregator) RecordSuccess() {
	a.mu.Lock()
	a.progress.Successes++
	a.mu.Unlock()
}

// RecordFailure counts one failed file and logs it, dropping the oldest entry when full
func (a *Aggregator) RecordFailure(e domain.ErrorLogEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.progress.Failures++
	if a.n < len(a.log) {
		a.log[(a.start+a.n)%len(a.log)] = e
		a.n++
		return
	}
	a.log[a.start] = e
	a.start = (a.start + 1) % len(a.log)
}

// Advance moves Processed forward by n, capped at Total
func (a *Aggregator) Advance(n int) {
	a.mu.Lock()
	a.progress.Processed = min(a.progress.Processed+n, a.progress.Total)
	a.mu.Unlock()
}

// Snapshot copies the counters and the error log, oldest entry first
func (a *Aggregator) Snapshot() (domain.ImportProgress, []domain.ErrorLogEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.ErrorLogEntry, a.n)
	for i := range a.n {
		out[i] = a.log[(a.start+i)%len(a.log)]
	}
	return a.progress, out
}
