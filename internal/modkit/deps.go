// Package modkit provides module wiring and core deps
package modkit

import (
	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/modkit/repokit"
	"aardsync/internal/platform/config"
	"aardsync/internal/platform/logger"
	"aardsync/internal/platform/store"
)

// Deps holds core dependencies passed to modules.
// PG and CH are nil when the backend is disabled
type Deps struct {
	Log   logger.Logger
	Cfg   config.Conf
	PG    repokit.TxRunner
	CH    store.Clickhouse
	Forge *github.Client
}
