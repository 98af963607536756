// Package module wires the clickhouse import run log
package module

import (
	"context"

	"aardsync/internal/modkit"
	"aardsync/internal/services/runs/domain"
	"aardsync/internal/services/runs/repo"
	"aardsync/internal/services/runs/service"
)

// Ports defines the run log module ports
type Ports struct {
	Runs domain.RunLogPort
}

// Module implements the run log module
type Module struct {
	svc *service.Service
}

// New constructs the run log. Without clickhouse every call is a no-op
func New(deps modkit.Deps) *Module {
	var r domain.Repo
	if deps.CH != nil {
		r = repo.NewCH(deps.CH)
	} else {
		deps.Log.Debug().Msg("clickhouse disabled; import runs are not recorded")
	}
	return &Module{svc: service.New(r)}
}

// Name returns the module name
func (m *Module) Name() string { return "runs" }

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Runs: m.svc} }

// Runs returns the run log port
func (m *Module) Runs() domain.RunLogPort { return m.svc }

// Enabled reports whether runs are persisted
func (m *Module) Enabled() bool { return m.svc.Enabled() }

// EnsureSchema creates the run log tables when clickhouse is enabled
func (m *Module) EnsureSchema(ctx context.Context) error { return m.svc.EnsureSchema(ctx) }
