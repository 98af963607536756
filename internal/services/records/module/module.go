// Package module wires the record store
package module

import (
	"aardsync/internal/modkit"
	phttp "aardsync/internal/platform/net/http"
	"aardsync/internal/services/records/domain"
	"aardsync/internal/services/records/repo"
	"aardsync/internal/services/records/service"
)

// Ports defines the records module ports
type Ports struct {
	Records domain.ServicePort
}

// Module implements the records module. It mounts no routes of its own
type Module struct {
	ports Ports
}

// New constructs the records module. It needs postgres
func New(deps modkit.Deps) *Module {
	if deps.PG == nil {
		panic("records module requires postgres (SERVICE_PGSQL_DBURL)")
	}
	svc := service.New(deps.PG, repo.NewPG(), FromConfig(deps.Cfg))
	return &Module{ports: Ports{Records: svc}}
}

// MountRoutes is a no-op; records are served through the sync api
func (m *Module) MountRoutes(phttp.Router) {}

// Name returns the module name
func (m *Module) Name() string { return "records" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Records returns the record store port
func (m *Module) Records() domain.ServicePort { return m.ports.Records }
