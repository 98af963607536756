// Package module wires the sync api: scan, import, write back and record lookups
package module

import (
	"net/http"

	"aardsync/internal/modkit"
	"aardsync/internal/modkit/httpkit"
	str "aardsync/internal/platform/strings"
	"aardsync/internal/services/api/sync/domain"
	synchttp "aardsync/internal/services/api/sync/http"
	"aardsync/internal/services/api/sync/service"
)

// RecordsPrefix is where record lookups are mounted
const RecordsPrefix = "/records"

// Module implements the module.Module interface
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	svc    service.Service
}

// New constructs the sync module. Backends must be injected with modkit.WithPorts
func New(_ modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("sync"),
		modkit.WithPrefix("/sync"),
	}, opts...)...)

	backends, ok := modkit.PortsAs[domain.Backends](b)
	if !ok {
		panic("sync module requires backends (modkit.WithPorts(domain.Backends{...}))")
	}
	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    service.New(backends),
	}
}

// MountRoutes implements the module.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, str.MustPrefix(m.prefix), m.mws, func(rr httpkit.Router) {
		synchttp.Register(rr, m.svc)
	})
	httpkit.MountUnder(r, RecordsPrefix, m.mws, func(rr httpkit.Router) {
		synchttp.RegisterRecords(rr, m.svc)
	})
}

// Name implements the module.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "sync") }

// Ports implements the module.Module interface
func (m *Module) Ports() any { return m.svc }
