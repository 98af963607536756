// Package module wires meta endpoints into the API
package module

import (
	"net/http"
	"time"

	"aardsync/internal/modkit"
	"aardsync/internal/modkit/httpkit"
	str "aardsync/internal/platform/strings"
	metahttp "aardsync/internal/services/api/meta/http"
)

// ServiceName is reported by the meta endpoints
const ServiceName = "aardsync-api"

// Module implements the module.Module interface
type Module struct {
	deps      modkit.Deps
	name      string
	prefix    string
	mws       []func(http.Handler) http.Handler
	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	return &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		startedAt: time.Now(),
	}
}

// MountRoutes implements the module.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	d := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   m.startedAt,
		Forge:       m.deps.Forge != nil && m.deps.Forge.Authenticated(),
	}
	// typed nils must stay untyped so disabled backends report skipped
	if m.deps.PG != nil {
		d.PG = m.deps.PG
	}
	if m.deps.CH != nil {
		d.CH = m.deps.CH
	}
	httpkit.MountUnder(r, str.MustPrefix(m.prefix), m.mws, func(rr httpkit.Router) {
		metahttp.Register(rr, d)
	})
}

// Name implements the module.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Ports implements the module.Module interface
func (m *Module) Ports() any { return nil }
