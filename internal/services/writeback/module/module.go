// Package module wires the optimistic file writer
package module

import (
	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/modkit"
	"aardsync/internal/services/writeback/domain"
	"aardsync/internal/services/writeback/service"
)

// Ports defines the writeback module ports
type Ports struct {
	Writer domain.WriterPort
}

// Module implements the writeback module. It mounts no routes
type Module struct {
	forge *github.Client
	ports Ports
}

// New constructs the writer over the shared forge client
func New(deps modkit.Deps) *Module {
	if deps.Forge == nil {
		panic("writeback module requires a forge client")
	}
	return &Module{forge: deps.Forge, ports: Ports{Writer: service.New(deps.Forge)}}
}

// Name returns the module name
func (m *Module) Name() string { return "writeback" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// WithToken returns ports that write as the owner of token.
// An empty token keeps the shared client
func (m *Module) WithToken(token string) Ports {
	if token == "" {
		return m.ports
	}
	return Ports{Writer: service.New(m.forge.WithToken(token))}
}
