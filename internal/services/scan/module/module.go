// Package module wires the repository scanner
package module

import (
	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/modkit"
	"aardsync/internal/services/scan/domain"
	"aardsync/internal/services/scan/service"
)

// Ports defines the scan module ports
type Ports struct {
	Scanner domain.ScannerPort
}

// Module implements the scan module. It mounts no routes
type Module struct {
	forge *github.Client
	ports Ports
}

// New constructs the scan module over the shared forge client
func New(deps modkit.Deps) *Module {
	if deps.Forge == nil {
		panic("scan module requires a forge client")
	}
	return &Module{forge: deps.Forge, ports: Ports{Scanner: service.New(deps.Forge)}}
}

// Name returns the module name
func (m *Module) Name() string { return "scan" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// WithToken returns ports that call the forge with token.
// An empty token keeps the shared client
func (m *Module) WithToken(token string) Ports {
	if token == "" {
		return m.ports
	}
	return Ports{Scanner: service.New(m.forge.WithToken(token))}
}
