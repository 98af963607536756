// Package module wires the bulk importer
package module

import (
	"aardsync/internal/adapters/forge/github"
	"aardsync/internal/core/aardvark"
	"aardsync/internal/modkit"
	"aardsync/internal/services/importer/domain"
	"aardsync/internal/services/importer/service"
)

// Collaborators are the ports the importer borrows from other modules.
// Pass them with modkit.WithPorts
type Collaborators struct {
	Sink domain.RecordSink
	Runs domain.RunRecorder // optional
}

// Ports defines the importer module ports
type Ports struct {
	Importer domain.ImporterPort
}

// Module implements the importer module. It mounts no routes
type Module struct {
	forge  *github.Client
	collab Collaborators
	opts   Options
	ports  Ports
}

// New constructs the importer over the shared forge client and the injected record sink
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	if deps.Forge == nil {
		panic("importer module requires a forge client")
	}
	b := modkit.Build(append([]modkit.Option{modkit.WithName("importer")}, opts...)...)
	collab, ok := modkit.PortsAs[Collaborators](b)
	if !ok || collab.Sink == nil {
		panic("importer module requires a record sink (modkit.WithPorts(Collaborators{...}))")
	}

	m := &Module{forge: deps.Forge, collab: collab, opts: FromConfig(deps.Cfg)}
	m.ports = m.build(deps.Forge, nil)
	return m
}

func (m *Module) build(f *github.Client, obs domain.ProgressObserver) Ports {
	svc := service.New(NewFetcher(f, m.opts.Source), aardvark.Crosswalk{}, m.collab.Sink, m.opts.Service)
	if m.collab.Runs != nil {
		svc.WithRunRecorder(m.collab.Runs)
	}
	if obs != nil {
		svc.WithObserver(obs)
	}
	return Ports{Importer: svc}
}

// Name returns the module name
func (m *Module) Name() string { return "importer" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// WithToken returns ports that call the forge with token
func (m *Module) WithToken(token string) Ports { return m.Observed(token, nil) }

// Observed returns ports for one run that report progress to obs.
// An empty token keeps the shared client
func (m *Module) Observed(token string, obs domain.ProgressObserver) Ports {
	if token == "" && obs == nil {
		return m.ports
	}
	f := m.forge
	if token != "" {
		f = f.WithToken(token)
	}
	return m.build(f, obs)
}
