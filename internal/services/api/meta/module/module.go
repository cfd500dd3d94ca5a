// Package module wires the meta endpoints into the API
package module

import (
	"slices"
	"strings"
	"time"

	"fishdash/internal/modkit"
	"fishdash/internal/modkit/httpkit"

	metahttp "fishdash/internal/services/api/meta/http"
)

// Ports declares what meta needs injected from other modules
type Ports struct {
	Catalog metahttp.CatalogPort
}

// Module serves health, readiness and build info
type Module struct {
	base    modkit.Base
	handler metahttp.Deps
}

// New builds the meta module. Pass Ports through modkit.WithPorts to
// enable the catalog probe and endpoint
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	hd := metahttp.Deps{
		ServiceName:  "fishdash-api",
		StartedAt:    time.Now(),
		ProbeTimeout: deps.Cfg.Prefix("CORE_API_").MayDuration("READY_TIMEOUT", 2*time.Second),
	}
	for name, db := range map[string]any{"pg": deps.PG, "sqlite": deps.SQLite} {
		if p, ok := db.(metahttp.Pinger); ok {
			hd.Backends = append(hd.Backends, metahttp.Backend{Name: name, Pinger: p})
		}
	}
	slices.SortFunc(hd.Backends, func(a, b metahttp.Backend) int { return strings.Compare(a.Name, b.Name) })
	if p, ok := b.Injected.(Ports); ok {
		hd.Catalog = p.Catalog
	}
	return &Module{base: b, handler: hd}
}

// Name implements modkit.Module
func (m *Module) Name() string { return m.base.Name }

// Ports implements modkit.Module; meta exports nothing
func (m *Module) Ports() any { return nil }

// MountRoutes implements modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.base.Mount(r, func(sr httpkit.Router) { metahttp.Register(sr, m.handler) })
}
