package modkit

import (
	"net/http"

	"fishdash/internal/modkit/httpkit"
	pstrings "fishdash/internal/platform/strings"
)

// Option adjusts how a module is built
type Option func(*buildCfg)

type buildCfg struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	ports  any
}

// WithName sets the module name used in logs and panics
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix mounts the module under prefix, relative to the api root
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithMiddlewares appends module scoped middleware, outermost first
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts injects ports the module consumes from other modules.
// The concrete type is declared by the consuming module
func WithPorts[T any](p T) Option {
	return func(c *buildCfg) { c.ports = p }
}

// Base is the resolved build config a module embeds
type Base struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler

	// Injected holds what WithPorts supplied, nil when nothing was
	Injected any
}

// Build applies opts in order; later options win. Name and prefix are required
func Build(opts ...Option) Base {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Base{
		Name:     pstrings.MustString(c.name, "module name"),
		Prefix:   pstrings.MustPrefix(c.prefix),
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Injected: c.ports,
	}
}

// Mount routes b.Prefix on r, applies the module middleware and hands the
// subrouter to register
func (b Base) Mount(r httpkit.Router, register func(httpkit.Router)) {
	r.Route(b.Prefix, func(sr httpkit.Router) {
		sr.Use(b.Mw...)
		register(sr)
	})
}
