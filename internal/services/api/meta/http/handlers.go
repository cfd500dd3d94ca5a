// Package http serves the operational meta endpoints: liveness, readiness
// with dependency probes, build info and the loaded catalog summary
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"fishdash/internal/core/catalog"
	"fishdash/internal/core/version"
	"fishdash/internal/modkit/httpkit"
	perr "fishdash/internal/platform/errors"

	"golang.org/x/sync/errgroup"
)

// Pinger is satisfied by the sql backends
type Pinger interface {
	Ping(stdctx.Context) error
}

// CatalogPort reports the loaded survey catalog
type CatalogPort interface {
	Catalog(stdctx.Context) (catalog.Info, error)
}

// Backend is an optional dependency probed by /ready
type Backend struct {
	Name   string
	Pinger Pinger
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Backends    []Backend
	Catalog     CatalogPort

	// ProbeTimeout bounds each readiness probe, default 2s
	ProbeTimeout time.Duration
}

// Readiness states
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusFail     = "fail"
)

type handlers struct {
	Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.ProbeTimeout <= 0 {
		d.ProbeTimeout = 2 * time.Second
	}
	h := &handlers{Deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/catalog", h.catalog)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"fishdash-api"`
	Now     string `json:"now"     example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck is the outcome of one probe
type ReadyCheck struct {
	Name     string `json:"name"            example:"catalog"`
	Required bool   `json:"required"        example:"true"`
	OK       bool   `json:"ok"              example:"true"`
	Error    string `json:"error,omitempty" example:"catalog not loaded"`
	Millis   int64  `json:"ms"              example:"1"`
}

// ReadyResponse summarizes readiness. A failed required check turns the
// response into a 503; a failed backend only degrades it since queries are
// served from the in memory catalog
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
}

// ServiceResponse describes the running process
type ServiceResponse struct {
	Name    string `json:"name"    example:"fishdash-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// CatalogResponse reports the loaded catalog and build info
type CatalogResponse struct {
	Catalog catalog.Info      `json:"catalog"`
	Build   version.BuildInfo `json:"build"`
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.ServiceName, Now: now()}, nil
}

// @Summary Readiness with dependency probes
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	probes := make([]func(stdctx.Context) error, 0, len(h.Backends)+1)
	checks := make([]ReadyCheck, 0, len(h.Backends)+1)

	checks = append(checks, ReadyCheck{Name: "catalog", Required: true})
	probes = append(probes, h.probeCatalog)
	for _, b := range h.Backends {
		checks = append(checks, ReadyCheck{Name: b.Name})
		probes = append(probes, b.Pinger.Ping)
	}

	// probes never fail the group; each records its own outcome
	var g errgroup.Group
	for i := range probes {
		g.Go(func() error {
			ctx, cancel := stdctx.WithTimeout(r.Context(), h.ProbeTimeout)
			defer cancel()
			start := time.Now()
			err := probes[i](ctx)
			checks[i].Millis = time.Since(start).Milliseconds()
			checks[i].OK = err == nil
			if err != nil {
				checks[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	out := ReadyResponse{Status: StatusOK, Checks: checks}
	for _, c := range checks {
		switch {
		case c.OK:
		case c.Required:
			out.Status = StatusFail
		case out.Status == StatusOK:
			out.Status = StatusDegraded
		}
	}
	if out.Status == StatusFail {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

var errNoCatalog = perr.New(perr.ErrorCodeUnavailable, "no catalog port")

func (h *handlers) probeCatalog(ctx stdctx.Context) error {
	if h.Catalog == nil {
		return errNoCatalog
	}
	_, err := h.Catalog.Catalog(ctx)
	return err
}

// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(*http.Request) (any, error) {
	return version.For(h.ServiceName), nil
}

// @Summary Process info and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.ServiceName,
		Started: h.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(time.Since(h.StartedAt) / time.Second),
	}, nil
}

// @Summary Loaded survey catalog and build
// @Tags Meta
// @Produce json
// @Success 200 {object} CatalogResponse
// @Failure 503 {object} object "catalog not loaded"
// @Router /meta/catalog [get]
func (h *handlers) catalog(r *http.Request) (any, error) {
	out := CatalogResponse{Build: version.For(h.ServiceName)}
	if h.Catalog == nil {
		return out, nil
	}
	info, err := h.Catalog.Catalog(r.Context())
	if err != nil {
		return nil, err
	}
	out.Catalog = info
	return out, nil
}
