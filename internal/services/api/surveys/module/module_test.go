package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fishdash/internal/core/catalog"
	"fishdash/internal/modkit"
	"fishdash/internal/platform/config"
	phttp "fishdash/internal/platform/net/http"
	surveyssvc "fishdash/internal/services/api/surveys/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultsAndPorts(t *testing.T) {
	m := New(modkit.Deps{}, Options{Source: surveyssvc.SourceConfig{Kind: catalog.SourceEmbedded}})

	assert.Equal(t, "surveys", m.Name())
	ports := modkit.MustPortsOf[Ports](m)
	require.NotNil(t, ports.Service)

	info, err := ports.Service.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.SourceEmbedded, info.Source)
}

func TestNew_MissingBackendFallsBackToEmbedded(t *testing.T) {
	m := New(modkit.Deps{}, Options{Source: surveyssvc.SourceConfig{Kind: catalog.SourceSQLite}, LoadTimeout: time.Second})

	info, err := modkit.MustPortsOf[Ports](m).Service.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.SourceEmbedded, info.Source)
}

func TestNew_FailedLoadServesUnavailable(t *testing.T) {
	m := New(modkit.Deps{}, Options{Source: surveyssvc.SourceConfig{Kind: catalog.SourceFile, Path: "/nonexistent/catalog.yaml"}})

	r := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(r))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/surveys/waters", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNew_InjectedServiceAndPrefix(t *testing.T) {
	c, err := catalog.Embedded()
	require.NoError(t, err)
	svc := surveyssvc.New(surveyssvc.Static(c))
	require.NoError(t, svc.Reload(context.Background()))

	m := New(modkit.Deps{}, Options{Service: svc}, modkit.WithPrefix("/catalog"))
	assert.Same(t, svc, modkit.MustPortsOf[Ports](m).Service)

	r := chi.NewRouter()
	m.MountRoutes(phttp.AdaptChi(r))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/species", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFromConfig(t *testing.T) {
	t.Setenv("FISHDASH_CATALOG_SOURCE", "FILE")
	t.Setenv("FISHDASH_CATALOG_PATH", "/srv/catalog.yaml")
	t.Setenv("FISHDASH_CATALOG_LOAD_TIMEOUT", "5s")
	t.Setenv("FISHDASH_CATALOG_STATEMENT_TIMEOUT", "250ms")

	o := FromConfig(config.New())
	assert.Equal(t, catalog.SourceFile, o.Source.Kind)
	assert.Equal(t, "/srv/catalog.yaml", o.Source.Path)
	assert.Equal(t, 5*time.Second, o.LoadTimeout)
	assert.Equal(t, 250*time.Millisecond, o.Source.StatementTimeout)
}
