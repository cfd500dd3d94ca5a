package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fishdash/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics())
	r.Get("/token/{token}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, tok := range []string{"abc", "def"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/token/"+tok, nil))
		if rec.Code != http.StatusTeapot {
			t.Fatalf("status = %d", rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	want := `fishdash_http_requests_total{method="GET",route="/token/{token}",status="418"} 2`
	if !strings.Contains(string(body), want) {
		t.Fatalf("missing %q in exposition", want)
	}
	if strings.Contains(string(body), `route="/token/abc"`) {
		t.Fatal("raw path leaked into labels")
	}
}
