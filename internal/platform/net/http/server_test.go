package http_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fishdash/internal/platform/config"
	phttp "fishdash/internal/platform/net/http"
	"fishdash/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

func TestNewServer_Config(t *testing.T) {
	testkit.Env(t, map[string]string{"T_ADDR": ":12345"})

	srv := phttp.NewServer(config.New().Prefix("T_"))
	if srv.Addr() != ":12345" {
		t.Fatalf("Addr = %q", srv.Addr())
	}
	if phttp.NewServer(config.New().Prefix("UNSET_")).Addr() != ":4000" {
		t.Fatal("default addr should be :4000")
	}
}

func TestRouter_RoutesAndMiddleware(t *testing.T) {
	hooked := false
	srv := phttp.NewServer(config.New(), func(*chi.Mux) { hooked = true })
	if !hooked {
		t.Fatal("mux option not applied")
	}

	r := srv.Router()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Stack", "root")
			next.ServeHTTP(w, req)
		})
	})
	r.Route("/surveys", func(sub phttp.Router) {
		sub.Get("/waters", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "waters") })
		sub.Post("/query", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
	})
	r.Handle("/metrics", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }))

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/surveys/waters", http.StatusOK},
		{http.MethodPost, "/surveys/query", http.StatusAccepted},
		{http.MethodGet, "/surveys/query", http.StatusMethodNotAllowed},
		{http.MethodGet, "/metrics", http.StatusTeapot},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))
		if rec.Code != c.want {
			t.Fatalf("%s %s = %d, want %d", c.method, c.path, rec.Code, c.want)
		}
		if rec.Header().Get("X-Stack") != "root" {
			t.Fatalf("%s %s skipped root middleware", c.method, c.path)
		}
	}
}

func TestMountProfiler(t *testing.T) {
	on := phttp.NewServer(config.New()).Router()
	phttp.MountProfiler(on, "/debug/", true)
	rec := httptest.NewRecorder()
	on.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("enabled profiler = %d", rec.Code)
	}

	off := phttp.NewServer(config.New()).Router()
	phttp.MountProfiler(off, "/debug", false)
	rec = httptest.NewRecorder()
	off.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("disabled profiler = %d", rec.Code)
	}
}

func TestServer_ServeUntilCancel(t *testing.T) {
	testkit.Env(t, map[string]string{"T_SHUTDOWN_GRACE": "500ms"})
	srv := phttp.NewServer(config.New().Prefix("T_"))
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) { _, _ = io.WriteString(w, "pong") })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	res, err := http.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	_ = res.Body.Close()
	if string(body) != "pong" {
		t.Fatalf("body = %q", body)
	}
	if srv.Addr() != ln.Addr().String() {
		t.Fatalf("Addr = %q, want bound %q", srv.Addr(), ln.Addr())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServer_RunListenError(t *testing.T) {
	testkit.Env(t, map[string]string{"T_ADDR": "127.0.0.1:abc"})
	err := phttp.NewServer(config.New().Prefix("T_")).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "abc") {
		t.Fatalf("want listen error, got %v", err)
	}
}
