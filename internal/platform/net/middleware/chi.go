// Package middleware adapts chi and go-chi/cors middleware and hosts the in house
// access log, metrics and panic recovery
package middleware

import (
	"net/http"
	"time"

	"fishdash/internal/platform/logger"
	pnet "fishdash/internal/platform/net"
	pstrings "fishdash/internal/platform/strings"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the stdlib middleware shape
type Middleware = func(http.Handler) http.Handler

// RequestID attaches or propagates X-Request-Id and copies it, with the client
// address, onto the request and logger contexts. Mount after RealIP
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		tag := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := pnet.WithRequest(r.Context(), "", r.RemoteAddr)
			ctx = logger.WithRequest(ctx, pnet.RequestID(ctx), r.RemoteAddr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
		return chimw.RequestID(tag)
	}
}

// RealIP sets RemoteAddr from X-Real-IP or X-Forwarded-For
func RealIP() Middleware { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// NoCache marks every response uncacheable; query results follow the live catalog
func NoCache() Middleware { return chimw.NoCache }

// Compress gzips or deflates responses at level
func Compress(level int) Middleware {
	c := chimw.NewCompressor(level)
	return c.Handler
}

// StripSlashes drops a trailing slash before routing
func StripSlashes() Middleware { return chimw.StripSlashes }

// Heartbeat answers GET path with 200 before routing
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// Throttle caps in flight requests; excess waits up to wait in a backlog of
// the same size, then gets 429. limit <= 0 disables it
func Throttle(limit int, wait time.Duration) Middleware {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return chimw.ThrottleBacklog(limit, limit, wait)
}

// CORSOptions is the part of go-chi/cors the api configures
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int
}

// CORS wraps go-chi/cors. The api is read only, so only GET, POST and
// OPTIONS are allowed unless o says otherwise
func CORS(o CORSOptions) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: pstrings.IfEmpty(o.AllowedOrigins, []string{"*"}),
		AllowedMethods: pstrings.IfEmpty(o.AllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		AllowedHeaders: pstrings.IfEmpty(o.AllowedHeaders, []string{"Accept", "Content-Type", "X-Request-Id"}),
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         o.MaxAge,
	})
}
