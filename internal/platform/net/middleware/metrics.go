package middleware

import (
	"net/http"
	"time"

	"fishdash/internal/platform/metrics"
)

// Metrics records request counts and latency keyed by the chi route pattern
// so path parameters like tokens do not explode label cardinality
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cw := newCapture(w)
			start := time.Now()

			next.ServeHTTP(cw, r)

			metrics.ObserveHTTP(r.Method, routePattern(r), cw.status, time.Since(start))
		})
	}
}
