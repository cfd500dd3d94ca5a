package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"fishdash/internal/platform/config"
	"fishdash/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	CORSOrigins []string      // empty allows any origin
	Timeout     time.Duration // per request, default 30s
	SlowRequest time.Duration // access log warn threshold, default 500ms
	MaxInFlight int           // 0 disables throttling
}

// StackFromConfig reads CORS_ORIGINS, REQUEST_TIMEOUT, SLOW_REQUEST and
// MAX_INFLIGHT from cfg, normally the CORE_API_ view
func StackFromConfig(cfg config.Conf) StackOptions {
	return StackOptions{
		CORSOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
		Timeout:     cfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest: cfg.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		MaxInFlight: cfg.MayInt("MAX_INFLIGHT", 0),
	}
}

// CommonStack is the middleware every api route runs behind, outermost first
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		// RealIP first so the logged client is the upstream one
		middleware.RealIP(),
		middleware.RequestID(),
		middleware.RecoverJSON,

		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.SlowRequest}),
		middleware.Metrics(),

		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Throttle(o.MaxInFlight, o.Timeout),
		middleware.NoCache(),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
