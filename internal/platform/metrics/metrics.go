// Package metrics holds the prometheus collectors shared by the api and the cli
// Collectors register on the default registry once at package init
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fishdash/internal/platform/store/trace"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fishdash"

// Outcome labels
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// queryRuns counts engine runs by operation and outcome
	// Labels: op (query, stats, compare), outcome (ok, error)
	queryRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "runs_total",
		Help:      "Total query engine runs",
	}, []string{"op", "outcome"})

	// queryLatency measures a full run including stats
	queryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "latency_seconds",
		Help:      "Query run latency in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
	}, []string{"op"})

	// matchedSurveys is the size of the filtered survey set per run
	matchedSurveys = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "matched_surveys",
		Help:      "Surveys matched per query",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
	})

	// pooledRecords is the size of the pooled fish record set per run
	pooledRecords = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "pooled_records",
		Help:      "Fish records pooled per query",
		Buckets:   []float64{0, 1, 10, 50, 100, 500, 1000, 5000},
	})

	// tokenFailures counts query tokens that could not be decoded
	tokenFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "token",
		Name:      "decode_failures_total",
		Help:      "Query tokens rejected at decode",
	})

	// sharedRuns counts callers that joined an in flight identical query
	sharedRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "shared_total",
		Help:      "Query runs served from an in flight identical run",
	})

	// catalogLoads counts catalog loads by source and outcome
	catalogLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "catalog",
		Name:      "loads_total",
		Help:      "Catalog loads by source",
	}, []string{"source", "outcome"})

	// httpRequests counts served requests by route pattern, not raw path
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "latency_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// sqlLatency measures store calls
	// Labels: backend (pg, sqlite), outcome (ok, error)
	sqlLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "sql",
		Name:      "latency_seconds",
		Help:      "SQL call latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"backend", "outcome"})

	// sqlSlow counts calls over the backend slow threshold
	sqlSlow = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sql",
		Name:      "slow_total",
		Help:      "SQL calls over the slow threshold",
	}, []string{"backend"})
)

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}

// ObserveRun records one engine run
func ObserveRun(op string, start time.Time, err error) {
	queryRuns.WithLabelValues(op, outcome(err)).Inc()
	queryLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// ObserveResult records the size of a run's output
func ObserveResult(surveys, records int) {
	matchedSurveys.Observe(float64(surveys))
	pooledRecords.Observe(float64(records))
}

// TokenFailed records a rejected token
func TokenFailed() { tokenFailures.Inc() }

// Shared records a caller served by an in flight run
func Shared() { sharedRuns.Inc() }

// CatalogLoaded records a catalog load attempt
func CatalogLoaded(source string, err error) {
	catalogLoads.WithLabelValues(source, outcome(err)).Inc()
}

// ObserveHTTP records one served request; route should be the matched pattern
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// SQLTracer returns a store tracer feeding the sql collectors
func SQLTracer() trace.Tracer {
	return trace.Func(func(_ context.Context, ev trace.Event) {
		sqlLatency.WithLabelValues(ev.Backend, outcome(ev.Err)).Observe(ev.Elapsed().Seconds())
		if ev.Slow {
			sqlSlow.WithLabelValues(ev.Backend).Inc()
		}
	})
}

// Handler serves the default registry in the prometheus text format
func Handler() http.Handler { return promhttp.Handler() }
