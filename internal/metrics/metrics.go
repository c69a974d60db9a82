// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artikelhub_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artikelhub_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	syncRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artikelhub_sync_runs_total",
		Help: "Index sync runs by fetcher and result",
	}, []string{"fetcher", "result"}) // result=success|failure|empty

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "artikelhub_sync_duration_seconds",
		Help:    "Duration of a full index sync",
		Buckets: prometheus.DefBuckets,
	})

	indexArticles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "artikelhub_index_articles",
		Help: "Articles stored by the last successful sync",
	})

	pageChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artikelhub_page_checks_total",
		Help: "Page checks by verdict",
	}, []string{"verdict"})

	catalogFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artikelhub_catalog_fallbacks_total",
		Help: "Catalog answers served from placeholder data",
	}, []string{"action"})
)

// Sync results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultEmpty   = "empty"
)

func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func IncSyncRun(fetcher, result string) { syncRunsTotal.WithLabelValues(fetcher, result).Inc() }

func ObserveSync(d time.Duration, articles int) {
	syncDuration.Observe(d.Seconds())
	indexArticles.Set(float64(articles))
}

func IncPageCheck(verdict string)      { pageChecksTotal.WithLabelValues(verdict).Inc() }
func IncCatalogFallback(action string) { catalogFallbacksTotal.WithLabelValues(action).Inc() }
