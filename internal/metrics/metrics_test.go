package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(syncRunsTotal.WithLabelValues("artikel_index", ResultSuccess))
	IncSyncRun("artikel_index", ResultSuccess)
	if got := testutil.ToFloat64(syncRunsTotal.WithLabelValues("artikel_index", ResultSuccess)); got != before+1 {
		t.Fatalf("sync runs = %v, want %v", got, before+1)
	}

	ObserveSync(2*time.Second, 42)
	if got := testutil.ToFloat64(indexArticles); got != 42 {
		t.Fatalf("index articles = %v", got)
	}

	IncPageCheck("OK")
	if got := testutil.ToFloat64(pageChecksTotal.WithLabelValues("OK")); got < 1 {
		t.Fatalf("page checks = %v", got)
	}
}

func TestExposure(t *testing.T) {
	ObserveHTTPRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)
	IncCatalogFallback("anime")

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		`artikelhub_http_requests_total{method="GET",route="unmatched",status="404"}`,
		`artikelhub_catalog_fallbacks_total{action="anime"}`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("missing %s", want)
		}
	}
}
