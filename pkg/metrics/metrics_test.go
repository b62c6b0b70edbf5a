package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Counter.Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer does not implement prometheus.Metric")
	}
	m := &dto.Metric{}
	if err := metric.Write(m); err != nil {
		t.Fatalf("Histogram.Write: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestObserveRequest(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.ObserveRequest("/api/data", 200, 10*time.Millisecond)
	r.ObserveRequest("/api/data", 200, 20*time.Millisecond)
	r.ObserveRequest("/api/data", 404, time.Millisecond)

	if got := counterValue(t, r.requests.WithLabelValues("/api/data", "200")); got != 2 {
		t.Errorf("200 count = %v, want 2", got)
	}
	if got := counterValue(t, r.requests.WithLabelValues("/api/data", "404")); got != 1 {
		t.Errorf("404 count = %v, want 1", got)
	}
	if got := histogramCount(t, r.requestDuration.WithLabelValues("/api/data")); got != 3 {
		t.Errorf("latency samples = %d, want 3", got)
	}
}

func TestObserveParse(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.ObserveParse("gdp", 266, nil, time.Millisecond)
	r.ObserveParse("gdp", 0, errors.New("boom"), time.Millisecond)

	m := &dto.Metric{}
	if err := r.parseRows.WithLabelValues("gdp").Write(m); err != nil {
		t.Fatalf("Gauge.Write: %v", err)
	}
	if got := m.GetGauge().GetValue(); got != 266 {
		t.Errorf("rows gauge = %v, want 266 (failed parse must not reset it)", got)
	}
	if got := histogramCount(t, r.parseDuration.WithLabelValues("gdp", "error")); got != 1 {
		t.Errorf("error samples = %d, want 1", got)
	}
}

func TestCacheResult(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.CacheResult(true)
	r.CacheResult(false)
	r.CacheResult(true)

	if got := counterValue(t, r.cache.WithLabelValues("hit")); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}
	if got := counterValue(t, r.cache.WithLabelValues("miss")); got != 1 {
		t.Errorf("misses = %v, want 1", got)
	}
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	r.ObserveRequest("/x", 500, time.Second)
	r.ObserveParse("x", 1, nil, time.Second)
	r.CacheResult(true)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Errorf("nil handler status = %d, want 200", rec.Code)
	}
}

func TestHandler(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.ObserveRequest("/api/data/top", 200, time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), `dashboard_http_requests_total{route="/api/data/top",status="200"} 1`) {
		t.Errorf("exposition missing request counter:\n%s", body)
	}
}
