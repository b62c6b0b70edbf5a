// CLAUDE:SUMMARY Prometheus collectors for HTTP traffic, dataset parse timings and the dataset cache, on a private registry.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service's collectors. A nil *Recorder is valid and
// records nothing, so components can be built without metrics in tests.
type Recorder struct {
	reg *prometheus.Registry

	requests        *prometheus.CounterVec   // dashboard_http_requests_total
	requestDuration *prometheus.HistogramVec // dashboard_http_request_duration_seconds
	parseDuration   *prometheus.HistogramVec // dashboard_dataset_parse_duration_seconds
	parseRows       *prometheus.GaugeVec     // dashboard_dataset_rows
	cache           *prometheus.CounterVec   // dashboard_dataset_cache_total
}

// New registers every collector on a fresh registry.
func New() (*Recorder, error) {
	reg := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_http_requests_total",
			Help: "HTTP requests partitioned by route and status code.",
		},
		[]string{"route", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request latency partitioned by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	parseDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_dataset_parse_duration_seconds",
			Help:    "Time spent reading and parsing a dataset file.",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"dataset", "status"},
	)
	parseRows := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dashboard_dataset_rows",
			Help: "Data rows in the last successful parse of a dataset.",
		},
		[]string{"dataset"},
	)
	cache := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_dataset_cache_total",
			Help: "Dataset cache lookups partitioned by result (hit, miss).",
		},
		[]string{"result"},
	)

	for name, c := range map[string]prometheus.Collector{
		"requests":         requests,
		"request duration": requestDuration,
		"parse duration":   parseDuration,
		"parse rows":       parseRows,
		"cache":            cache,
		"go":               collectors.NewGoCollector(),
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register %s: %w", name, err)
		}
	}

	return &Recorder{
		reg:             reg,
		requests:        requests,
		requestDuration: requestDuration,
		parseDuration:   parseDuration,
		parseRows:       parseRows,
		cache:           cache,
	}, nil
}

// ObserveRequest counts one served request.
func (r *Recorder) ObserveRequest(route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(route, fmt.Sprint(status)).Inc()
	r.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveParse records one dataset parse. rows is ignored when err != nil.
func (r *Recorder) ObserveParse(dataset string, rows int, err error, d time.Duration) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		r.parseRows.WithLabelValues(dataset).Set(float64(rows))
	}
	r.parseDuration.WithLabelValues(dataset, status).Observe(d.Seconds())
}

// CacheResult counts a cache lookup.
func (r *Recorder) CacheResult(hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.cache.WithLabelValues("hit").Inc()
		return
	}
	r.cache.WithLabelValues("miss").Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
