// Package metrics collects Prometheus counters for the sync core. Silent
// degradation is the reconciler's policy, so these counters are the primary
// way a caller detects a degraded run without reading logs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registers and increments the sync counters.
type Collector struct {
	registry *prometheus.Registry

	queriesTotal      prometheus.Counter
	cascadeExhausted  prometheus.Counter
	sourceFailures    *prometheus.CounterVec
	batchFailures     prometheus.Counter
	traceWriteFail    prometheus.Counter
	httpRequestsTotal *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		queriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scobro_czql_queries_total",
			Help: "Total CZQL queries issued against the PPM tenant.",
		}),
		cascadeExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scobro_cascade_exhausted_total",
			Help: "Query cascades that ran out of candidates without a non-empty result.",
		}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scobro_source_failures_total",
			Help: "Reconciliation source fetches that failed and degraded the pass.",
		}, []string{"source"}),
		batchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scobro_batch_failures_total",
			Help: "Chunked-fetch batches that failed and contributed zero records.",
		}),
		traceWriteFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scobro_trace_write_failures_total",
			Help: "Swallowed debug-trace write failures.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scobro_http_requests_total",
			Help: "Local API requests by route and status code.",
		}, []string{"route", "status"}),
	}

	c.registry.MustRegister(
		c.queriesTotal,
		c.cascadeExhausted,
		c.sourceFailures,
		c.batchFailures,
		c.traceWriteFail,
		c.httpRequestsTotal,
	)
	return c
}

func (c *Collector) RecordQuery()             { c.queriesTotal.Inc() }
func (c *Collector) RecordCascadeExhausted()  { c.cascadeExhausted.Inc() }
func (c *Collector) RecordBatchFailure()      { c.batchFailures.Inc() }
func (c *Collector) RecordTraceWriteFailure() { c.traceWriteFail.Inc() }

func (c *Collector) RecordSourceFailure(source string) {
	c.sourceFailures.WithLabelValues(source).Inc()
}

func (c *Collector) RecordHTTPRequest(route string, status string) {
	c.httpRequestsTotal.WithLabelValues(route, status).Inc()
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
