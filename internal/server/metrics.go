package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the HTTP surface.
//
// Metrics:
//   - ainotes_http_requests_total{method,route,code}
//   - ainotes_http_request_duration_seconds{method,route}
//   - ainotes_summaries_total{outcome}
//   - ainotes_notes
type Metrics struct {
	Requests  *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	Summaries *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// newMetrics registers the collectors on a private registry so several
// servers can live in one process.
func newMetrics(notes func() float64) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "ainotes_notes",
		Help: "Number of notes in the collection",
	}, notes)

	return &Metrics{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ainotes_http_requests_total",
				Help: "Total number of HTTP requests handled",
			},
			[]string{"method", "route", "code"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ainotes_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Summaries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ainotes_summaries_total",
				Help: "Summary requests by outcome",
			},
			[]string{"outcome"}, // "ok" or "error"
		),
		gatherer: reg,
	}
}
