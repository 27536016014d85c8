// Package telemetry exposes the Prometheus collectors of the ranking pipeline.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	// Registry holds every collector below plus the Go and process collectors.
	Registry = prometheus.NewRegistry()

	ProviderRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tickerrank",
		Name:      "provider_requests_total",
		Help:      "Series fetches by provider and outcome.",
	}, []string{"provider", "outcome"})

	ProviderLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tickerrank",
		Name:      "provider_request_duration_seconds",
		Help:      "Latency of series fetches.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider"})

	ProviderRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tickerrank",
		Name:      "provider_retries_total",
		Help:      "Retried remote requests.",
	}, []string{"provider"})

	SymbolsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tickerrank",
		Name:      "symbols_processed_total",
		Help:      "Symbols run through the pipeline, labelled by the stage they stopped at (\"done\" on success).",
	}, []string{"stage"})

	Analyses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tickerrank",
		Name:      "analyses_total",
		Help:      "Batch analyses by outcome.",
	}, []string{"outcome"})

	IngestedQuotes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tickerrank",
		Name:      "ingested_quotes_total",
		Help:      "Daily quotes written to the cache.",
	}, []string{"symbol"})

	HTTPRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tickerrank",
		Name:      "http_request_duration_seconds",
		Help:      "API latency by route template and status code.",
		Buckets:   []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60},
	}, []string{"route", "status"})

	Panics = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tickerrank",
		Name:      "http_panics_total",
		Help:      "Handler panics recovered by the API.",
	})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ProviderRequests,
		ProviderLatency,
		ProviderRetries,
		SymbolsProcessed,
		Analyses,
		IngestedQuotes,
		HTTPRequests,
		Panics,
	)
}

// Handler serves Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Outcome maps an error to an outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
